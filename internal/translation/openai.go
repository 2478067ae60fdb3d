package translation

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/snonux/lingocard/internal/lookup"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
)

// OpenAI translates with a chat completion model.
type OpenAI struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAI creates a translator instance. An empty model selects
// gpt-4o-mini.
func NewOpenAI(apiKey, model string) *OpenAI {
	return NewOpenAIWithURL(apiKey, "", model)
}

// NewOpenAIWithURL creates a translator talking to a custom API base URL.
func NewOpenAIWithURL(apiKey, baseURL, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (t *OpenAI) Name() string { return "openai" }

// Translate translates text from one language into another.
func (t *OpenAI) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	if t.apiKey == "" {
		return "", lookup.ErrMissingKey
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the following %s text to %s. Respond with only the translation, nothing else.\n\n%s",
					lookup.LanguageName(from), lookup.LanguageName(to), text),
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
