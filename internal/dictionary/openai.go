package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"codeberg.org/snonux/lingocard/internal/lookup"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
)

// OpenAI asks a chat model for a dictionary entry written in the native
// language.
type OpenAI struct {
	apiKey string
	model  string
	native language.Tag
	client *openai.Client
}

// NewOpenAI creates an OpenAI dictionary source. An empty model selects
// gpt-4o-mini.
func NewOpenAI(apiKey, model string, native language.Tag) *OpenAI {
	return NewOpenAIWithURL(apiKey, "", model, native)
}

// NewOpenAIWithURL creates a source talking to a custom API base URL, such
// as a compatible proxy or a test server.
func NewOpenAIWithURL(apiKey, baseURL, model string, native language.Tag) *OpenAI {
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
		native: native,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Localized is true: definitions come back in the native language.
func (o *OpenAI) Localized() bool { return true }

type chatEntry struct {
	Phonetic    string `json:"phonetic"`
	Definitions []struct {
		Pos  string `json:"pos"`
		Text string `json:"text"`
	} `json:"definitions"`
	Examples []string `json:"examples"`
}

// Lookup asks the model for an entry. An empty JSON object means the model
// does not know the word.
func (o *OpenAI) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	if o.apiKey == "" {
		return nil, lookup.ErrMissingKey
	}

	native := lookup.LanguageName(o.native)
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are an English-%s learner's dictionary. Answer with a single JSON object and nothing else.", native),
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(`For the English word '%s' return:
{"phonetic": "IPA transcription between slashes",
 "definitions": [{"pos": "abbreviated part of speech such as n. v. adj.", "text": "definition in %s"}],
 "examples": ["English example sentence followed by its %s translation"]}
Give at most 3 definitions and 2 examples. If it is not an English word return {}.`, word, native, native),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.3,
		MaxTokens:      400,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var entry chatEntry
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &entry); err != nil {
		return nil, fmt.Errorf("openai: decode entry: %w", err)
	}

	d := &lookup.Dictionary{
		Word:     word,
		Phonetic: wrapPhonetic(entry.Phonetic),
		Examples: entry.Examples,
	}
	for _, def := range entry.Definitions {
		if strings.TrimSpace(def.Text) == "" {
			continue
		}
		d.Definitions = append(d.Definitions, lookup.Definition{PartOfSpeech: def.Pos, Text: def.Text})
	}
	if !d.Valid() {
		return nil, nil
	}
	return d, nil
}
