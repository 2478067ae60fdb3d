package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/lingocard/internal/lookup"
	"golang.org/x/text/language"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini translates with a Google Gemini model.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGemini creates a Gemini translator. The API client is created on the
// first call.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

// NewGeminiWithURL creates a Gemini translator talking to a custom API
// endpoint.
func NewGeminiWithURL(apiKey, baseURL, model string) *Gemini {
	g := NewGemini(apiKey, model)
	g.baseURL = baseURL
	return g
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}
		g.client, g.err = genai.NewClient(ctx, cfg)
	})
	return g.client, g.err
}

// Translate translates text from one language into another.
func (g *Gemini) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	if g.apiKey == "" {
		return "", lookup.ErrMissingKey
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	prompt := fmt.Sprintf("Translate the following %s text to %s. Respond with only the translation, nothing else.\n\n%s",
		lookup.LanguageName(from), lookup.LanguageName(to), text)

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
