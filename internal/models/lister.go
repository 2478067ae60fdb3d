package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister lists OpenAI models.
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithURL(apiKey, "")
}

// NewListerWithURL creates a lister for an OpenAI compatible endpoint.
func NewListerWithURL(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// isChatModel reports whether id names a text chat model. Audio, image,
// embedding and moderation models are excluded.
func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "dall-e", "image", "embedding", "moderation", "whisper", "search"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "chatgpt") ||
		strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4")
}

// ChatModels returns the sorted ids of the chat models available to the
// API key.
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai.key in .lingocard.yaml")
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chat []string
	for _, m := range list.Models {
		if isChatModel(m.ID) {
			chat = append(chat, m.ID)
		}
	}
	sort.Strings(chat)
	return chat, nil
}

// Print writes the chat models to w, marking the configured one.
func (l *Lister) Print(ctx context.Context, w io.Writer, current string) error {
	chat, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "OpenAI chat models usable for dictionary and translation lookups:")
	if len(chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, id := range chat {
		if id == current {
			fmt.Fprintf(w, "  %s (configured)\n", id)
		} else {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	return nil
}
