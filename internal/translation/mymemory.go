package translation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

const myMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemory translates through the free MyMemory API. When the daily quota
// is used up the service answers 200 with a warning in place of the
// translation; the resolver rejects such answers.
type MyMemory struct {
	baseURL    string
	email      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewMyMemory creates a MyMemory source. A contact email raises the free
// quota and may be empty.
func NewMyMemory(email string, logger *slog.Logger) *MyMemory {
	return NewMyMemoryWithURL(myMemoryURL, email, logger)
}

// NewMyMemoryWithURL creates a MyMemory source with a custom URL (for testing).
func NewMyMemoryWithURL(baseURL, email string, logger *slog.Logger) *MyMemory {
	return &MyMemory{
		baseURL:    baseURL,
		email:      email,
		httpClient: newHTTPClient(),
		log:        logger.With("source", "mymemory"),
	}
}

func (m *MyMemory) Name() string { return "mymemory" }

// Translate returns responseData.translatedText.
func (m *MyMemory) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", code(from)+"|"+code(to))
	if m.email != "" {
		q.Set("de", m.email)
	}

	body, err := get(ctx, m.httpClient, m.baseURL+"?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("mymemory: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("mymemory: malformed json")
	}

	// responseStatus is a number on success and sometimes a string on error.
	if status := gjson.GetBytes(body, "responseStatus").Int(); status != 0 && status != http.StatusOK {
		return "", fmt.Errorf("mymemory: status %d: %s", status, gjson.GetBytes(body, "responseDetails").String())
	}

	out := gjson.GetBytes(body, "responseData.translatedText").String()
	m.log.DebugContext(ctx, "mymemory response", slog.String("text", text), slog.Int("length", len(out)))
	return out, nil
}
