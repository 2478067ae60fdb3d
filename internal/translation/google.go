package translation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

const googleURL = "https://translate.googleapis.com/translate_a/single"

// Google uses the public Google Translate endpoint that needs no key.
type Google struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewGoogle creates a Google source.
func NewGoogle(logger *slog.Logger) *Google {
	return NewGoogleWithURL(googleURL, logger)
}

// NewGoogleWithURL creates a Google source with a custom URL (for testing).
func NewGoogleWithURL(baseURL string, logger *slog.Logger) *Google {
	return &Google{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
		log:        logger.With("source", "google"),
	}
}

func (g *Google) Name() string { return "google" }

// Translate joins the translated segments of the response. The payload is
// a nested array whose first element lists [translation, original, ...]
// per sentence.
func (g *Google) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", googleCode(from))
	q.Set("tl", googleCode(to))
	q.Set("dt", "t")
	q.Set("q", text)

	body, err := get(ctx, g.httpClient, g.baseURL+"?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("google: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("google: malformed json")
	}

	var b strings.Builder
	for _, seg := range gjson.GetBytes(body, "0.#.0").Array() {
		b.WriteString(seg.String())
	}
	return b.String(), nil
}

func googleCode(tag language.Tag) string {
	if c := code(tag); c != "zh" {
		return c
	}
	if script, _ := tag.Script(); script.String() == "Hant" {
		return "zh-TW"
	}
	return "zh-CN"
}
