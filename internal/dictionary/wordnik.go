package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/lingocard/internal/lookup"
)

const wordnikURL = "https://api.wordnik.com/v4/word.json"

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// Wordnik queries the Wordnik API. Definitions are required; the
// pronunciation and examples are best effort.
type Wordnik struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWordnik creates a Wordnik source.
func NewWordnik(apiKey string, logger *slog.Logger) *Wordnik {
	return NewWordnikWithURL(wordnikURL, apiKey, logger)
}

// NewWordnikWithURL creates a Wordnik source with a custom base URL (for testing).
func NewWordnikWithURL(baseURL, apiKey string, logger *slog.Logger) *Wordnik {
	return &Wordnik{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(),
		log:        logger.With("source", "wordnik"),
	}
}

func (w *Wordnik) Name() string { return "wordnik" }

func (w *Wordnik) endpoint(word, resource string, query url.Values) string {
	query.Set("api_key", w.apiKey)
	return fmt.Sprintf("%s/%s/%s?%s", w.baseURL, url.PathEscape(word), resource, query.Encode())
}

// Lookup fetches definitions, pronunciation and examples for word.
func (w *Wordnik) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	if w.apiKey == "" {
		return nil, lookup.ErrMissingKey
	}

	body, err := get(ctx, w.httpClient, w.endpoint(word, "definitions", url.Values{
		"limit":          {"3"},
		"includeRelated": {"false"},
		"useCanonical":   {"false"},
		"includeTags":    {"false"},
	}), nil)
	if errors.Is(err, lookup.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wordnik definitions: %w", err)
	}

	var defs []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Text         string `json:"text"`
	}
	if err := json.Unmarshal(body, &defs); err != nil {
		return nil, fmt.Errorf("wordnik definitions: decode json: %w", err)
	}

	d := &lookup.Dictionary{Word: word}
	for _, def := range defs {
		text := strings.TrimSpace(markupPattern.ReplaceAllString(def.Text, ""))
		if text == "" {
			continue
		}
		d.Definitions = append(d.Definitions, lookup.Definition{PartOfSpeech: def.PartOfSpeech, Text: text})
	}
	if len(d.Definitions) == 0 {
		return nil, nil
	}

	d.Phonetic = w.pronunciation(ctx, word)
	d.Examples = w.examples(ctx, word)
	return d, nil
}

func (w *Wordnik) pronunciation(ctx context.Context, word string) string {
	body, err := get(ctx, w.httpClient, w.endpoint(word, "pronunciations", url.Values{"limit": {"1"}}), nil)
	if err != nil {
		w.log.DebugContext(ctx, "wordnik pronunciation unavailable", "word", word, "error", err)
		return ""
	}
	var prons []struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(body, &prons); err != nil || len(prons) == 0 || prons[0].Raw == "" {
		return ""
	}
	return "/" + strings.Trim(prons[0].Raw, "/") + "/"
}

func (w *Wordnik) examples(ctx context.Context, word string) []string {
	body, err := get(ctx, w.httpClient, w.endpoint(word, "examples", url.Values{"limit": {"3"}}), nil)
	if err != nil {
		w.log.DebugContext(ctx, "wordnik examples unavailable", "word", word, "error", err)
		return nil
	}
	var resp struct {
		Examples []struct {
			Text string `json:"text"`
		} `json:"examples"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}

	var out []string
	for _, ex := range resp.Examples {
		text := strings.TrimSpace(ex.Text)
		if text == "" || utf8.RuneCountInString(text) >= 200 {
			continue
		}
		out = append(out, text)
		if len(out) == 2 {
			break
		}
	}
	return out
}
