package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/snonux/lingocard/internal/lookup"
	"github.com/tidwall/gjson"
)

const (
	wordsAPIURL  = "https://wordsapiv1.p.rapidapi.com/words"
	wordsAPIHost = "wordsapiv1.p.rapidapi.com"
)

// WordsAPI queries WordsAPI through RapidAPI.
type WordsAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWordsAPI creates a WordsAPI source.
func NewWordsAPI(apiKey string, logger *slog.Logger) *WordsAPI {
	return NewWordsAPIWithURL(wordsAPIURL, apiKey, logger)
}

// NewWordsAPIWithURL creates a WordsAPI source with a custom base URL (for testing).
func NewWordsAPIWithURL(baseURL, apiKey string, logger *slog.Logger) *WordsAPI {
	return &WordsAPI{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(),
		log:        logger.With("source", "wordsapi"),
	}
}

func (w *WordsAPI) Name() string { return "wordsapi" }

// Lookup fetches the entry for word.
func (w *WordsAPI) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	if w.apiKey == "" {
		return nil, lookup.ErrMissingKey
	}

	header := http.Header{}
	header.Set("X-RapidAPI-Key", w.apiKey)
	header.Set("X-RapidAPI-Host", wordsAPIHost)

	body, err := get(ctx, w.httpClient, w.baseURL+"/"+url.PathEscape(word), header)
	if errors.Is(err, lookup.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wordsapi: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("wordsapi: malformed json")
	}

	doc := gjson.ParseBytes(body)
	d := &lookup.Dictionary{Word: word}

	// pronunciation is either a string or an object keyed by part of speech.
	if p := doc.Get("pronunciation"); p.IsObject() {
		if all := p.Get("all"); all.Exists() {
			d.Phonetic = wrapPhonetic(all.String())
		} else {
			p.ForEach(func(_, v gjson.Result) bool {
				d.Phonetic = wrapPhonetic(v.String())
				return false
			})
		}
	} else if p.Exists() {
		d.Phonetic = wrapPhonetic(p.String())
	}

	doc.Get("results").ForEach(func(_, r gjson.Result) bool {
		if text := strings.TrimSpace(r.Get("definition").String()); text != "" && len(d.Definitions) < 3 {
			d.Definitions = append(d.Definitions, lookup.Definition{
				PartOfSpeech: r.Get("partOfSpeech").String(),
				Text:         text,
			})
		}
		r.Get("examples").ForEach(func(_, ex gjson.Result) bool {
			if len(d.Examples) < 2 {
				d.Examples = append(d.Examples, ex.String())
			}
			return len(d.Examples) < 2
		})
		return len(d.Definitions) < 3 || len(d.Examples) < 2
	})

	return d, nil
}

func wrapPhonetic(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return ""
	}
	return "/" + s + "/"
}
