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

const merriamWebsterURL = "https://www.dictionaryapi.com/api/v3/references/collegiate/json"

// MerriamWebster queries the Merriam-Webster Collegiate dictionary.
type MerriamWebster struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewMerriamWebster creates a Merriam-Webster source.
func NewMerriamWebster(apiKey string, logger *slog.Logger) *MerriamWebster {
	return NewMerriamWebsterWithURL(merriamWebsterURL, apiKey, logger)
}

// NewMerriamWebsterWithURL creates a source with a custom base URL (for testing).
func NewMerriamWebsterWithURL(baseURL, apiKey string, logger *slog.Logger) *MerriamWebster {
	return &MerriamWebster{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(),
		log:        logger.With("source", "merriam-webster"),
	}
}

func (m *MerriamWebster) Name() string { return "merriam-webster" }

// Lookup fetches the entry for word. When the word is unknown the API
// answers with a list of spelling suggestions, which is reported as not
// found.
func (m *MerriamWebster) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	if m.apiKey == "" {
		return nil, lookup.ErrMissingKey
	}

	rawURL := fmt.Sprintf("%s/%s?key=%s", m.baseURL, url.PathEscape(word), url.QueryEscape(m.apiKey))
	body, err := get(ctx, m.httpClient, rawURL, nil)
	if errors.Is(err, lookup.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("merriam-webster: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("merriam-webster: malformed json")
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsArray() || len(doc.Array()) == 0 || doc.Get("0").Type == gjson.String {
		m.log.DebugContext(ctx, "merriam-webster has suggestions only", "word", word)
		return nil, nil
	}

	d := &lookup.Dictionary{Word: word}
	for _, entry := range doc.Array() {
		if d.Phonetic == "" {
			d.Phonetic = wrapPhonetic(entry.Get("hwi.prs.0.mw").String())
		}
		pos := entry.Get("fl").String()
		for _, sd := range entry.Get("shortdef").Array() {
			if len(d.Definitions) == 3 {
				break
			}
			if text := strings.TrimSpace(sd.String()); text != "" {
				d.Definitions = append(d.Definitions, lookup.Definition{PartOfSpeech: pos, Text: text})
			}
		}
		if len(d.Definitions) == 3 {
			break
		}
	}
	return d, nil
}
