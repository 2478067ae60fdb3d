package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"codeberg.org/snonux/lingocard/internal/lookup"
)

const freeDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// apiEntry is a single entry of the FreeDictionary response. The API
// returns one entry per etymology.
type apiEntry struct {
	Word      string        `json:"word"`
	Phonetic  string        `json:"phonetic"`
	Phonetics []apiPhonetic `json:"phonetics"`
	Meanings  []apiMeaning  `json:"meanings"`
}

type apiPhonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
}

type apiDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// FreeDictionary queries dictionaryapi.dev. It needs no key.
type FreeDictionary struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewFreeDictionary creates a source with the public API URL.
func NewFreeDictionary(logger *slog.Logger) *FreeDictionary {
	return NewFreeDictionaryWithURL(freeDictionaryURL, logger)
}

// NewFreeDictionaryWithURL creates a source with a custom base URL (for testing).
func NewFreeDictionaryWithURL(baseURL string, logger *slog.Logger) *FreeDictionary {
	return &FreeDictionary{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
		log:        logger.With("source", "freedict"),
	}
}

func (f *FreeDictionary) Name() string { return "freedict" }

// Lookup fetches the entry for word. Returns nil, nil if the word is unknown.
func (f *FreeDictionary) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	f.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	body, err := get(ctx, f.httpClient, f.baseURL+"/"+url.PathEscape(word), nil)
	if errors.Is(err, lookup.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("freedict: %w", err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	d := mapEntries(word, entries)
	f.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Int("definitions", len(d.Definitions)),
		slog.Int("examples", len(d.Examples)),
	)
	return d, nil
}

// mapEntries keeps the first phonetic, up to three meanings with two
// definitions each, and up to three examples.
func mapEntries(word string, entries []apiEntry) *lookup.Dictionary {
	d := &lookup.Dictionary{Word: word}

	for _, e := range entries {
		if d.Phonetic != "" {
			break
		}
		d.Phonetic = e.Phonetic
		for _, ph := range e.Phonetics {
			if d.Phonetic == "" && ph.Text != "" {
				d.Phonetic = ph.Text
			}
		}
	}

	meanings := 0
	for _, e := range entries {
		for _, m := range e.Meanings {
			if meanings == 3 {
				break
			}
			meanings++
			for i, def := range m.Definitions {
				if i == 2 {
					break
				}
				d.Definitions = append(d.Definitions, lookup.Definition{
					PartOfSpeech: m.PartOfSpeech,
					Text:         def.Definition,
				})
				if def.Example != "" && len(d.Examples) < 3 {
					d.Examples = append(d.Examples, def.Example)
				}
			}
		}
	}

	return d
}
