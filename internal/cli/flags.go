package cli

import (
	"time"

	"codeberg.org/snonux/lingocard/internal/anki"
)

// Source names accepted by --dictionaries and --translators, in their
// default order.
var (
	DefaultDictionaries = []string{"wordnik", "freedict", "wordsapi", "merriam-webster", "openai"}
	DefaultTranslators  = []string{"mymemory", "google", "openai", "gemini"}
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	OutputDir    string
	BatchFile    string
	ExportFormat string
	Archive      bool
	ListModels   bool
	ShowAttempts bool
	Verbose      bool
	GUIMode      bool

	// Anki flags
	NoAnki  bool
	AnkiURL string
	Deck    string
	Tags    []string

	// Lookup flags
	Timeout       time.Duration
	Dictionaries  []string
	Translators   []string
	NoEnrich      bool
	NoPlaceholder bool
	Native        string
	Foreign       string

	// Model flags
	OpenAIModel string
	GeminiModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		AnkiURL:      anki.DefaultURL,
		Deck:         anki.DefaultDeck,
		Tags:         append([]string(nil), anki.DefaultTags...),
		Timeout:      5 * time.Second,
		Dictionaries: append([]string(nil), DefaultDictionaries...),
		Translators:  append([]string(nil), DefaultTranslators...),
		Native:       "zh",
		Foreign:      "en",
		OpenAIModel:  "gpt-4o-mini",
		GeminiModel:  "gemini-2.5-flash",
	}
}
