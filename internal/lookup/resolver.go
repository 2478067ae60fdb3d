package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/snonux/lingocard/internal/classify"
	"golang.org/x/text/language"
)

// PlaceholderFormat is the last-resort translation of text that no source
// and no phrasebook entry could translate.
const PlaceholderFormat = "[翻译服务暂时不可用，原文: %s]"

// Source names of the non-network steps.
const (
	SourcePhrasebook  = "phrasebook"
	SourcePlaceholder = "placeholder"
)

// DefaultSentinels returns the warning prefixes known from the bundled
// translation services.
func DefaultSentinels() []string {
	return []string{"MYMEMORY WARNING"}
}

// Config holds the resolver configuration.
type Config struct {
	// Local is consulted before any online dictionary. It may be nil.
	Local        DictionarySource
	Dictionaries []DictionarySource
	Translators  []TranslationSource

	Native  language.Tag
	Foreign language.Tag

	// Timeout bounds every single source call.
	Timeout time.Duration
	// Enrich translates definitions and examples of English-only entries.
	Enrich bool
	// Placeholder enables the last-resort placeholder translation.
	Placeholder bool
	// Sentinels are prefixes that mark a translation response as a service
	// warning rather than a translation.
	Sentinels  []string
	Phrasebook Phrasebook

	Logger *slog.Logger
}

// DefaultConfig returns a configuration without sources.
func DefaultConfig() *Config {
	return &Config{
		Native:      language.Chinese,
		Foreign:     language.English,
		Timeout:     5 * time.Second,
		Enrich:      true,
		Placeholder: true,
		Sentinels:   DefaultSentinels(),
		Phrasebook:  DefaultPhrasebook(),
	}
}

// Resolver turns classified text into a Result. It holds no mutable state
// of its own and is safe for concurrent use when its sources are.
type Resolver struct {
	cfg Config
	log *slog.Logger
}

// NewResolver creates a resolver. A nil config means DefaultConfig.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Phrasebook == nil {
		c.Phrasebook = Phrasebook{}
	}
	return &Resolver{cfg: c, log: c.Logger}
}

// Native returns the native language.
func (r *Resolver) Native() language.Tag { return r.cfg.Native }

// Foreign returns the foreign language.
func (r *Resolver) Foreign() language.Tag { return r.cfg.Foreign }

// Resolve resolves text according to its category.
func (r *Resolver) Resolve(ctx context.Context, text string, cat classify.Category) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	switch cat.Route() {
	case classify.RouteDictionary:
		return r.LookupWord(ctx, text)
	case classify.RouteTranslateToNative:
		return r.Translate(ctx, text, r.cfg.Foreign, r.cfg.Native)
	case classify.RouteTranslateToForeign:
		return r.Translate(ctx, text, r.cfg.Native, r.cfg.Foreign)
	default:
		return nil, ErrEmptyInput
	}
}

// LookupWord resolves a single foreign word: the local table first, then
// the online dictionaries in order, and finally a translation of the word
// wrapped as a degraded dictionary entry.
func (r *Resolver) LookupWord(ctx context.Context, word string) (*Result, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyInput
	}

	if res := r.lookupLocal(ctx, word); res != nil {
		return res, nil
	}

	steps := make([]step[*Dictionary], 0, len(r.cfg.Dictionaries))
	for _, src := range r.cfg.Dictionaries {
		src := src
		steps = append(steps, step[*Dictionary]{
			name: src.Name(),
			call: func(ctx context.Context) (*Dictionary, error) {
				return src.Lookup(ctx, word)
			},
		})
	}

	chain := runChain(ctx, r.log, r.cfg.Timeout, steps, checkDictionary)
	if chain.ok() {
		src := r.cfg.Dictionaries[chain.winner]
		entry := chain.value
		if entry.Word == "" {
			entry.Word = word
		}
		if r.cfg.Enrich && !isLocalized(src) {
			r.enrich(ctx, entry)
		}
		return &Result{
			Kind:       KindDictionary,
			Dictionary: entry,
			Source:     src.Name(),
			Provenance: ProvenanceOnline,
			Attempts:   chain.attempts,
		}, nil
	}

	r.log.Info("dictionary sources exhausted, falling back to translation", "word", word, "attempts", len(chain.attempts))

	tr, err := r.Translate(ctx, word, r.cfg.Foreign, r.cfg.Native)
	if err != nil {
		attempts := chain.attempts
		var exhausted *ExhaustedError
		if errors.As(err, &exhausted) {
			attempts = append(attempts, exhausted.Attempts...)
		}
		return nil, &ExhaustedError{Input: word, Attempts: attempts}
	}

	provenance := ProvenanceFallback
	if tr.Provenance == ProvenancePlaceholder {
		provenance = ProvenancePlaceholder
	}
	return &Result{
		Kind:        KindDictionary,
		Dictionary:  &Dictionary{Word: word, Gloss: tr.Translation.Translated},
		Translation: tr.Translation,
		Source:      tr.Source,
		Provenance:  provenance,
		Attempts:    append(chain.attempts, tr.Attempts...),
	}, nil
}

func (r *Resolver) lookupLocal(ctx context.Context, word string) *Result {
	if r.cfg.Local == nil {
		return nil
	}
	entry, err := r.cfg.Local.Lookup(ctx, word)
	if err != nil || !entry.Valid() {
		return nil
	}
	return &Result{
		Kind:       KindDictionary,
		Dictionary: entry,
		Source:     r.cfg.Local.Name(),
		Provenance: ProvenanceLocal,
	}
}

// Translate translates text with the online sources, then the phrasebook,
// then the placeholder.
func (r *Resolver) Translate(ctx context.Context, text string, from, to language.Tag) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	tr := &Translation{Original: text, Source: from, Target: to}

	chain := r.translateOnline(ctx, text, from, to)
	if chain.ok() {
		tr.Translated = strings.TrimSpace(chain.value)
		return &Result{
			Kind:        KindTranslation,
			Translation: tr,
			Source:      r.cfg.Translators[chain.winner].Name(),
			Provenance:  ProvenanceOnline,
			Attempts:    chain.attempts,
		}, nil
	}

	if phrase, ok := r.cfg.Phrasebook.Lookup(text); ok {
		r.log.Info("translation sources exhausted, using phrasebook", "text", text)
		tr.Translated = phrase
		return &Result{
			Kind:        KindTranslation,
			Translation: tr,
			Source:      SourcePhrasebook,
			Provenance:  ProvenancePhrasebook,
			Attempts:    chain.attempts,
		}, nil
	}

	if !r.cfg.Placeholder {
		return nil, &ExhaustedError{Input: text, Attempts: chain.attempts}
	}

	r.log.Info("translation sources exhausted, using placeholder", "text", text)
	tr.Translated = fmt.Sprintf(PlaceholderFormat, text)
	return &Result{
		Kind:        KindTranslation,
		Translation: tr,
		Source:      SourcePlaceholder,
		Provenance:  ProvenancePlaceholder,
		Attempts:    chain.attempts,
	}, nil
}

func (r *Resolver) translateOnline(ctx context.Context, text string, from, to language.Tag) chainResult[string] {
	steps := make([]step[string], 0, len(r.cfg.Translators))
	for _, src := range r.cfg.Translators {
		src := src
		steps = append(steps, step[string]{
			name: src.Name(),
			call: func(ctx context.Context) (string, error) {
				return src.Translate(ctx, text, from, to)
			},
		})
	}
	return runChain(ctx, r.log, r.cfg.Timeout, steps, r.checkTranslation)
}

func checkDictionary(d *Dictionary) error {
	if d == nil {
		return ErrNotFound
	}
	if !d.Valid() {
		return errIncomplete
	}
	return nil
}

func (r *Resolver) checkTranslation(out string) error {
	out = strings.TrimSpace(out)
	if out == "" {
		return errEmptyResponse
	}
	return checkSentinels(out, r.cfg.Sentinels)
}

func checkSentinels(out string, sentinels []string) error {
	out = strings.TrimSpace(out)
	upper := strings.ToUpper(out)
	for _, s := range sentinels {
		if s != "" && strings.HasPrefix(upper, strings.ToUpper(s)) {
			return fmt.Errorf("%w: %s", errServiceWarning, truncate(out, 80))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
