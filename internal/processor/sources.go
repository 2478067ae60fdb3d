package processor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/dictionary"
	"codeberg.org/snonux/lingocard/internal/lookup"
	"codeberg.org/snonux/lingocard/internal/translation"
)

func breakerSettings() lookup.BreakerSettings {
	s := lookup.DefaultBreakerSettings()
	if n := viper.GetUint32("lookup.breaker_failures"); n > 0 {
		s.MaxFailures = n
	}
	if d := viper.GetDuration("lookup.breaker_timeout"); d > 0 {
		s.OpenTimeout = d
	}
	if sentinels := viper.GetStringSlice("lookup.sentinels"); len(sentinels) > 0 {
		s.Sentinels = sentinels
	}
	return s
}

// dictionarySources creates the online dictionaries named in flags, in
// order. Sources that need a missing API key are left out.
func dictionarySources(flags *cli.Flags, native language.Tag, log *slog.Logger) ([]lookup.DictionarySource, error) {
	settings := breakerSettings()

	var sources []lookup.DictionarySource
	for _, name := range flags.Dictionaries {
		var src lookup.DictionarySource
		key := ""

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "wordnik":
			key = cli.GetWordnikKey()
			src = dictionary.NewWordnik(key, log)
		case "freedict", "freedictionary":
			key = "-"
			src = dictionary.NewFreeDictionary(log)
		case "wordsapi":
			key = cli.GetWordsAPIKey()
			src = dictionary.NewWordsAPI(key, log)
		case "merriam-webster", "mw":
			key = cli.GetMerriamWebsterKey()
			src = dictionary.NewMerriamWebster(key, log)
		case "openai":
			key = cli.GetOpenAIKey()
			src = dictionary.NewOpenAI(key, flags.OpenAIModel, native)
		default:
			return nil, fmt.Errorf("unknown dictionary source %q", name)
		}

		if key == "" {
			log.Debug("skipping dictionary source without API key", "source", src.Name())
			continue
		}
		sources = append(sources, lookup.GuardDictionary(src, settings))
	}
	return sources, nil
}

// translationSources creates the translators named in flags, in order.
func translationSources(flags *cli.Flags, log *slog.Logger) ([]lookup.TranslationSource, error) {
	settings := breakerSettings()

	var sources []lookup.TranslationSource
	for _, name := range flags.Translators {
		var src lookup.TranslationSource
		key := "-"

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "mymemory":
			src = translation.NewMyMemory(cli.GetMyMemoryEmail(), log)
		case "google":
			src = translation.NewGoogle(log)
		case "openai":
			key = cli.GetOpenAIKey()
			src = translation.NewOpenAI(key, flags.OpenAIModel)
		case "gemini":
			key = cli.GetGeminiKey()
			src = translation.NewGemini(key, flags.GeminiModel)
		default:
			return nil, fmt.Errorf("unknown translation source %q", name)
		}

		if key == "" {
			log.Debug("skipping translation source without API key", "source", src.Name())
			continue
		}
		sources = append(sources, lookup.GuardTranslation(src, settings))
	}
	return sources, nil
}

// resolverConfig builds the resolver configuration from flags and the
// config file.
func resolverConfig(flags *cli.Flags, log *slog.Logger) (*lookup.Config, error) {
	native, err := lookup.ParseLanguage(flags.Native)
	if err != nil {
		return nil, fmt.Errorf("invalid native language %q: %w", flags.Native, err)
	}
	foreign, err := lookup.ParseLanguage(flags.Foreign)
	if err != nil {
		return nil, fmt.Errorf("invalid foreign language %q: %w", flags.Foreign, err)
	}

	dicts, err := dictionarySources(flags, native, log)
	if err != nil {
		return nil, err
	}
	translators, err := translationSources(flags, log)
	if err != nil {
		return nil, err
	}

	cfg := lookup.DefaultConfig()
	cfg.Native = native
	cfg.Foreign = foreign
	cfg.Dictionaries = dicts
	cfg.Translators = translators
	cfg.Timeout = flags.Timeout
	cfg.Enrich = !flags.NoEnrich
	cfg.Placeholder = !flags.NoPlaceholder
	cfg.Logger = log

	// The built-in table is English.
	if base, _ := foreign.Base(); base.String() == "en" {
		cfg.Local = dictionary.NewLocal()
	}
	cfg.Sentinels = breakerSettings().Sentinels
	for text, translated := range viper.GetStringMapString("lookup.phrasebook") {
		cfg.Phrasebook[strings.ToLower(strings.TrimSpace(text))] = translated
	}

	log.Debug("sources configured", "dictionaries", len(dicts), "translators", len(translators))
	return cfg, nil
}
