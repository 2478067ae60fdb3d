package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lingocard/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lingocard [text...]",
		Short: "English/Chinese reading assistant that turns lookups into Anki cards",
		Long: `lingocard looks up English words and translates English or Chinese
text, then turns the result into an Anki flashcard via AnkiConnect.

Single English words go through dictionary sources; phrases, sentences
and Chinese text go through translation sources. Every source has a
fallback, so a result is produced even when most services are down.

Examples:
  lingocard                          # Launch the desktop window (default)
  lingocard serendipity              # Look up a word and add it to Anki
  lingocard "How are you?" --no-anki # Translate without importing
  lingocard --batch reading.txt      # Process one text per line
  lingocard --batch words.txt --export apkg`,
		Args:    cobra.ArbitraryArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultOutputDir is where card files and exports are written.
func DefaultOutputDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "lingocard", "cards")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.lingocard.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log every source call at debug level")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", DefaultOutputDir(), "Output directory for card files and exports")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process texts from file (one per line, # starts a comment)")
	cmd.Flags().StringVar(&flags.ExportFormat, "export", "", "Export the session cards: tsv, csv, json or apkg")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the output directory to the archive and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI chat models usable for lookups")
	cmd.Flags().BoolVar(&flags.ShowAttempts, "attempts", false, "Print every source call of a lookup")

	// Anki flags
	cmd.Flags().BoolVar(&flags.NoAnki, "no-anki", false, "Do not import cards into Anki")
	cmd.Flags().StringVar(&flags.AnkiURL, "anki-url", flags.AnkiURL, "AnkiConnect endpoint")
	cmd.Flags().StringVar(&flags.Deck, "deck", flags.Deck, "Anki deck for new cards")
	cmd.Flags().StringSliceVar(&flags.Tags, "tags", flags.Tags, "Tags put on every card")

	// Lookup flags
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout of a single source call")
	cmd.Flags().StringSliceVar(&flags.Dictionaries, "dictionaries", flags.Dictionaries, "Dictionary sources in the order they are tried")
	cmd.Flags().StringSliceVar(&flags.Translators, "translators", flags.Translators, "Translation sources in the order they are tried")
	cmd.Flags().BoolVar(&flags.NoEnrich, "no-enrich", false, "Keep English definitions untranslated")
	cmd.Flags().BoolVar(&flags.NoPlaceholder, "no-placeholder", false, "Fail instead of returning a placeholder translation")
	cmd.Flags().StringVar(&flags.Native, "native", flags.Native, "Native language of the reader")
	cmd.Flags().StringVar(&flags.Foreign, "foreign", flags.Foreign, "Language being read")

	// Model flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for dictionary and translation lookups")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for translation lookups")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("anki.url", cmd.Flags().Lookup("anki-url"))
	viper.BindPFlag("anki.deck", cmd.Flags().Lookup("deck"))
	viper.BindPFlag("anki.tags", cmd.Flags().Lookup("tags"))
	viper.BindPFlag("lookup.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("lookup.dictionaries", cmd.Flags().Lookup("dictionaries"))
	viper.BindPFlag("lookup.translators", cmd.Flags().Lookup("translators"))
	viper.BindPFlag("lookup.native", cmd.Flags().Lookup("native"))
	viper.BindPFlag("lookup.foreign", cmd.Flags().Lookup("foreign"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("gemini.model", cmd.Flags().Lookup("gemini-model"))
}

func setDefaults() {
	viper.SetDefault("lookup.enrich", true)
	viper.SetDefault("lookup.placeholder", true)
	viper.SetDefault("lookup.native", "zh")
	viper.SetDefault("lookup.foreign", "en")
	viper.SetDefault("lookup.breaker_failures", 3)
	viper.SetDefault("lookup.breaker_timeout", "60s")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".lingocard" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lingocard")
	}

	// Environment variables
	viper.SetEnvPrefix("LINGOCARD")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies configured values into flags. Flags given on the
// command line win over the config file because they are bound to the
// same viper keys.
func ApplyConfig(flags *Flags) {
	setString := func(dst *string, key string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	setSlice := func(dst *[]string, key string) {
		if v := viper.GetStringSlice(key); len(v) > 0 {
			*dst = v
		}
	}

	setString(&flags.OutputDir, "output.directory")
	setString(&flags.AnkiURL, "anki.url")
	setString(&flags.Deck, "anki.deck")
	setSlice(&flags.Tags, "anki.tags")
	setSlice(&flags.Dictionaries, "lookup.dictionaries")
	setSlice(&flags.Translators, "lookup.translators")
	setString(&flags.Native, "lookup.native")
	setString(&flags.Foreign, "lookup.foreign")
	setString(&flags.OpenAIModel, "openai.model")
	setString(&flags.GeminiModel, "gemini.model")

	if d := viper.GetDuration("lookup.timeout"); d > 0 {
		flags.Timeout = d
	}
	if viper.IsSet("lookup.enrich") && !viper.GetBool("lookup.enrich") {
		flags.NoEnrich = true
	}
	if viper.IsSet("lookup.placeholder") && !viper.GetBool("lookup.placeholder") {
		flags.NoPlaceholder = true
	}
}

// keyFrom returns the first non-empty environment variable, then the
// config value.
func keyFrom(configKey string, envVars ...string) string {
	for _, env := range envVars {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString(configKey)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string { return keyFrom("openai.key", "OPENAI_API_KEY") }

// GetGeminiKey retrieves the Gemini API key from environment or config.
func GetGeminiKey() string { return keyFrom("gemini.key", "GEMINI_API_KEY", "GOOGLE_API_KEY") }

// GetWordnikKey retrieves the Wordnik API key from environment or config.
func GetWordnikKey() string { return keyFrom("wordnik.key", "WORDNIK_API_KEY") }

// GetWordsAPIKey retrieves the RapidAPI key of WordsAPI from environment
// or config.
func GetWordsAPIKey() string { return keyFrom("wordsapi.key", "WORDSAPI_KEY", "RAPIDAPI_KEY") }

// GetMerriamWebsterKey retrieves the Merriam-Webster API key from
// environment or config.
func GetMerriamWebsterKey() string { return keyFrom("merriam_webster.key", "MW_API_KEY") }

// GetAnkiKey retrieves the AnkiConnect API key, if one is configured.
func GetAnkiKey() string { return keyFrom("anki.key", "ANKICONNECT_KEY") }

// GetMyMemoryEmail retrieves the contact address that raises the MyMemory
// daily quota.
func GetMyMemoryEmail() string { return keyFrom("mymemory.email", "MYMEMORY_EMAIL") }

// NewLogger creates the text logger used for diagnostics. Verbose
// switches from warnings to debug output.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
