package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "lingocard [text...]" {
		t.Errorf("Expected Use to be 'lingocard [text]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Anki") {
		t.Errorf("Expected Short description to mention Anki")
	}

	flagNames := []string{
		"config", "verbose", "output", "batch", "export", "archive",
		"list-models", "attempts", "no-anki", "anki-url", "deck", "tags",
		"timeout", "dictionaries", "translators", "no-enrich",
		"no-placeholder", "native", "foreign", "openai-model", "gemini-model",
	}

	for _, name := range flagNames {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" || name == "verbose" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	resetViper(t)
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	outputFlag := cmd.Flags().Lookup("output")
	if outputFlag == nil {
		t.Fatal("output flag not found")
	}

	home, _ := os.UserHomeDir()
	expectedDefault := filepath.Join(home, ".local", "state", "lingocard", "cards")
	if outputFlag.DefValue != expectedDefault {
		t.Errorf("Expected default output dir to be %s, got %s", expectedDefault, outputFlag.DefValue)
	}

	timeoutFlag := cmd.Flags().Lookup("timeout")
	if timeoutFlag == nil {
		t.Fatal("timeout flag not found")
	}
	if timeoutFlag.DefValue != "5s" {
		t.Errorf("Expected default timeout to be 5s, got %s", timeoutFlag.DefValue)
	}
}

func TestParseFlags(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	err := cmd.ParseFlags([]string{
		"--no-anki", "--timeout", "2s",
		"--translators", "google,gemini", "--deck", "Reading",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if !flags.NoAnki {
		t.Error("Expected NoAnki to be set")
	}
	if flags.Timeout != 2*time.Second {
		t.Errorf("Expected timeout 2s, got %v", flags.Timeout)
	}
	if strings.Join(flags.Translators, ",") != "google,gemini" {
		t.Errorf("Unexpected translators: %v", flags.Translators)
	}
	if flags.Deck != "Reading" {
		t.Errorf("Expected deck Reading, got %s", flags.Deck)
	}
}

func TestInitConfig(t *testing.T) {
	t.Run("with config file", func(t *testing.T) {
		resetViper(t)

		cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
		content := `anki:
  deck: 英语阅读
  url: http://localhost:9999
lookup:
  timeout: 3s
  translators: [google, mymemory]
  enrich: false
openai:
  key: test-key
`
		if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test config: %v", err)
		}

		InitConfig(cfgPath)

		if got := viper.GetString("anki.deck"); got != "英语阅读" {
			t.Errorf("anki.deck = %q", got)
		}
		if got := viper.GetDuration("lookup.timeout"); got != 3*time.Second {
			t.Errorf("lookup.timeout = %v", got)
		}
		if got := viper.GetStringSlice("lookup.translators"); strings.Join(got, ",") != "google,mymemory" {
			t.Errorf("lookup.translators = %v", got)
		}
		if viper.GetBool("lookup.enrich") {
			t.Error("lookup.enrich should be overridden by the config file")
		}
		if !viper.GetBool("lookup.placeholder") {
			t.Error("lookup.placeholder should default to true")
		}
	})

	t.Run("environment prefix", func(t *testing.T) {
		resetViper(t)
		t.Setenv("LINGOCARD_TEST_VAR", "test-value")

		InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		if viper.GetString("test_var") != "test-value" {
			t.Error("Environment variable not properly loaded")
		}
		if viper.GetString("lookup.native") != "zh" {
			t.Error("Defaults not set")
		}
	})
}

func TestGetKeys(t *testing.T) {
	tests := []struct {
		name      string
		get       func() string
		env       string
		configKey string
	}{
		{"openai", GetOpenAIKey, "OPENAI_API_KEY", "openai.key"},
		{"gemini", GetGeminiKey, "GEMINI_API_KEY", "gemini.key"},
		{"wordnik", GetWordnikKey, "WORDNIK_API_KEY", "wordnik.key"},
		{"wordsapi", GetWordsAPIKey, "WORDSAPI_KEY", "wordsapi.key"},
		{"merriam-webster", GetMerriamWebsterKey, "MW_API_KEY", "merriam_webster.key"},
		{"anki", GetAnkiKey, "ANKICONNECT_KEY", "anki.key"},
		{"mymemory", GetMyMemoryEmail, "MYMEMORY_EMAIL", "mymemory.email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv("GOOGLE_API_KEY", "")
			t.Setenv("RAPIDAPI_KEY", "")

			t.Setenv(tt.env, "")
			if got := tt.get(); got != "" {
				t.Errorf("Expected empty key, got %q", got)
			}

			viper.Set(tt.configKey, "config-value")
			if got := tt.get(); got != "config-value" {
				t.Errorf("Expected config value, got %q", got)
			}

			t.Setenv(tt.env, "env-value")
			if got := tt.get(); got != "env-value" {
				t.Errorf("Expected environment to win, got %q", got)
			}
		})
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	cmd.Flags().Set("output", "/test/output")
	cmd.Flags().Set("deck", "Reading")
	cmd.Flags().Set("openai-model", "gpt-4o")

	if viper.GetString("output.directory") != "/test/output" {
		t.Errorf("Expected output.directory to be /test/output, got %s", viper.GetString("output.directory"))
	}
	if viper.GetString("anki.deck") != "Reading" {
		t.Errorf("Expected anki.deck to be Reading, got %s", viper.GetString("anki.deck"))
	}
	if viper.GetString("openai.model") != "gpt-4o" {
		t.Errorf("Expected openai.model to be gpt-4o, got %s", viper.GetString("openai.model"))
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	NewLogger(&buf, false).Info("hidden")
	NewLogger(&buf, false).Warn("source unavailable", "source", "wordnik")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("Info should be filtered without verbose")
	}
	if !strings.Contains(buf.String(), "source=wordnik") {
		t.Errorf("Warn missing: %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, true).Debug("calling source")
	if !strings.Contains(buf.String(), "calling source") {
		t.Error("Debug should be shown with verbose")
	}
}

func TestApplyConfig(t *testing.T) {
	t.Run("config file values", func(t *testing.T) {
		resetViper(t)
		setDefaults()
		viper.Set("anki.deck", "英语阅读")
		viper.Set("lookup.translators", []string{"google"})
		viper.Set("lookup.timeout", "2s")
		viper.Set("lookup.enrich", false)

		flags := NewFlags()
		ApplyConfig(flags)

		if flags.Deck != "英语阅读" {
			t.Errorf("Deck = %q", flags.Deck)
		}
		if strings.Join(flags.Translators, ",") != "google" {
			t.Errorf("Translators = %v", flags.Translators)
		}
		if flags.Timeout != 2*time.Second {
			t.Errorf("Timeout = %v", flags.Timeout)
		}
		if !flags.NoEnrich {
			t.Error("NoEnrich should follow lookup.enrich")
		}
		if flags.NoPlaceholder {
			t.Error("NoPlaceholder should stay false")
		}
	})

	t.Run("command line wins", func(t *testing.T) {
		resetViper(t)
		flags := NewFlags()
		cmd := CreateRootCommand(flags)
		viper.Set("anki.url", "http://config:8765")

		if err := cmd.ParseFlags([]string{"--deck", "Flag deck"}); err != nil {
			t.Fatalf("ParseFlags failed: %v", err)
		}
		ApplyConfig(flags)

		if flags.Deck != "Flag deck" {
			t.Errorf("Deck = %q, want flag value", flags.Deck)
		}
		if flags.AnkiURL != "http://config:8765" {
			t.Errorf("AnkiURL = %q, want config value", flags.AnkiURL)
		}
	})
}
