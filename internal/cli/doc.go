// Package cli provides command-line interface setup and configuration
// for lingocard. It handles flag parsing, command creation, API key
// lookup and logger construction using cobra, viper and slog.
package cli
