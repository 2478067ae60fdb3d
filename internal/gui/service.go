package gui

import (
	"context"

	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/classify"
)

// Entry is a looked up text as the window shows it.
type Entry struct {
	Input    string
	Category classify.Category
	View     string
	Degraded bool
	Card     anki.Card
}

// Service is what the window needs from the application.
type Service interface {
	// Lookup resolves text without importing it.
	Lookup(ctx context.Context, text string) (*Entry, error)
	// Import adds a card to Anki and the session and describes where it
	// went.
	Import(ctx context.Context, card anki.Card) (string, error)
	// Export writes the session cards and returns the file path.
	Export(format string) (string, error)
	// Reconnect checks the AnkiConnect endpoint and describes its state.
	Reconnect(ctx context.Context) (string, error)
	Stats() anki.Stats
}
