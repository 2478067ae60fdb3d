package anki

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/lingocard/internal"
)

// Format is an export file format.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatAPKG Format = "apkg"
)

const timestampLayout = "20060102_150405"

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTSV, FormatCSV, FormatJSON, FormatAPKG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use tsv, csv, json or apkg)", s)
	}
}

// Extension returns the file extension of the format.
func (f Format) Extension() string {
	if f == FormatTSV {
		return "txt"
	}
	return string(f)
}

// ExportFileName returns the name of a session export written at now.
func ExportFileName(f Format, now time.Time) string {
	return fmt.Sprintf("lingocard_%s.%s", now.Format(timestampLayout), f.Extension())
}

// tsvField keeps a value on one line and free of field separators.
func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return strings.ReplaceAll(s, "\t", " ")
}

// WriteTSV writes one tab separated line per card: front, back, tags.
func WriteTSV(w io.Writer, cards []Card) error {
	for _, c := range cards {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", tsvField(c.Front), tsvField(c.Back), c.TagString()); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}
	return nil
}

// WriteCSV writes the cards with a Front,Back,Tags header.
func WriteCSV(w io.Writer, cards []Card) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Front", "Back", "Tags"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, c := range cards {
		if err := writer.Write([]string{c.Front, c.Back, c.TagString()}); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type jsonCard struct {
	Input    string    `json:"input"`
	Category string    `json:"category"`
	Type     string    `json:"type"`
	Front    string    `json:"front"`
	Back     string    `json:"back"`
	Tags     []string  `json:"tags"`
	Deck     string    `json:"deck"`
	Source   string    `json:"source,omitempty"`
	Degraded bool      `json:"degraded,omitempty"`
	Created  time.Time `json:"created_time"`
}

type jsonBackup struct {
	ExportTime string     `json:"export_time"`
	TotalCards int        `json:"total_cards"`
	Cards      []jsonCard `json:"cards"`
}

// WriteJSON writes a JSON backup of the cards.
func WriteJSON(w io.Writer, cards []Card, now time.Time) error {
	backup := jsonBackup{
		ExportTime: now.Format("2006-01-02 15:04:05"),
		TotalCards: len(cards),
		Cards:      make([]jsonCard, 0, len(cards)),
	}
	for _, c := range cards {
		backup.Cards = append(backup.Cards, jsonCard{
			Input:    c.Input,
			Category: c.Category.String(),
			Type:     c.Kind.String(),
			Front:    c.Front,
			Back:     c.Back,
			Tags:     c.Tags,
			Deck:     c.Deck,
			Source:   c.Source,
			Degraded: c.Degraded,
			Created:  c.Created,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(backup)
}

// Export writes cards to path in the given format.
func Export(path string, f Format, cards []Card, deckName string) error {
	if f == FormatAPKG {
		return NewAPKGWriter(deckName).Write(path, cards)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	switch f {
	case FormatTSV:
		err = WriteTSV(file, cards)
	case FormatCSV:
		err = WriteCSV(file, cards)
	case FormatJSON:
		err = WriteJSON(file, cards, time.Now())
	default:
		err = fmt.Errorf("unsupported export format %q", f)
	}
	if err != nil {
		return err
	}
	return file.Close()
}

// WriteCardFile writes a single card as an importable TSV file named
// <input>_<timestamp>.txt inside dir and returns its path. It is the
// fallback when Anki cannot be reached.
func WriteCardFile(dir string, c Card, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := internal.SanitizeFilename(c.Input)
	if name == "" {
		name = "card"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, now.Format(timestampLayout)))

	var b strings.Builder
	if err := WriteTSV(&b, []Card{c}); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write card file: %w", err)
	}
	return path, nil
}
