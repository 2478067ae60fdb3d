package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/batch"
	"codeberg.org/snonux/lingocard/internal/classify"
	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/lookup"
	"codeberg.org/snonux/lingocard/internal/render"
)

// ErrNoCards is returned when exporting an empty session.
var ErrNoCards = errors.New("no cards to export")

// reportedError wraps an error that was already printed to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// Reported reports whether err was already printed to the user.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Processor handles lookups and card imports for one session.
type Processor struct {
	flags    *cli.Flags
	log      *slog.Logger
	resolver *lookup.Resolver
	anki     *anki.Client
	deck     *anki.Deck
	out      io.Writer
	now      func() time.Time

	mu         sync.Mutex
	readyDecks map[string]bool
}

// NewProcessor creates a processor from flags and the loaded config.
func NewProcessor(flags *cli.Flags, logger *slog.Logger) (*Processor, error) {
	cfg, err := resolverConfig(flags, logger)
	if err != nil {
		return nil, err
	}
	client := anki.NewClient(flags.AnkiURL, cli.GetAnkiKey(), logger)
	return newProcessor(flags, lookup.NewResolver(cfg), client, logger, os.Stdout), nil
}

func newProcessor(flags *cli.Flags, resolver *lookup.Resolver, client *anki.Client, logger *slog.Logger, out io.Writer) *Processor {
	return &Processor{
		flags:      flags,
		log:        logger,
		resolver:   resolver,
		anki:       client,
		deck:       anki.NewDeck(),
		out:        out,
		now:        time.Now,
		readyDecks: make(map[string]bool),
	}
}

// Deck returns the cards of this session.
func (p *Processor) Deck() *anki.Deck { return p.deck }

// Outcome is a resolved input and the card built from it.
type Outcome struct {
	Input    string
	Category classify.Category
	Result   *lookup.Result
	Card     anki.Card
}

// View renders the outcome for display.
func (o *Outcome) View() string {
	return render.Result(o.Input, o.Category, o.Result)
}

func (p *Processor) cardOptions() anki.CardOptions {
	return anki.CardOptions{Deck: p.flags.Deck, Tags: p.flags.Tags}
}

// Process classifies and resolves text and builds its card. Nothing is
// imported or added to the session.
func (p *Processor) Process(ctx context.Context, text string) (*Outcome, error) {
	cat := classify.Classify(text)
	res, err := p.resolver.Resolve(ctx, text, cat)
	if err != nil {
		return nil, err
	}

	p.log.Debug("resolved",
		"category", cat.String(),
		"source", res.Source,
		"provenance", string(res.Provenance),
		"attempts", len(res.Attempts))

	card := anki.NewCard(text, cat, res, p.cardOptions())
	card.Created = p.now()
	return &Outcome{Input: card.Input, Category: cat, Result: res, Card: card}, nil
}

// Imported tells where a card went.
type Imported struct {
	NoteID int64
	Model  string
	// File is set instead of NoteID when Anki could not be reached.
	File string
}

func (i *Imported) String() string {
	if i.File != "" {
		return fmt.Sprintf("Anki 不可用，卡片已保存到 %s", i.File)
	}
	return fmt.Sprintf("已添加到 Anki (笔记类型: %s, ID: %d)", i.Model, i.NoteID)
}

// Keep adds a card to the session without importing it.
func (p *Processor) Keep(card anki.Card) error {
	return p.deck.Add(card)
}

// Import adds card to Anki and to the session. Cards already in the
// session are rejected with anki.ErrDuplicate. When Anki is unreachable
// the card is written to the output directory instead.
func (p *Processor) Import(ctx context.Context, card anki.Card) (*Imported, error) {
	if p.deck.Contains(card.Input) {
		return nil, anki.ErrDuplicate
	}

	imp, err := p.push(ctx, card)
	if err != nil {
		return nil, err
	}
	if err := p.deck.Add(card); err != nil {
		return nil, err
	}
	return imp, nil
}

func (p *Processor) push(ctx context.Context, card anki.Card) (*Imported, error) {
	if err := p.ensureDeck(ctx, card.Deck); err != nil {
		if errors.Is(err, anki.ErrUnreachable) {
			return p.saveFile(card, err)
		}
		return nil, fmt.Errorf("failed to prepare deck %q: %w", card.Deck, err)
	}

	id, model, err := p.anki.AddNote(ctx, card.Deck, card.Front, card.Back, card.Tags)
	if errors.Is(err, anki.ErrUnreachable) {
		return p.saveFile(card, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return &Imported{NoteID: id, Model: model}, nil
}

func (p *Processor) saveFile(card anki.Card, cause error) (*Imported, error) {
	p.log.Warn("anki unreachable, writing card file", "input", card.Input, "error", cause)

	path, err := anki.WriteCardFile(p.flags.OutputDir, card, p.now())
	if err != nil {
		return nil, err
	}
	return &Imported{File: path}, nil
}

// ensureDeck creates the deck once per session.
func (p *Processor) ensureDeck(ctx context.Context, deck string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.readyDecks[deck] {
		return nil
	}
	if err := p.anki.EnsureDeck(ctx, deck); err != nil {
		return err
	}
	p.readyDecks[deck] = true
	return nil
}

// Reconnect checks that Anki is reachable and returns the AnkiConnect
// version. Decks are ensured again on the next import.
func (p *Processor) Reconnect(ctx context.Context) (int, error) {
	p.mu.Lock()
	p.readyDecks = make(map[string]bool)
	p.mu.Unlock()

	return p.anki.Version(ctx)
}

// ProcessSingle resolves one text from the command line, prints it and
// imports the card unless --no-anki is set.
func (p *Processor) ProcessSingle(ctx context.Context, text string) error {
	outcome, err := p.Process(ctx, text)
	if err != nil {
		fmt.Fprint(p.out, render.Error(text, err))
		return reportedError{err}
	}

	fmt.Fprint(p.out, outcome.View())
	if p.flags.ShowAttempts {
		fmt.Fprint(p.out, render.Attempts(outcome.Result.Attempts))
	}

	if p.flags.NoAnki {
		return p.Keep(outcome.Card)
	}

	imp, err := p.Import(ctx, outcome.Card)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, imp)
	return nil
}

// Export writes the session cards to the output directory and returns the
// file path.
func (p *Processor) Export(format string) (string, error) {
	f, err := anki.ParseFormat(format)
	if err != nil {
		return "", err
	}

	cards := p.deck.Cards()
	if len(cards) == 0 {
		return "", ErrNoCards
	}

	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(p.flags.OutputDir, anki.ExportFileName(f, p.now()))
	if err := anki.Export(path, f, cards, p.flags.Deck); err != nil {
		return "", fmt.Errorf("failed to export %s: %w", f, err)
	}
	return path, nil
}

// BatchSummary counts what happened to the lines of a batch file.
type BatchSummary struct {
	Total      int
	Processed  int
	Duplicates int
	Degraded   int
	Failed     int
	Imported   int
	Saved      int
	Rejected   int
}

// ProcessBatch resolves every text of the batch file. Failures of single
// lines are reported and counted but do not stop the run. Unless --no-anki
// is set, the new cards are imported in one request at the end.
func (p *Processor) ProcessBatch(ctx context.Context) (*BatchSummary, error) {
	entries, err := batch.ReadFile(p.flags.BatchFile)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{Total: len(entries)}
	var cards []anki.Card

	for i, entry := range entries {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Text)

		if p.deck.Contains(entry.Text) {
			fmt.Fprintf(p.out, "  ✓ Skipping '%s' - already processed (line %d)\n", entry.Text, entry.Line)
			summary.Duplicates++
			continue
		}

		outcome, err := p.Process(ctx, entry.Text)
		if err != nil {
			fmt.Fprintf(p.out, "  line %d: %s", entry.Line, render.Error(entry.Text, err))
			summary.Failed++
			continue
		}

		fmt.Fprint(p.out, outcome.View())
		if p.flags.ShowAttempts {
			fmt.Fprint(p.out, render.Attempts(outcome.Result.Attempts))
		}
		if outcome.Result.Degraded() {
			summary.Degraded++
		}

		if err := p.deck.Add(outcome.Card); err != nil {
			summary.Duplicates++
			continue
		}
		summary.Processed++
		cards = append(cards, outcome.Card)
	}

	if !p.flags.NoAnki && len(cards) > 0 {
		p.importBatch(ctx, cards, summary)
	}

	p.printSummary(summary)
	return summary, nil
}

// importBatch sends cards with one addNotes request when the Basic note
// type is installed; notes it rejects are counted, not retried. Without
// Basic, or when the request fails, every card goes through AddNote with
// its note type fallback.
func (p *Processor) importBatch(ctx context.Context, cards []anki.Card, summary *BatchSummary) {
	deck := cards[0].Deck
	err := p.ensureDeck(ctx, deck)
	if errors.Is(err, anki.ErrUnreachable) {
		p.saveAll(cards, err, summary)
		return
	}
	if err != nil {
		p.log.Warn("failed to prepare deck", "deck", deck, "error", err)
	}

	if models, err := p.anki.ModelNames(ctx); err == nil && slices.Contains(models, anki.ModelBasic) {
		notes := make([]anki.Note, 0, len(cards))
		for _, c := range cards {
			notes = append(notes, anki.Note{
				DeckName:  c.Deck,
				ModelName: anki.ModelBasic,
				Fields:    map[string]string{"Front": c.Front, "Back": c.Back},
				Tags:      c.Tags,
			})
		}

		ids, err := p.anki.AddNotes(ctx, notes)
		switch {
		case errors.Is(err, anki.ErrUnreachable):
			p.saveAll(cards, err, summary)
			return
		case err != nil:
			p.log.Warn("batch import failed, adding notes one by one", "error", err)
		default:
			// A rejected note is a duplicate or empty; it must not be
			// retried under another note type.
			for i, id := range ids {
				if id != 0 {
					summary.Imported++
					continue
				}
				fmt.Fprintf(p.out, "  ✗ '%s' rejected by Anki: duplicate or empty note\n", cards[i].Input)
				summary.Rejected++
			}
			return
		}
	}

	for _, c := range cards {
		imp, err := p.push(ctx, c)
		switch {
		case err != nil:
			fmt.Fprintf(p.out, "  ✗ '%s' rejected by Anki: %v\n", c.Input, err)
			summary.Rejected++
		case imp.File != "":
			summary.Saved++
		default:
			summary.Imported++
		}
	}
}

func (p *Processor) saveAll(cards []anki.Card, cause error, summary *BatchSummary) {
	for _, c := range cards {
		if _, err := p.saveFile(c, cause); err != nil {
			fmt.Fprintf(p.out, "  ✗ failed to save '%s': %v\n", c.Input, err)
			summary.Rejected++
			continue
		}
		summary.Saved++
	}
}

func (p *Processor) printSummary(s *BatchSummary) {
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total texts: %d\n", s.Total)
	fmt.Fprintf(p.out, "Processed: %d\n", s.Processed)
	fmt.Fprintf(p.out, "Skipped (duplicates): %d\n", s.Duplicates)
	if s.Degraded > 0 {
		fmt.Fprintf(p.out, "Fallback results: %d\n", s.Degraded)
	}
	if s.Failed > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", s.Failed)
	}
	if !p.flags.NoAnki {
		fmt.Fprintf(p.out, "Imported into Anki: %d\n", s.Imported)
		if s.Saved > 0 {
			fmt.Fprintf(p.out, "Saved as card files: %d (in %s)\n", s.Saved, p.flags.OutputDir)
		}
		if s.Rejected > 0 {
			fmt.Fprintf(p.out, "Rejected by Anki: %d\n", s.Rejected)
		}
	}
	fmt.Fprintf(p.out, "================================\n")
}
