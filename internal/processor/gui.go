package processor

import (
	"context"
	"fmt"

	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/gui"
)

// guiService adapts the processor to the desktop window.
type guiService struct {
	p *Processor
}

func (s guiService) Lookup(ctx context.Context, text string) (*gui.Entry, error) {
	outcome, err := s.p.Process(ctx, text)
	if err != nil {
		return nil, err
	}
	return &gui.Entry{
		Input:    outcome.Input,
		Category: outcome.Category,
		View:     outcome.View(),
		Degraded: outcome.Result.Degraded(),
		Card:     outcome.Card,
	}, nil
}

func (s guiService) Import(ctx context.Context, card anki.Card) (string, error) {
	if s.p.flags.NoAnki {
		if err := s.p.Keep(card); err != nil {
			return "", err
		}
		return "已加入本次会话 (未导入 Anki)", nil
	}

	imp, err := s.p.Import(ctx, card)
	if err != nil {
		return "", err
	}
	return imp.String(), nil
}

func (s guiService) Export(format string) (string, error) {
	return s.p.Export(format)
}

func (s guiService) Reconnect(ctx context.Context) (string, error) {
	if s.p.flags.NoAnki {
		return "disabled (--no-anki)", nil
	}
	v, err := s.p.Reconnect(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("connected to %s (AnkiConnect v%d)", s.p.anki.URL(), v), nil
}

func (s guiService) Stats() anki.Stats {
	return s.p.deck.Stats()
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	format := p.flags.ExportFormat
	if format == "" {
		format = "apkg"
	}
	app := gui.New(&gui.Config{Service: guiService{p: p}, ExportFormat: format})
	app.Run()
	return nil
}
