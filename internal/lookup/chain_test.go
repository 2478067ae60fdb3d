package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunChainStopsAtFirstAccepted(t *testing.T) {
	var called []string
	mk := func(name string, v int, err error) step[int] {
		return step[int]{name: name, call: func(ctx context.Context) (int, error) {
			called = append(called, name)
			return v, err
		}}
	}
	steps := []step[int]{
		mk("a", 0, errors.New("boom")),
		mk("b", -1, nil),
		mk("c", 7, nil),
		mk("d", 9, nil),
	}
	positive := func(v int) error {
		if v <= 0 {
			return errIncomplete
		}
		return nil
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := runChain(context.Background(), log, time.Second, steps, positive)

	assert.True(t, res.ok())
	assert.Equal(t, 2, res.winner)
	assert.Equal(t, 7, res.value)
	assert.Equal(t, []string{"a", "b", "c"}, called)
	assert.Len(t, res.attempts, 3)
	assert.ErrorIs(t, res.attempts[1].Err, errIncomplete)
}

func TestRunChainCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	steps := []step[string]{{name: "a", call: func(context.Context) (string, error) {
		calls++
		return "x", nil
	}}}

	res := runChain(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second, steps, func(string) error { return nil })
	assert.False(t, res.ok())
	assert.Zero(t, calls)
}

func TestDictionaryValid(t *testing.T) {
	assert.False(t, (*Dictionary)(nil).Valid())
	assert.False(t, (&Dictionary{Word: "x"}).Valid())
	assert.False(t, (&Dictionary{Definitions: []Definition{{PartOfSpeech: "n."}}}).Valid())
	assert.True(t, (&Dictionary{Gloss: "书"}).Valid())
	assert.True(t, (&Dictionary{Examples: []string{"e"}}).Valid())
}

func TestPhrasebookLookup(t *testing.T) {
	p := DefaultPhrasebook()
	out, ok := p.Lookup("  Good Morning ")
	assert.True(t, ok)
	assert.Equal(t, "早上好", out)

	_, ok = p.Lookup("good evening")
	assert.False(t, ok)
}
