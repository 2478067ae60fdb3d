package anki

import (
	"errors"
	"strings"
	"sync"

	"codeberg.org/snonux/lingocard/internal/lookup"
)

// ErrDuplicate is returned when a card for the same input is already in
// the session.
var ErrDuplicate = errors.New("card already exists")

// Deck collects the cards created during a session. It is safe for
// concurrent use.
type Deck struct {
	mu    sync.Mutex
	cards []Card
	seen  map[string]bool
}

// NewDeck creates an empty deck.
func NewDeck() *Deck {
	return &Deck{seen: make(map[string]bool)}
}

func key(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Contains reports whether a card for input exists, ignoring case.
func (d *Deck) Contains(input string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[key(input)]
}

// Add adds a card unless one for the same input exists.
func (d *Deck) Add(c Card) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := key(c.Input)
	if d.seen[k] {
		return ErrDuplicate
	}
	d.seen[k] = true
	d.cards = append(d.cards, c)
	return nil
}

// Cards returns a copy of all cards in insertion order.
func (d *Deck) Cards() []Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Card(nil), d.cards...)
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

// Stats counts the cards of the deck.
type Stats struct {
	Total       int
	Dictionary  int
	Translation int
	Degraded    int
}

// Stats returns statistics about the card collection
func (d *Deck) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Stats{Total: len(d.cards)}
	for _, c := range d.cards {
		if c.Kind == lookup.KindDictionary {
			s.Dictionary++
		} else {
			s.Translation++
		}
		if c.Degraded {
			s.Degraded++
		}
	}
	return s
}
