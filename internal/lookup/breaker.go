package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/text/language"
)

// BreakerSettings configures the circuit breaker put in front of an
// online source.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the
	// breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before it lets a
	// probe request through.
	OpenTimeout time.Duration
	// Sentinels are prefixes of translation answers that count as
	// failures, like a quota warning sent with a 200 status.
	Sentinels []string
}

// DefaultBreakerSettings returns the settings used when none are configured.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxFailures: 3,
		OpenTimeout: 60 * time.Second,
		Sentinels:   DefaultSentinels(),
	}
}

func newBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: healthy,
	})
}

// healthy reports errors that say nothing about the health of a source:
// an unknown word or a caller that gave up.
func healthy(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
}

type guardedDictionary struct {
	DictionarySource
	cb *gobreaker.CircuitBreaker
}

// GuardDictionary puts a circuit breaker in front of src. While the
// breaker is open, Lookup fails fast with gobreaker.ErrOpenState.
func GuardDictionary(src DictionarySource, s BreakerSettings) DictionarySource {
	return &guardedDictionary{DictionarySource: src, cb: newBreaker(src.Name(), s)}
}

func (g *guardedDictionary) Lookup(ctx context.Context, word string) (*Dictionary, error) {
	v, err := g.cb.Execute(func() (interface{}, error) {
		return g.DictionarySource.Lookup(ctx, word)
	})
	if err != nil {
		return nil, err
	}
	d, _ := v.(*Dictionary)
	return d, nil
}

func (g *guardedDictionary) Localized() bool {
	return isLocalized(g.DictionarySource)
}

type guardedTranslation struct {
	TranslationSource
	cb        *gobreaker.CircuitBreaker
	sentinels []string
}

// GuardTranslation puts a circuit breaker in front of src. Answers
// starting with one of the settings' sentinels fail and count against the
// breaker.
func GuardTranslation(src TranslationSource, s BreakerSettings) TranslationSource {
	return &guardedTranslation{
		TranslationSource: src,
		cb:                newBreaker(src.Name(), s),
		sentinels:         s.Sentinels,
	}
}

func (g *guardedTranslation) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	v, err := g.cb.Execute(func() (interface{}, error) {
		out, err := g.TranslationSource.Translate(ctx, text, from, to)
		if err != nil {
			return "", err
		}
		if err := checkSentinels(out, g.sentinels); err != nil {
			return "", err
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}
	out, _ := v.(string)
	return out, nil
}
