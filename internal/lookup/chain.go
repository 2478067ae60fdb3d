package lookup

import (
	"context"
	"log/slog"
	"time"
)

// step is one candidate of a fallback chain.
type step[T any] struct {
	name string
	call func(ctx context.Context) (T, error)
}

// chainResult is the outcome of runChain. winner is -1 when no step
// produced an accepted value.
type chainResult[T any] struct {
	value    T
	winner   int
	attempts []Attempt
}

func (c chainResult[T]) ok() bool { return c.winner >= 0 }

// runChain calls steps in order and stops at the first value accepted by
// check. Every call runs under its own timeout; failures are logged and
// recorded but never returned.
func runChain[T any](ctx context.Context, log *slog.Logger, timeout time.Duration, steps []step[T], check func(T) error) chainResult[T] {
	res := chainResult[T]{winner: -1, attempts: make([]Attempt, 0, len(steps))}

	for i, s := range steps {
		if ctx.Err() != nil {
			log.Debug("lookup cancelled", "remaining", len(steps)-i, "error", ctx.Err())
			break
		}

		start := time.Now()
		v, err := callWithTimeout(ctx, timeout, s.call)
		if err == nil {
			err = check(v)
		}
		a := Attempt{Source: s.name, Elapsed: time.Since(start)}

		if err != nil {
			a.Err = unavailable(s.name, err)
			res.attempts = append(res.attempts, a)
			log.Warn("source unavailable", "source", s.name, "error", err, "elapsed", a.Elapsed)
			continue
		}

		log.Debug("source answered", "source", s.name, "elapsed", a.Elapsed)
		res.attempts = append(res.attempts, a)
		res.value = v
		res.winner = i
		return res
	}

	return res
}

func callWithTimeout[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx)
}
