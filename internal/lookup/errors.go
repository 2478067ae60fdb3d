package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable wraps every failure of a single source. It is
	// absorbed by the chain and recorded in Result.Attempts.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrEmptyInput is returned for blank input before any source is called.
	ErrEmptyInput = errors.New("empty input")
	// ErrAllSourcesExhausted is returned when no source and no fallback
	// produced an answer.
	ErrAllSourcesExhausted = errors.New("all sources exhausted")
	// ErrNotFound is returned by sources that answered but know nothing
	// about the word.
	ErrNotFound = errors.New("not found")
	// ErrMissingKey is returned by keyed sources constructed without a key.
	ErrMissingKey = errors.New("missing API key")

	errIncomplete     = errors.New("response carries no usable content")
	errEmptyResponse  = errors.New("empty response")
	errServiceWarning = errors.New("service warning")
)

// SourceError is a failed call to one source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap exposes both ErrSourceUnavailable and the underlying cause.
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

func unavailable(source string, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Source: source, Err: err}
}

// ExhaustedError is returned when every step of a strategy failed.
type ExhaustedError struct {
	Input    string
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%v for %q after %d attempts", ErrAllSourcesExhausted, e.Input, len(e.Attempts))
}

func (e *ExhaustedError) Unwrap() error {
	return ErrAllSourcesExhausted
}
