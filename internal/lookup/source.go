package lookup

import (
	"context"

	"golang.org/x/text/language"
)

// DictionarySource looks up a single word. A nil entry with a nil error
// means the word is unknown to the source.
type DictionarySource interface {
	Name() string
	Lookup(ctx context.Context, word string) (*Dictionary, error)
}

// TranslationSource translates text between two languages.
type TranslationSource interface {
	Name() string
	Translate(ctx context.Context, text string, from, to language.Tag) (string, error)
}

// Localizer is implemented by dictionary sources that may already answer
// in the native language. Sources without it are treated as English-only.
type Localizer interface {
	Localized() bool
}

func isLocalized(src DictionarySource) bool {
	l, ok := src.(Localizer)
	return ok && l.Localized()
}
