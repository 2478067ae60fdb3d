package lookup

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Definition is one sense of a dictionary entry.
type Definition struct {
	PartOfSpeech string `json:"pos"`
	Text         string `json:"text"`
}

// Dictionary is a dictionary entry for a single word.
type Dictionary struct {
	Word        string       `json:"word"`
	Phonetic    string       `json:"phonetic,omitempty"`
	Gloss       string       `json:"gloss,omitempty"`
	Definitions []Definition `json:"definitions,omitempty"`
	Examples    []string     `json:"examples,omitempty"`
}

// Valid reports whether the entry carries anything worth showing.
func (d *Dictionary) Valid() bool {
	if d == nil {
		return false
	}
	if strings.TrimSpace(d.Phonetic) != "" || strings.TrimSpace(d.Gloss) != "" {
		return true
	}
	for _, def := range d.Definitions {
		if strings.TrimSpace(def.Text) != "" {
			return true
		}
	}
	for _, ex := range d.Examples {
		if strings.TrimSpace(ex) != "" {
			return true
		}
	}
	return false
}

// Translation is a translated piece of text.
type Translation struct {
	Original   string       `json:"original"`
	Translated string       `json:"translated"`
	Source     language.Tag `json:"source"`
	Target     language.Tag `json:"target"`
}

// Kind tells which payload of a Result is set.
type Kind int

const (
	KindDictionary Kind = iota
	KindTranslation
)

func (k Kind) String() string {
	if k == KindDictionary {
		return "dictionary"
	}
	return "translation"
}

// Provenance records where the answer came from.
type Provenance string

const (
	ProvenanceLocal       Provenance = "local"
	ProvenanceOnline      Provenance = "online"
	ProvenanceFallback    Provenance = "fallback"
	ProvenancePhrasebook  Provenance = "phrasebook"
	ProvenancePlaceholder Provenance = "placeholder"
)

// Attempt is one call to an external source.
type Attempt struct {
	Source  string
	Err     error
	Elapsed time.Duration
}

// OK reports whether the call produced the accepted answer.
func (a Attempt) OK() bool { return a.Err == nil }

// Result is a successful resolution. Dictionary is set for KindDictionary
// and Translation for KindTranslation; a fallback dictionary entry carries
// both.
type Result struct {
	Kind        Kind
	Dictionary  *Dictionary
	Translation *Translation
	Source      string
	Provenance  Provenance
	Attempts    []Attempt
}

// Degraded reports whether the result came from a last-resort path rather
// than a real dictionary or translation source.
func (r *Result) Degraded() bool {
	switch r.Provenance {
	case ProvenanceFallback, ProvenancePhrasebook, ProvenancePlaceholder:
		return true
	default:
		return false
	}
}

// Text returns the main answer as plain text: the translation, or the
// first definition of a dictionary entry.
func (r *Result) Text() string {
	if r.Translation != nil {
		return r.Translation.Translated
	}
	if r.Dictionary == nil {
		return ""
	}
	if r.Dictionary.Gloss != "" {
		return r.Dictionary.Gloss
	}
	if len(r.Dictionary.Definitions) > 0 {
		return r.Dictionary.Definitions[0].Text
	}
	return r.Dictionary.Phonetic
}
