package anki

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/lingocard/internal/classify"
	"codeberg.org/snonux/lingocard/internal/lookup"
)

// Defaults for cards pushed to Anki.
const (
	DefaultDeck    = "阅读中的收获"
	TagWord        = "单词"
	TagSentence    = "句子"
	DegradedNotice = "⚠ 在线服务不可用，此结果为备用结果，仅供参考"
)

// DefaultTags are put on every card.
var DefaultTags = []string{"智能翻译", "阅读"}

// Card is a flashcard built from a resolved input.
type Card struct {
	Input    string
	Category classify.Category
	Kind     lookup.Kind
	Front    string
	Back     string
	Tags     []string
	Deck     string
	Source   string
	Degraded bool
	Created  time.Time
}

// CardOptions configures card creation.
type CardOptions struct {
	Deck string
	Tags []string
}

// DefaultCardOptions returns the default deck and tags.
func DefaultCardOptions() CardOptions {
	return CardOptions{Deck: DefaultDeck, Tags: DefaultTags}
}

// NewCard formats res as a flashcard.
func NewCard(input string, cat classify.Category, res *lookup.Result, opts CardOptions) Card {
	if opts.Deck == "" {
		opts.Deck = DefaultDeck
	}

	c := Card{
		Input:    strings.TrimSpace(input),
		Category: cat,
		Kind:     res.Kind,
		Deck:     opts.Deck,
		Source:   res.Source,
		Degraded: res.Degraded(),
		Created:  time.Now(),
	}

	c.Tags = append([]string(nil), opts.Tags...)
	if res.Kind == lookup.KindDictionary {
		c.Tags = append(c.Tags, TagWord)
	} else {
		c.Tags = append(c.Tags, TagSentence)
	}

	if res.Kind == lookup.KindDictionary && res.Provenance != lookup.ProvenanceFallback && res.Provenance != lookup.ProvenancePlaceholder {
		c.Front, c.Back = formatDictionary(res.Dictionary)
	} else {
		c.Front, c.Back = formatTranslation(c.Input, res.Translation)
	}

	if c.Degraded {
		c.Back += "<br><br><small>" + DegradedNotice + "</small>"
	}
	return c
}

func formatDictionary(d *lookup.Dictionary) (front, back string) {
	front = d.Word
	if d.Phonetic != "" {
		front += " " + d.Phonetic
	}

	var parts []string
	if len(d.Definitions) > 0 {
		defs := make([]string, 0, len(d.Definitions))
		for _, def := range d.Definitions {
			if def.PartOfSpeech != "" {
				defs = append(defs, fmt.Sprintf("(%s) %s", def.PartOfSpeech, def.Text))
			} else {
				defs = append(defs, def.Text)
			}
		}
		parts = append(parts, "<b>释义:</b><br>"+strings.Join(defs, "<br>"))
	}
	if len(d.Examples) > 0 {
		parts = append(parts, "<b>例句:</b><br>"+strings.Join(d.Examples, "<br>"))
	}
	return front, strings.Join(parts, "<br><br>")
}

func formatTranslation(input string, t *lookup.Translation) (front, back string) {
	if t == nil {
		return input, ""
	}
	front = t.Original
	if front == "" {
		front = input
	}
	back = "<b>翻译:</b> " + t.Translated
	back += fmt.Sprintf("<br><br><small>(%s → %s)</small>", lookup.LanguageLabel(t.Source), lookup.LanguageLabel(t.Target))
	return front, back
}

// TagString returns the tags separated by spaces, as Anki imports them.
func (c Card) TagString() string {
	return strings.Join(c.Tags, " ")
}
