// Package render formats lookup results as plain text for the terminal and
// the desktop window.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/classify"
	"codeberg.org/snonux/lingocard/internal/lookup"
)

// Result formats res for display. Degraded results end with the same
// caveat the flashcard carries.
func Result(input string, cat classify.Category, res *lookup.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", cat.Label(), strings.TrimSpace(input))

	if res.Kind == lookup.KindDictionary && res.Dictionary != nil && res.Translation == nil {
		writeDictionary(&b, res.Dictionary)
	} else if res.Translation != nil {
		t := res.Translation
		fmt.Fprintf(&b, "翻译: %s\n", t.Translated)
		fmt.Fprintf(&b, "(%s → %s)\n", lookup.LanguageLabel(t.Source), lookup.LanguageLabel(t.Target))
	}

	fmt.Fprintf(&b, "来源: %s (%s)\n", res.Source, res.Provenance)
	if res.Degraded() {
		b.WriteString(anki.DegradedNotice + "\n")
	}
	return b.String()
}

func writeDictionary(b *strings.Builder, d *lookup.Dictionary) {
	if d.Phonetic != "" {
		fmt.Fprintf(b, "音标: %s\n", d.Phonetic)
	}
	if d.Gloss != "" {
		fmt.Fprintf(b, "释义: %s\n", d.Gloss)
	}
	if len(d.Definitions) > 0 {
		b.WriteString("释义:\n")
		for i, def := range d.Definitions {
			if def.PartOfSpeech != "" {
				fmt.Fprintf(b, "  %d. (%s) %s\n", i+1, def.PartOfSpeech, def.Text)
			} else {
				fmt.Fprintf(b, "  %d. %s\n", i+1, def.Text)
			}
		}
	}
	if len(d.Examples) > 0 {
		b.WriteString("例句:\n")
		for _, ex := range d.Examples {
			fmt.Fprintf(b, "  - %s\n", ex)
		}
	}
}

// Attempts lists the external calls of a lookup, one per line.
func Attempts(attempts []lookup.Attempt) string {
	var b strings.Builder
	for _, a := range attempts {
		if a.OK() {
			fmt.Fprintf(&b, "  ✓ %s (%s)\n", a.Source, a.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Fprintf(&b, "  ✗ %s: %v\n", a.Source, a.Err)
		}
	}
	return b.String()
}

// Error formats a failed lookup. Exhausted lookups include every attempt.
func Error(input string, err error) string {
	switch {
	case errors.Is(err, lookup.ErrEmptyInput):
		return "请输入要查询的内容\n"
	case errors.Is(err, lookup.ErrAllSourcesExhausted):
		var b strings.Builder
		fmt.Fprintf(&b, "所有服务均不可用: %s\n", strings.TrimSpace(input))
		var exhausted *lookup.ExhaustedError
		if errors.As(err, &exhausted) {
			b.WriteString(Attempts(exhausted.Attempts))
		}
		return b.String()
	default:
		return fmt.Sprintf("查询失败: %v\n", err)
	}
}
