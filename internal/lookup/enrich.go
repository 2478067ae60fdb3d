package lookup

import (
	"context"
	"strings"
)

// enrich translates the definitions and examples of an English-only entry
// into the native language. Items that cannot be translated keep their
// original text; enrichment never fails the lookup.
func (r *Resolver) enrich(ctx context.Context, d *Dictionary) {
	if len(r.cfg.Translators) == 0 {
		return
	}

	translate := func(text string) (string, bool) {
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		chain := r.translateOnline(ctx, text, r.cfg.Foreign, r.cfg.Native)
		if !chain.ok() {
			r.log.Debug("enrichment skipped item", "text", text, "attempts", len(chain.attempts))
			return "", false
		}
		return strings.TrimSpace(chain.value), true
	}

	d.Definitions = mapKeep(d.Definitions, func(def Definition) (Definition, bool) {
		out, ok := translate(def.Text)
		if !ok {
			return def, false
		}
		def.Text = out
		return def, true
	})

	d.Examples = mapKeep(d.Examples, func(ex string) (string, bool) {
		out, ok := translate(ex)
		if !ok {
			return ex, false
		}
		return ex + " (" + out + ")", true
	})
}

// mapKeep applies fn to every item and keeps the original item wherever
// fn reports failure.
func mapKeep[T any](items []T, fn func(T) (T, bool)) []T {
	if len(items) == 0 {
		return items
	}
	out := make([]T, len(items))
	for i, item := range items {
		if v, ok := fn(item); ok {
			out[i] = v
		} else {
			out[i] = item
		}
	}
	return out
}
