// Package lookup resolves classified text into a dictionary entry or a
// translation. Each strategy walks an ordered chain of sources and falls
// back to a degraded answer when every source fails, so a lookup only
// fails for empty input or when the last resort is switched off.
package lookup
