package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// InputEntry is the lookup entry. Enter submits as usual, Ctrl+Enter
// submits and imports, and Escape clears the text or, when already
// empty, leaves the entry.
type InputEntry struct {
	widget.Entry

	onImport func()
	onLeave  func()
}

// NewInputEntry creates a single-line lookup entry.
func NewInputEntry() *InputEntry {
	e := &InputEntry{}
	e.ExtendBaseWidget(e)
	return e
}

// TypedKey handles Escape and passes everything else to the entry.
func (e *InputEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name != fyne.KeyEscape {
		e.Entry.TypedKey(key)
		return
	}
	if e.Text != "" {
		e.SetText("")
		return
	}
	if e.onLeave != nil {
		e.onLeave()
	}
}

// TypedShortcut handles Ctrl+Enter.
func (e *InputEntry) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok && e.onImport != nil &&
		(cs.KeyName == fyne.KeyReturn || cs.KeyName == fyne.KeyEnter) &&
		cs.Modifier == fyne.KeyModifierControl {
		e.onImport()
		return
	}
	e.Entry.TypedShortcut(s)
}
