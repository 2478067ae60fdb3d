package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lingocard/internal"
	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/classify"
	"codeberg.org/snonux/lingocard/internal/lookup"
	"codeberg.org/snonux/lingocard/internal/render"
)

// ExportFormats are offered by the export selector.
var ExportFormats = []string{"apkg", "tsv", "csv", "json"}

// Config holds GUI application configuration
type Config struct {
	Service      Service
	ExportFormat string
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	input         *InputEntry
	categoryLabel *widget.Label
	resultView    *widget.Label
	statusLabel   *widget.Label
	ankiLabel     *widget.Label
	counterLabel  *widget.Label
	formatSelect  *widget.Select

	translateBtn *ttwidget.Button
	importBtn    *ttwidget.Button
	pasteBtn     *ttwidget.Button
	exportBtn    *ttwidget.Button
	reconnectBtn *ttwidget.Button

	config  *Config
	service Service

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	requestID int
	current   *Entry
}

// New creates a new GUI application
func New(config *Config) *Application {
	myApp := app.NewWithID("org.codeberg.snonux.lingocard")
	myApp.SetIcon(GetAppIcon())
	return newApplication(myApp, config)
}

func newApplication(fyneApp fyne.App, config *Config) *Application {
	if config.ExportFormat == "" {
		config.ExportFormat = ExportFormats[0]
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Application{
		app:     fyneApp,
		config:  config,
		service: config.Service,
		ctx:     ctx,
		cancel:  cancel,
	}
	a.setupUI()
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("lingocard v%s - 阅读助手", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(720, 560))

	a.input = NewInputEntry()
	a.input.SetPlaceHolder("English word, phrase or sentence, or Chinese text...")
	a.input.OnSubmitted = func(string) {
		a.onTranslate()
	}
	a.input.OnChanged = func(text string) {
		a.categoryLabel.SetText(categoryText(text))
	}
	a.input.onImport = a.onTranslateAndImport
	a.input.onLeave = func() {
		a.window.Canvas().Unfocus()
	}

	a.categoryLabel = widget.NewLabel(categoryText(""))
	a.categoryLabel.TextStyle = fyne.TextStyle{Italic: true}

	// Tooltips are set after the tooltip layer exists.
	a.translateBtn = ttwidget.NewButtonWithIcon("Translate", theme.SearchIcon(), a.onTranslate)
	a.importBtn = ttwidget.NewButtonWithIcon("Translate + Import", theme.DocumentCreateIcon(), a.onTranslateAndImport)
	a.importBtn.Importance = widget.HighImportance
	a.pasteBtn = ttwidget.NewButtonWithIcon("Paste", theme.ContentPasteIcon(), a.onPaste)
	a.exportBtn = ttwidget.NewButtonWithIcon("Export", theme.UploadIcon(), a.onExport)
	a.reconnectBtn = ttwidget.NewButtonWithIcon("Reconnect Anki", theme.ViewRefreshIcon(), a.onReconnect)

	a.formatSelect = widget.NewSelect(ExportFormats, nil)
	a.formatSelect.SetSelected(a.config.ExportFormat)

	inputSection := container.NewBorder(
		nil, a.categoryLabel,
		nil, container.NewHBox(a.pasteBtn),
		a.input,
	)

	actions := container.NewHBox(
		a.translateBtn,
		a.importBtn,
		widget.NewSeparator(),
		a.formatSelect,
		a.exportBtn,
		widget.NewSeparator(),
		a.reconnectBtn,
	)

	a.resultView = widget.NewLabel("")
	a.resultView.Wrapping = fyne.TextWrapWord
	resultScroll := container.NewScroll(a.resultView)
	resultScroll.SetMinSize(fyne.NewSize(0, 280))

	a.statusLabel = widget.NewLabel("Ready")
	a.ankiLabel = widget.NewLabel("Anki: checking...")
	a.counterLabel = widget.NewLabel(counterText(anki.Stats{}))
	a.counterLabel.Alignment = fyne.TextAlignTrailing

	statusSection := container.NewVBox(
		widget.NewSeparator(),
		a.statusLabel,
		container.NewBorder(nil, nil, a.ankiLabel, a.counterLabel),
	)

	content := container.NewBorder(
		container.NewVBox(inputSection, actions, widget.NewSeparator()),
		statusSection,
		nil, nil,
		resultScroll,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.wg.Wait()
	})
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.translateBtn.SetToolTip("Look up or translate the text (Enter)")
	a.importBtn.SetToolTip("Look up the text and add the card to Anki (Ctrl+Enter)")
	a.pasteBtn.SetToolTip("Replace the input with the clipboard")
	a.exportBtn.SetToolTip("Export this session's cards")
	a.reconnectBtn.SetToolTip("Check the AnkiConnect connection again")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.background(func() { a.reconnect() })
	a.window.Canvas().Focus(a.input)
	a.window.ShowAndRun()
}

func (a *Application) background(f func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		f()
	}()
}

func (a *Application) text() string {
	return strings.TrimSpace(a.input.Text)
}

func (a *Application) onTranslate() {
	a.startLookup(a.text(), false)
}

// onTranslateAndImport imports the shown card when it belongs to the
// current input and looks the input up first otherwise.
func (a *Application) onTranslateAndImport() {
	text := a.text()

	a.mu.Lock()
	current := a.current
	a.mu.Unlock()

	if current != nil && current.Input == text {
		a.setBusy(true)
		a.updateStatus("Importing...")
		a.background(func() {
			a.importCard(current.Card)
			fyne.Do(func() { a.setBusy(false) })
		})
		return
	}
	a.startLookup(text, true)
}

func (a *Application) startLookup(text string, importAfter bool) {
	if text == "" {
		a.updateStatus(strings.TrimSpace(render.Error(text, lookup.ErrEmptyInput)))
		return
	}

	a.mu.Lock()
	a.requestID++
	id := a.requestID
	a.mu.Unlock()

	a.setBusy(true)
	a.updateStatus("Looking up...")
	a.background(func() { a.lookup(id, text, importAfter) })
}

// lookup runs on a goroutine. Results of superseded requests are dropped.
func (a *Application) lookup(id int, text string, importAfter bool) {
	entry, err := a.service.Lookup(a.ctx, text)

	stale := false
	a.mu.Lock()
	if id != a.requestID {
		stale = true
	} else if err == nil {
		a.current = entry
	}
	a.mu.Unlock()
	if stale {
		return
	}

	if err != nil {
		fyne.Do(func() {
			a.resultView.SetText(render.Error(text, err))
			a.updateStatus("Lookup failed")
			a.setBusy(false)
		})
		return
	}

	fyne.Do(func() {
		a.categoryLabel.SetText("类型: " + entry.Category.Label())
		a.resultView.SetText(entry.View)
		if entry.Degraded {
			a.updateStatus("Showing a fallback result")
		} else {
			a.updateStatus("Ready")
		}
		if !importAfter {
			a.setBusy(false)
		}
	})

	if importAfter {
		a.importCard(entry.Card)
		fyne.Do(func() { a.setBusy(false) })
	}
}

// importCard runs on a goroutine.
func (a *Application) importCard(card anki.Card) {
	msg, err := a.service.Import(a.ctx, card)
	stats := a.service.Stats()

	fyne.Do(func() {
		switch {
		case errors.Is(err, anki.ErrDuplicate):
			a.updateStatus(fmt.Sprintf("'%s' is already in this session", card.Input))
		case errors.Is(err, anki.ErrDuplicateNote):
			a.updateStatus(fmt.Sprintf("'%s' is already in Anki", card.Input))
		case err != nil:
			a.showError(err)
		default:
			a.updateStatus(msg)
		}
		a.counterLabel.SetText(counterText(stats))
	})
}

func (a *Application) onPaste() {
	text := a.app.Clipboard().Content()
	if strings.TrimSpace(text) == "" {
		a.updateStatus("Clipboard is empty")
		return
	}
	a.input.SetText(strings.TrimSpace(text))
	a.categoryLabel.SetText(categoryText(text))
}

func (a *Application) onExport() {
	format := a.formatSelect.Selected
	path, err := a.service.Export(format)
	if err != nil {
		a.showError(err)
		return
	}
	a.updateStatus("Exported to " + path)
	dialog.ShowInformation("Export", fmt.Sprintf("%d cards written to\n%s", a.service.Stats().Total, path), a.window)
}

func (a *Application) onReconnect() {
	a.ankiLabel.SetText("Anki: checking...")
	a.background(func() { a.reconnect() })
}

// reconnect runs on a goroutine.
func (a *Application) reconnect() {
	msg, err := a.service.Reconnect(a.ctx)
	fyne.Do(func() {
		if err != nil {
			a.ankiLabel.SetText("Anki: offline, cards are saved as files")
			return
		}
		a.ankiLabel.SetText("Anki: " + msg)
	})
}

func (a *Application) setBusy(busy bool) {
	if busy {
		a.translateBtn.Disable()
		a.importBtn.Disable()
	} else {
		a.translateBtn.Enable()
		a.importBtn.Enable()
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

func categoryText(text string) string {
	return "类型: " + classify.Classify(text).Label()
}

func counterText(s anki.Stats) string {
	return fmt.Sprintf("Cards: %d (单词 %d, 句子 %d)", s.Total, s.Dictionary, s.Translation)
}
