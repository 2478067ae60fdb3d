package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/classify"
	"codeberg.org/snonux/lingocard/internal/lookup"
)

type fakeService struct {
	mu        sync.Mutex
	lookups   []string
	imported  []anki.Card
	exported  []string
	lookupErr error
	importErr error
}

func (f *fakeService) Lookup(ctx context.Context, text string) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, text)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &Entry{
		Input:    text,
		Category: classify.Classify(text),
		View:     "[view] " + text,
		Card:     anki.Card{Input: text, Kind: lookup.KindTranslation},
	}, nil
}

func (f *fakeService) Import(ctx context.Context, card anki.Card) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.importErr != nil {
		return "", f.importErr
	}
	f.imported = append(f.imported, card)
	return "imported " + card.Input, nil
}

func (f *fakeService) Export(format string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = append(f.exported, format)
	return "/tmp/cards." + format, nil
}

func (f *fakeService) Reconnect(ctx context.Context) (string, error) {
	return "connected (AnkiConnect v6)", nil
}

func (f *fakeService) Stats() anki.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return anki.Stats{Total: len(f.imported), Translation: len(f.imported)}
}

func newTestApplication(t *testing.T, svc *fakeService) *Application {
	t.Helper()
	a := newApplication(test.NewApp(), &Config{Service: svc})
	t.Cleanup(func() {
		a.cancel()
		a.wg.Wait()
	})
	return a
}

func TestCategoryText(t *testing.T) {
	assert.Equal(t, "类型: 单词 (英文)", categoryText("hello"))
	assert.Equal(t, "类型: 句子 (中文)", categoryText("你今天好吗？"))
}

func TestCounterText(t *testing.T) {
	assert.Equal(t, "Cards: 3 (单词 1, 句子 2)", counterText(anki.Stats{Total: 3, Dictionary: 1, Translation: 2}))
}

func TestNewApplicationDefaults(t *testing.T) {
	a := newTestApplication(t, &fakeService{})

	assert.Equal(t, "apkg", a.formatSelect.Selected)
	assert.Equal(t, "Translate", a.translateBtn.Text)
	assert.Equal(t, "Translate + Import", a.importBtn.Text)
	assert.Equal(t, "Paste", a.pasteBtn.Text)
	assert.Equal(t, "Export", a.exportBtn.Text)
	assert.Equal(t, "Reconnect Anki", a.reconnectBtn.Text)
	assert.Equal(t, "Cards: 0 (单词 0, 句子 0)", a.counterLabel.Text)
}

func TestLookupShowsResult(t *testing.T) {
	svc := &fakeService{}
	a := newTestApplication(t, svc)

	a.input.SetText("How are you?")
	a.lookup(a.requestID, "How are you?", false)

	assert.Equal(t, "[view] How are you?", a.resultView.Text)
	assert.Equal(t, "类型: "+classify.EnglishSentence.Label(), a.categoryLabel.Text)
	assert.Empty(t, svc.imported)
	require.NotNil(t, a.current)
	assert.Equal(t, "How are you?", a.current.Input)
}

func TestLookupAndImport(t *testing.T) {
	svc := &fakeService{}
	a := newTestApplication(t, svc)

	a.lookup(a.requestID, "hello", true)

	require.Len(t, svc.imported, 1)
	assert.Equal(t, "imported hello", a.statusLabel.Text)
	assert.Equal(t, "Cards: 1 (单词 0, 句子 1)", a.counterLabel.Text)
	assert.False(t, a.importBtn.Disabled())
}

func TestStaleLookupIsDropped(t *testing.T) {
	svc := &fakeService{}
	a := newTestApplication(t, svc)
	a.requestID = 2

	a.lookup(1, "old", false)

	assert.Empty(t, a.resultView.Text)
	assert.Nil(t, a.current)
}

func TestLookupError(t *testing.T) {
	svc := &fakeService{lookupErr: &lookup.ExhaustedError{Input: "hello"}}
	a := newTestApplication(t, svc)

	a.lookup(a.requestID, "hello", true)

	assert.Contains(t, a.resultView.Text, "所有服务均不可用")
	assert.Equal(t, "Lookup failed", a.statusLabel.Text)
	assert.Empty(t, svc.imported)
}

func TestImportDuplicate(t *testing.T) {
	svc := &fakeService{importErr: anki.ErrDuplicate}
	a := newTestApplication(t, svc)

	a.importCard(anki.Card{Input: "hello"})

	assert.Equal(t, "'hello' is already in this session", a.statusLabel.Text)
}

func TestImportDuplicateNote(t *testing.T) {
	svc := &fakeService{importErr: fmt.Errorf("failed to add note: %w", anki.ErrDuplicateNote)}
	a := newTestApplication(t, svc)

	a.importCard(anki.Card{Input: "hello"})

	assert.Equal(t, "'hello' is already in Anki", a.statusLabel.Text)
}

func TestImportError(t *testing.T) {
	svc := &fakeService{importErr: errors.New("no note type accepted the note")}
	a := newTestApplication(t, svc)

	a.importCard(anki.Card{Input: "hello"})

	assert.Contains(t, a.statusLabel.Text, "no note type accepted the note")
}

func TestEmptyInput(t *testing.T) {
	svc := &fakeService{}
	a := newTestApplication(t, svc)

	a.onTranslate()

	assert.Equal(t, "请输入要查询的内容", a.statusLabel.Text)
	assert.Empty(t, svc.lookups)
}

func TestPaste(t *testing.T) {
	a := newTestApplication(t, &fakeService{})

	a.app.Clipboard().SetContent("  学习  ")
	a.onPaste()

	assert.Equal(t, "学习", a.input.Text)
	assert.Equal(t, "类型: 词汇 (中文)", a.categoryLabel.Text)
}

func TestExport(t *testing.T) {
	svc := &fakeService{}
	a := newTestApplication(t, svc)

	a.formatSelect.SetSelected("csv")
	a.onExport()

	assert.Equal(t, []string{"csv"}, svc.exported)
	assert.Equal(t, "Exported to /tmp/cards.csv", a.statusLabel.Text)
}

func TestReconnect(t *testing.T) {
	a := newTestApplication(t, &fakeService{})

	a.reconnect()

	assert.Equal(t, "Anki: connected (AnkiConnect v6)", a.ankiLabel.Text)
}
