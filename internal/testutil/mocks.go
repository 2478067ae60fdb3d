package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/lingocard/internal/lookup"
	"golang.org/x/text/language"
)

// MockDictionary is a dictionary source with canned answers. Words not in
// Entries are reported as not found.
type MockDictionary struct {
	NameValue string
	Entries   map[string]*lookup.Dictionary
	Err       error
	Local     bool

	mu    sync.Mutex
	Calls []string
}

// NewMockDictionary creates a mock that fails every lookup with err, or
// knows nothing when err is nil.
func NewMockDictionary(name string, err error) *MockDictionary {
	return &MockDictionary{NameValue: name, Err: err, Entries: map[string]*lookup.Dictionary{}}
}

func (m *MockDictionary) Name() string { return m.NameValue }

func (m *MockDictionary) Localized() bool { return m.Local }

// Lookup records the call and returns the canned entry.
func (m *MockDictionary) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, word)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	entry, ok := m.Entries[strings.ToLower(word)]
	if !ok {
		return nil, nil
	}
	cp := *entry
	cp.Definitions = append([]lookup.Definition(nil), entry.Definitions...)
	cp.Examples = append([]string(nil), entry.Examples...)
	return &cp, nil
}

// CallCount returns the number of Lookup calls.
func (m *MockDictionary) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranslator is a translation source with canned answers. Text not in
// Translations is answered with Default, formatted with the text, or fails
// when Default is empty.
type MockTranslator struct {
	NameValue    string
	Translations map[string]string
	Errors       map[string]error
	Err          error
	Default      string

	mu    sync.Mutex
	Calls []string
}

// NewMockTranslator creates a mock that answers from translations.
func NewMockTranslator(name string, translations map[string]string) *MockTranslator {
	if translations == nil {
		translations = map[string]string{}
	}
	return &MockTranslator{NameValue: name, Translations: translations, Errors: map[string]error{}}
}

func (m *MockTranslator) Name() string { return m.NameValue }

// Translate records the call and returns the canned translation.
func (m *MockTranslator) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("%s (%s->%s)", text, from, to))
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if out, ok := m.Translations[text]; ok {
		return out, nil
	}
	if m.Default != "" {
		return fmt.Sprintf(m.Default, text), nil
	}
	return "", fmt.Errorf("no mock translation for %q", text)
}

// CallCount returns the number of Translate calls.
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// BlockingDictionary waits for the context to end, like a source that
// never answers.
type BlockingDictionary struct {
	NameValue string
}

func (b BlockingDictionary) Name() string { return b.NameValue }

func (b BlockingDictionary) Lookup(ctx context.Context, word string) (*lookup.Dictionary, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
