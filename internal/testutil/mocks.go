package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"codeberg.org/snonux/wikifreq/internal/corpus"
)

// ErrScriptExhausted is returned once a ScriptedSource has no documents left
var ErrScriptExhausted = errors.New("script exhausted")

// Document is one scripted corpus document
type Document struct {
	Title string
	Text  string
}

// ScriptedSource serves documents in order. Requests after the last
// document fail with a TransientFetchError wrapping ErrScriptExhausted.
type ScriptedSource struct {
	Docs []Document

	mu    sync.Mutex
	next  int
	Calls []string
}

// NewScriptedSource creates a source serving docs in order
func NewScriptedSource(docs ...Document) *ScriptedSource {
	return &ScriptedSource{Docs: docs}
}

// Name returns "scripted"
func (s *ScriptedSource) Name() string {
	return "scripted"
}

// RandomTitle returns the title of the next document
func (s *ScriptedSource) RandomTitle(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, "random")
	if s.next >= len(s.Docs) {
		return "", &corpus.TransientFetchError{Op: "random", Err: ErrScriptExhausted}
	}
	return s.Docs[s.next].Title, nil
}

// Extract returns the text of the next document and advances the script
func (s *ScriptedSource) Extract(ctx context.Context, title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, fmt.Sprintf("extract %s", title))
	if s.next >= len(s.Docs) {
		return "", &corpus.TransientFetchError{Op: "extract", Title: title, Err: ErrScriptExhausted}
	}
	doc := s.Docs[s.next]
	s.next++
	return doc.Text, nil
}

// Served returns how many documents were handed out
func (s *ScriptedSource) Served() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// MockTranslator mocks translation service. It is safe for concurrent use.
type MockTranslator struct {
	Translations map[string]string // Keyed by "<to>:<word>"
	Errors       map[string]error  // Keyed by word

	mu    sync.Mutex
	Calls []string
}

// Name returns "mock"
func (m *MockTranslator) Name() string {
	return "mock"
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang))
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[toLang+":"+text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("%s(%s)", toLang, text), nil
}

// CallCount returns the number of Translate calls
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
