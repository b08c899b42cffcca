package session

import "strings"

// Matcher collects typed characters and resolves them against the registry
// on submit. There is no editing: every character is kept until submit.
type Matcher struct {
	registry *Registry
	score    *Ledger
	buf      []rune
}

// NewMatcher returns a matcher with an empty buffer.
func NewMatcher(registry *Registry, score *Ledger) *Matcher {
	return &Matcher{registry: registry, score: score}
}

// OnChar appends r to the buffer.
func (m *Matcher) OnChar(r rune) {
	m.buf = append(m.buf, r)
}

// OnSubmit removes every active question answered by the buffer, adds one
// point per removed question, and always clears the buffer.
func (m *Matcher) OnSubmit() []ActiveQuestion {
	text := strings.TrimSpace(string(m.buf))
	m.buf = m.buf[:0]
	matched := m.registry.RemoveMatching(text)
	for range matched {
		m.score.Increment()
	}
	return matched
}

// Clear drops the buffer without submitting.
func (m *Matcher) Clear() {
	m.buf = m.buf[:0]
}

// Buffer returns the text typed since the last submit.
func (m *Matcher) Buffer() string {
	return string(m.buf)
}
