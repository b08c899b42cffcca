// Package bank holds the immutable question table used by a round.
package bank

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

// ErrEmptyBank is returned when a bank has no questions.
var ErrEmptyBank = errors.New("question bank is empty")

// ConfigError reports an unusable question bank source.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid question bank: %v", e.Err)
	}
	return fmt.Sprintf("invalid question bank %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Bank is an ordered, read-only list of questions. It is never empty.
type Bank struct {
	questions []model.Question
}

// New validates questions and returns a bank holding trimmed copies.
func New(questions []model.Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, &ConfigError{Err: ErrEmptyBank}
	}
	out := make([]model.Question, 0, len(questions))
	for i, q := range questions {
		prompt := strings.TrimSpace(q.Prompt)
		answer := strings.TrimSpace(q.Answer)
		if prompt == "" {
			return nil, &ConfigError{Err: fmt.Errorf("question %d has an empty prompt", i+1)}
		}
		if answer == "" {
			return nil, &ConfigError{Err: fmt.Errorf("question %d (%q) has an empty answer", i+1, prompt)}
		}
		out = append(out, model.Question{Prompt: prompt, Answer: answer})
	}
	return &Bank{questions: out}, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns a copy of the bank contents in load order.
func (b *Bank) Questions() []model.Question {
	out := make([]model.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// PickRandom draws one question uniformly. Repeats are allowed.
func (b *Bank) PickRandom(rnd *rand.Rand) model.Question {
	if b == nil || len(b.questions) == 0 {
		panic("bank: PickRandom on empty bank")
	}
	return b.questions[rnd.Intn(len(b.questions))]
}
