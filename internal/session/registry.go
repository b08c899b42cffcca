package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

// ActiveQuestion is a spawned question that is still counting down.
type ActiveQuestion struct {
	ID        string
	Prompt    string
	Answer    string
	Remaining time.Duration
	TTL       time.Duration
}

// Registry owns the active questions of a round, in spawn order.
// Expiries are charged to the score ledger.
type Registry struct {
	score  *Ledger
	active []ActiveQuestion
}

// NewRegistry returns an empty registry charging expiries to score.
func NewRegistry(score *Ledger) *Registry {
	return &Registry{score: score}
}

// Insert adds q with the given time to live and returns the new entry.
func (r *Registry) Insert(q model.Question, ttl time.Duration) ActiveQuestion {
	aq := ActiveQuestion{
		ID:        uuid.NewString(),
		Prompt:    q.Prompt,
		Answer:    q.Answer,
		Remaining: ttl,
		TTL:       ttl,
	}
	r.active = append(r.active, aq)
	return aq
}

// Advance counts every question down by elapsed. Questions that reach zero
// are removed, decrement the score once each, and are returned.
func (r *Registry) Advance(elapsed time.Duration) []ActiveQuestion {
	if elapsed <= 0 || len(r.active) == 0 {
		return nil
	}
	var expired []ActiveQuestion
	kept := r.active[:0]
	for _, aq := range r.active {
		aq.Remaining -= elapsed
		if aq.Remaining <= 0 {
			aq.Remaining = 0
			expired = append(expired, aq)
			r.score.Decrement()
			continue
		}
		kept = append(kept, aq)
	}
	r.active = kept
	return expired
}

// RemoveMatching removes every question whose answer equals the trimmed
// text. Matching is exact and case-sensitive.
func (r *Registry) RemoveMatching(text string) []ActiveQuestion {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var removed []ActiveQuestion
	kept := r.active[:0]
	for _, aq := range r.active {
		if aq.Answer == text {
			removed = append(removed, aq)
			continue
		}
		kept = append(kept, aq)
	}
	r.active = kept
	return removed
}

// Clear drops every question without touching the score.
func (r *Registry) Clear() int {
	n := len(r.active)
	r.active = nil
	return n
}

func (r *Registry) Len() int {
	return len(r.active)
}

// Snapshot returns a copy of the active questions.
func (r *Registry) Snapshot() []ActiveQuestion {
	out := make([]ActiveQuestion, len(r.active))
	copy(out, r.active)
	return out
}
