// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Question is a prompt/answer pair from a question bank.
type Question struct {
	Prompt string
	Answer string
}

// SessionConfig defines round timing and score bounds.
type SessionConfig struct {
	SpawnPeriod time.Duration
	QuestionTTL time.Duration
	// The round continues while MinScore <= score <= MaxScore.
	MinScore int
	MaxScore int
}

// Validate reports the first invalid setting.
func (c SessionConfig) Validate() error {
	if c.SpawnPeriod <= 0 {
		return fmt.Errorf("spawn period must be > 0")
	}
	if c.QuestionTTL <= 0 {
		return fmt.Errorf("question ttl must be > 0")
	}
	if c.MinScore > c.MaxScore {
		return fmt.Errorf("min score (%d) must be <= max score (%d)", c.MinScore, c.MaxScore)
	}
	return nil
}

// LoadStatus is the tri-state asset readiness signal.
type LoadStatus int

const (
	LoadPending LoadStatus = iota
	LoadReady
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// RoundOutcome describes how a round ended.
type RoundOutcome string

const (
	OutcomeWon       RoundOutcome = "won"
	OutcomeLost      RoundOutcome = "lost"
	OutcomeAbandoned RoundOutcome = "abandoned"
)

// RoundSummary captures a finished round.
type RoundSummary struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	PlayTime   time.Duration
	Outcome    RoundOutcome
	FinalScore int
	Correct    int
	Timeouts   int
	Spawned    int
	// ScoreTrace holds the score after every change, starting at 0.
	ScoreTrace []int
}
