package session

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/bank"
	"github.com/verte-zerg/tuxquiz/internal/model"
)

// Scheduler is a repeating timer that draws one question from the bank for
// every period boundary it crosses.
type Scheduler struct {
	period  time.Duration
	elapsed time.Duration
	bank    *bank.Bank
	rnd     *rand.Rand
}

// NewScheduler returns a scheduler with no bank attached.
func NewScheduler(period time.Duration, rnd *rand.Rand) *Scheduler {
	return &Scheduler{period: period, rnd: rnd}
}

// SetBank attaches the bank questions are drawn from.
func (s *Scheduler) SetBank(b *bank.Bank) {
	s.bank = b
}

// Tick advances the timer. The result holds one question per boundary
// crossed and is nil when none was.
func (s *Scheduler) Tick(elapsed time.Duration) []model.Question {
	if elapsed <= 0 {
		return nil
	}
	s.elapsed += elapsed
	var drawn []model.Question
	for s.elapsed >= s.period {
		s.elapsed -= s.period
		drawn = append(drawn, s.bank.PickRandom(s.rnd))
	}
	return drawn
}

// Reset restarts the current period from zero.
func (s *Scheduler) Reset() {
	s.elapsed = 0
}

// Until returns the time left before the next draw.
func (s *Scheduler) Until() time.Duration {
	return s.period - s.elapsed
}
