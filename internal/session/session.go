// Package session implements a quiz round: the application/round state
// machine, the spawn scheduler, question countdowns, answer matching and the
// score ledger. Everything runs on the caller's goroutine, one Tick per frame.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuxquiz/internal/assets"
	"github.com/verte-zerg/tuxquiz/internal/bank"
	"github.com/verte-zerg/tuxquiz/internal/model"
)

// ErrNoQuestions is reported when a round is requested without a loaded bank.
var ErrNoQuestions = errors.New("no questions loaded")

// EventKind distinguishes queued input events.
type EventKind int

const (
	EventChar EventKind = iota
	EventSubmit
	EventAction
)

// Event is a discrete input delivered between ticks.
type Event struct {
	Kind   EventKind
	Char   rune
	Action Action
}

// CharEvent is a typed character.
func CharEvent(r rune) Event {
	return Event{Kind: EventChar, Char: r}
}

// SubmitEvent is the Enter key.
func SubmitEvent() Event {
	return Event{Kind: EventSubmit}
}

// ActionEvent is a menu or control action.
func ActionEvent(a Action) Event {
	return Event{Kind: EventAction, Action: a}
}

// Transition records a phase change applied during a tick.
type Transition struct {
	From  Phase
	To    Phase
	Cause string
}

// Report describes what happened during one tick.
type Report struct {
	Spawned    []ActiveQuestion
	Expired    []ActiveQuestion
	Matched    []ActiveQuestion
	Transition *Transition
	Finished   *model.RoundSummary
	// Err is set when a requested transition was refused.
	Err error
}

// Snapshot is a read-only view for rendering.
type Snapshot struct {
	Phase     Phase
	Score     int
	Bounds    Bounds
	Input     string
	Questions []ActiveQuestion
	NextSpawn time.Duration
	BankSize  int
	Banner    string
	LoadErr   error
	Quit      bool
}

type pendingTransition struct {
	to    Phase
	cause string
	quit  bool
}

type roundStats struct {
	id        string
	startedAt time.Time
	playTime  time.Duration
	correct   int
	timeouts  int
	spawned   int
	finished  bool
}

// Session is the single owner of all round state.
type Session struct {
	cfg    model.SessionConfig
	bounds Bounds
	src    assets.Source
	bank   *bank.Bank
	banner string
	logger *slog.Logger
	now    func() time.Time

	phase   Phase
	loadErr error
	quit    bool

	score     *Ledger
	scheduler *Scheduler
	registry  *Registry
	matcher   *Matcher

	queue   []Event
	pending *pendingTransition
	round   roundStats
}

// New returns a session in the loading phase. A nil rnd is seeded from the
// clock and a nil logger discards.
func New(cfg model.SessionConfig, src assets.Source, rnd *rand.Rand, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("asset source is required")
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	score := NewLedger()
	registry := NewRegistry(score)
	return &Session{
		cfg:       cfg,
		bounds:    Bounds{Min: cfg.MinScore, Max: cfg.MaxScore},
		src:       src,
		logger:    logger,
		now:       time.Now,
		phase:     Phase{App: AppLoading, Round: RoundIdle},
		score:     score,
		scheduler: NewScheduler(cfg.SpawnPeriod, rnd),
		registry:  registry,
		matcher:   NewMatcher(registry, score),
	}, nil
}

// Push queues an event for the next Tick.
func (s *Session) Push(ev Event) {
	s.queue = append(s.queue, ev)
}

// Tick advances the session by elapsed wall-clock time. Steps run in order:
// spawn, expire, queued input, game-over check, pending transition.
func (s *Session) Tick(elapsed time.Duration) Report {
	var rep Report
	if s.phase.App == AppLoading {
		s.pollAssets(&rep)
	}

	if s.playing() && elapsed > 0 {
		s.round.playTime += elapsed
		for _, q := range s.scheduler.Tick(elapsed) {
			aq := s.registry.Insert(q, s.cfg.QuestionTTL)
			s.round.spawned++
			rep.Spawned = append(rep.Spawned, aq)
			s.logger.Debug("spawn question", "id", aq.ID, "prompt", aq.Prompt)
		}
		expired := s.registry.Advance(elapsed)
		s.round.timeouts += len(expired)
		for _, aq := range expired {
			s.logger.Debug("question expired", "id", aq.ID, "prompt", aq.Prompt, "score", s.score.Value())
		}
		rep.Expired = expired
	}

	s.drainEvents(&rep)

	if s.playing() && !s.bounds.Contains(s.score.Value()) {
		s.requestGameOver()
	}

	s.applyPending(&rep)
	return rep
}

func (s *Session) playing() bool {
	return s.phase == Phase{App: AppInGame, Round: RoundPlaying}
}

func (s *Session) pollAssets(rep *Report) {
	if s.loadErr != nil {
		return
	}
	res := s.src.Poll()
	switch res.Status {
	case model.LoadReady:
		if res.Bank == nil || res.Bank.Len() == 0 {
			s.loadErr = fmt.Errorf("%w: %w", assets.ErrLoadFailed, ErrNoQuestions)
			s.logger.Error("asset load produced no questions")
			return
		}
		s.bank = res.Bank
		s.banner = res.Banner
		s.scheduler.SetBank(res.Bank)
		s.setPhase(rep, Phase{App: AppMainMenu, Round: RoundIdle}, "assets-ready")
	case model.LoadFailed:
		s.loadErr = res.Err
		if s.loadErr == nil {
			s.loadErr = assets.ErrLoadFailed
		}
		s.logger.Error("asset load failed", "err", s.loadErr)
	}
}

func (s *Session) drainEvents(rep *Report) {
	events := s.queue
	s.queue = nil
	for _, ev := range events {
		switch ev.Kind {
		case EventChar:
			if s.playing() {
				s.matcher.OnChar(ev.Char)
			}
		case EventSubmit:
			if !s.playing() {
				continue
			}
			matched := s.matcher.OnSubmit()
			s.round.correct += len(matched)
			for _, aq := range matched {
				s.logger.Debug("question answered", "id", aq.ID, "prompt", aq.Prompt, "score", s.score.Value())
			}
			rep.Matched = append(rep.Matched, matched...)
		case EventAction:
			s.requestAction(ev.Action)
		}
	}
}

func (s *Session) requestAction(a Action) {
	if a == ActionQuit {
		s.pending = &pendingTransition{quit: true, cause: a.String()}
		return
	}
	if s.pending != nil {
		s.logger.Debug("action dropped, transition already pending", "action", a.String())
		return
	}
	to, ok := Target(s.phase, a)
	if !ok {
		s.logger.Debug("action ignored", "action", a.String(), "phase", s.phase.String())
		return
	}
	s.pending = &pendingTransition{to: to, cause: a.String()}
}

func (s *Session) requestGameOver() {
	if s.pending != nil && s.pending.quit {
		return
	}
	s.pending = &pendingTransition{to: Phase{App: AppInGame, Round: RoundGameOver}, cause: "score-bounds"}
}

func (s *Session) applyPending(rep *Report) {
	p := s.pending
	s.pending = nil
	if p == nil {
		return
	}

	if p.quit {
		if s.phase.App == AppInGame {
			rep.Finished = s.finishRound(model.OutcomeAbandoned)
			s.resetRound()
			s.setPhase(rep, Phase{App: AppMainMenu, Round: RoundIdle}, p.cause)
		}
		s.quit = true
		s.logger.Debug("quit requested")
		return
	}

	from := s.phase
	switch {
	case p.to.Round == RoundPlaying && from.Round != RoundPaused:
		// Start from the menu or restart after game over: a fresh round.
		if s.bank == nil || s.bank.Len() == 0 {
			rep.Err = ErrNoQuestions
			s.logger.Error("round not started", "err", ErrNoQuestions)
			return
		}
		s.resetRound()
		s.round = roundStats{id: uuid.NewString(), startedAt: s.now()}
	case p.to.Round == RoundGameOver:
		outcome := model.OutcomeLost
		if s.score.Value() > s.bounds.Max {
			outcome = model.OutcomeWon
		}
		rep.Finished = s.finishRound(outcome)
		s.logger.Debug("game over", "score", s.score.Value(), "outcome", string(outcome))
	case p.to.App != AppInGame && from.App == AppInGame:
		rep.Finished = s.finishRound(model.OutcomeAbandoned)
		s.resetRound()
	}
	s.setPhase(rep, p.to, p.cause)
}

func (s *Session) setPhase(rep *Report, to Phase, cause string) {
	from := s.phase
	if from == to {
		return
	}
	s.phase = to
	rep.Transition = &Transition{From: from, To: to, Cause: cause}
	s.logger.Debug("phase transition", "from", from.String(), "to", to.String(), "cause", cause)
}

// resetRound clears every piece of round state. It never scores.
func (s *Session) resetRound() {
	cleared := s.registry.Clear()
	s.score.Reset()
	s.matcher.Clear()
	s.scheduler.Reset()
	s.round = roundStats{}
	s.logger.Debug("round reset", "cleared", cleared)
}

func (s *Session) finishRound(outcome model.RoundOutcome) *model.RoundSummary {
	if s.round.id == "" || s.round.finished {
		return nil
	}
	s.round.finished = true
	return &model.RoundSummary{
		ID:         s.round.id,
		StartedAt:  s.round.startedAt,
		EndedAt:    s.now(),
		PlayTime:   s.round.playTime,
		Outcome:    outcome,
		FinalScore: s.score.Value(),
		Correct:    s.round.correct,
		Timeouts:   s.round.timeouts,
		Spawned:    s.round.spawned,
		ScoreTrace: s.score.Trace(),
	}
}

// Phase returns the current composite state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Score returns the current round score.
func (s *Session) Score() int {
	return s.score.Value()
}

// Snapshot returns a copy of everything the UI displays.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:     s.phase,
		Score:     s.score.Value(),
		Bounds:    s.bounds,
		Input:     s.matcher.Buffer(),
		Questions: s.registry.Snapshot(),
		NextSpawn: s.scheduler.Until(),
		Banner:    s.banner,
		LoadErr:   s.loadErr,
		Quit:      s.quit,
	}
	if s.bank != nil {
		snap.BankSize = s.bank.Len()
	}
	return snap
}

// ScoreTrace returns the score after every change in the current round.
func (s *Session) ScoreTrace() []int {
	return s.score.Trace()
}
