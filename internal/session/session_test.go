package session

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/assets"
	"github.com/verte-zerg/tuxquiz/internal/bank"
	"github.com/verte-zerg/tuxquiz/internal/model"
)

type scriptedSource struct {
	results []assets.Result
	polls   int
}

func (s *scriptedSource) Poll() assets.Result {
	s.polls++
	if len(s.results) == 0 {
		return assets.Result{Status: model.LoadPending}
	}
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return res
}

func mustBank(t *testing.T, questions ...model.Question) *bank.Bank {
	t.Helper()
	b, err := bank.New(questions)
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	return b
}

func defaultConfig() model.SessionConfig {
	return model.SessionConfig{
		SpawnPeriod: 5 * time.Second,
		QuestionTTL: 20 * time.Second,
		MinScore:    -3,
		MaxScore:    4,
	}
}

// newPlayingSession returns a session that has loaded b and started a round.
func newPlayingSession(t *testing.T, cfg model.SessionConfig, b *bank.Bank) *Session {
	t.Helper()
	s, err := New(cfg, assets.Static(b), rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Tick(0)
	if got := s.Phase(); got.App != AppMainMenu {
		t.Fatalf("expected main menu after load, got %s", got)
	}
	s.Push(ActionEvent(ActionStart))
	s.Tick(0)
	if got := s.Phase(); got != (Phase{App: AppInGame, Round: RoundPlaying}) {
		t.Fatalf("expected playing after start, got %s", got)
	}
	return s
}

func typeAnswer(s *Session, text string) {
	for _, r := range text {
		s.Push(CharEvent(r))
	}
	s.Push(SubmitEvent())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinScore = 10
	if _, err := New(cfg, assets.Static(mustBank(t, model.Question{Prompt: "a", Answer: "b"})), nil, nil); err == nil {
		t.Fatalf("expected error for min > max")
	}
}

func TestLoadingWaitsForReadySignal(t *testing.T) {
	b := mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"})
	src := &scriptedSource{results: []assets.Result{
		{Status: model.LoadPending},
		{Status: model.LoadPending},
		{Status: model.LoadReady, Bank: b},
	}}
	s, err := New(defaultConfig(), src, nil, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Push(ActionEvent(ActionStart))
	s.Tick(time.Second)
	s.Tick(time.Second)
	if got := s.Phase().App; got != AppLoading {
		t.Fatalf("expected loading while pending, got %s", got)
	}
	rep := s.Tick(time.Second)
	if got := s.Phase(); got != (Phase{App: AppMainMenu, Round: RoundIdle}) {
		t.Fatalf("expected main menu, got %s", got)
	}
	if rep.Transition == nil || rep.Transition.From.App != AppLoading {
		t.Fatalf("expected loading transition in report, got %+v", rep.Transition)
	}
	polls := src.polls
	s.Tick(time.Second)
	if src.polls != polls {
		t.Fatalf("readiness must not be polled outside loading")
	}
}

func TestLoadFailureStaysInLoading(t *testing.T) {
	boom := errors.New("missing font")
	src := &scriptedSource{results: []assets.Result{{Status: model.LoadFailed, Err: boom}}}
	s, err := New(defaultConfig(), src, nil, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for i := 0; i < 5; i++ {
		s.Push(ActionEvent(ActionStart))
		s.Tick(time.Second)
	}
	if got := s.Phase().App; got != AppLoading {
		t.Fatalf("expected to remain loading, got %s", got)
	}
	snap := s.Snapshot()
	if !errors.Is(snap.LoadErr, boom) {
		t.Fatalf("expected load error to surface, got %v", snap.LoadErr)
	}
	if src.polls != 1 {
		t.Fatalf("failed load must not be retried, polled %d times", src.polls)
	}
}

func TestReadyWithoutQuestionsIsStuck(t *testing.T) {
	src := &scriptedSource{results: []assets.Result{{Status: model.LoadReady}}}
	s, err := New(defaultConfig(), src, nil, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Tick(time.Second)
	if s.Phase().App != AppLoading {
		t.Fatalf("expected loading, got %s", s.Phase())
	}
	if !errors.Is(s.Snapshot().LoadErr, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", s.Snapshot().LoadErr)
	}
}

func TestSpawnAndExpiryScenario(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinScore = -100
	cfg.MaxScore = 100
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))

	var firstID string
	for sec := 1; sec <= 25; sec++ {
		rep := s.Tick(time.Second)
		switch sec {
		case 4:
			if len(s.Snapshot().Questions) != 0 {
				t.Fatalf("no question expected before t=5s")
			}
		case 5:
			if len(rep.Spawned) != 1 || rep.Spawned[0].Prompt != "1+1=?" {
				t.Fatalf("expected one spawn at t=5s, got %+v", rep.Spawned)
			}
			firstID = rep.Spawned[0].ID
		case 23:
			if !hasQuestion(s, firstID) {
				t.Fatalf("first question expired early")
			}
		case 24:
			if len(rep.Expired) != 1 || rep.Expired[0].ID != firstID {
				t.Fatalf("expected first question to expire at t=24s, got %+v", rep.Expired)
			}
			if s.Score() != -1 {
				t.Fatalf("expected score -1, got %d", s.Score())
			}
			if hasQuestion(s, firstID) {
				t.Fatalf("expired question still active")
			}
		case 25:
			if len(rep.Spawned) != 1 {
				t.Fatalf("expected scheduler to keep spawning at t=25s, got %d", len(rep.Spawned))
			}
		}
	}
	if s.Score() != -1 {
		t.Fatalf("expired question must not be penalized twice, score %d", s.Score())
	}
}

func hasQuestion(s *Session, id string) bool {
	for _, q := range s.Snapshot().Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

func TestLongFrameSpawnsPerBoundary(t *testing.T) {
	cfg := defaultConfig()
	cfg.QuestionTTL = time.Minute
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	rep := s.Tick(11 * time.Second)
	if len(rep.Spawned) != 2 {
		t.Fatalf("expected 2 spawns for an 11s frame, got %d", len(rep.Spawned))
	}
}

func TestCorrectAnswerScores(t *testing.T) {
	cfg := defaultConfig()
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	s.Tick(5 * time.Second)
	typeAnswer(s, " 2 ")
	rep := s.Tick(0)
	if len(rep.Matched) != 1 {
		t.Fatalf("expected one match, got %d", len(rep.Matched))
	}
	if s.Score() != 1 {
		t.Fatalf("expected score 1, got %d", s.Score())
	}
	if len(s.Snapshot().Questions) != 0 {
		t.Fatalf("answered question should be removed")
	}
	if s.Snapshot().Input != "" {
		t.Fatalf("buffer must be cleared after submit")
	}
}

func TestNonMatchingSubmitClearsBuffer(t *testing.T) {
	s := newPlayingSession(t, defaultConfig(), mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	s.Tick(5 * time.Second)
	typeAnswer(s, "3")
	rep := s.Tick(0)
	if len(rep.Matched) != 0 || s.Score() != 0 {
		t.Fatalf("unexpected match: %+v score %d", rep.Matched, s.Score())
	}
	if s.Snapshot().Input != "" {
		t.Fatalf("buffer must be cleared after a miss")
	}
	if len(s.Snapshot().Questions) != 1 {
		t.Fatalf("question should survive a miss")
	}
}

func TestThreeTimeoutsKeepPlayingFourthEndsRound(t *testing.T) {
	cfg := defaultConfig()
	cfg.SpawnPeriod = time.Second
	cfg.QuestionTTL = time.Second
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))

	for i := 1; i <= 3; i++ {
		s.Tick(time.Second)
		if s.Score() != -i {
			t.Fatalf("expected score %d, got %d", -i, s.Score())
		}
		if s.Phase().Round != RoundPlaying {
			t.Fatalf("expected playing at score %d, got %s", s.Score(), s.Phase())
		}
	}
	rep := s.Tick(time.Second)
	if s.Score() != -4 {
		t.Fatalf("expected score -4, got %d", s.Score())
	}
	if s.Phase().Round != RoundGameOver {
		t.Fatalf("expected game over, got %s", s.Phase())
	}
	if rep.Finished == nil || rep.Finished.Outcome != model.OutcomeLost {
		t.Fatalf("expected lost summary, got %+v", rep.Finished)
	}
	want := []int{0, -1, -2, -3, -4}
	if len(rep.Finished.ScoreTrace) != len(want) {
		t.Fatalf("unexpected trace %v", rep.Finished.ScoreTrace)
	}
	for i := range want {
		if rep.Finished.ScoreTrace[i] != want[i] {
			t.Fatalf("unexpected trace %v", rep.Finished.ScoreTrace)
		}
	}
	if rep.Finished.Timeouts != 4 || rep.Finished.Spawned != 4 {
		t.Fatalf("unexpected counters: %+v", rep.Finished)
	}

	// Frozen after game over.
	s.Tick(10 * time.Second)
	if s.Score() != -4 {
		t.Fatalf("score changed after game over: %d", s.Score())
	}
}

func TestReachingUpperBoundWins(t *testing.T) {
	cfg := defaultConfig()
	cfg.SpawnPeriod = time.Second
	cfg.QuestionTTL = time.Minute
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	s.Tick(5 * time.Second)
	if got := len(s.Snapshot().Questions); got != 5 {
		t.Fatalf("expected 5 active questions, got %d", got)
	}
	typeAnswer(s, "2")
	rep := s.Tick(0)
	if len(rep.Matched) != 5 || s.Score() != 5 {
		t.Fatalf("expected every duplicate answered, matched %d score %d", len(rep.Matched), s.Score())
	}
	if s.Phase().Round != RoundGameOver {
		t.Fatalf("expected game over, got %s", s.Phase())
	}
	if rep.Finished == nil || rep.Finished.Outcome != model.OutcomeWon || rep.Finished.Correct != 5 {
		t.Fatalf("unexpected summary %+v", rep.Finished)
	}
}

func TestPauseFreezesRoundTimers(t *testing.T) {
	s := newPlayingSession(t, defaultConfig(), mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	s.Tick(5 * time.Second)
	before := s.Snapshot().Questions[0].Remaining

	s.Push(ActionEvent(ActionPause))
	s.Tick(0)
	if s.Phase().Round != RoundPaused {
		t.Fatalf("expected paused, got %s", s.Phase())
	}
	rep := s.Tick(time.Hour)
	if len(rep.Spawned) != 0 || len(rep.Expired) != 0 {
		t.Fatalf("paused tick changed the round: %+v", rep)
	}
	typeAnswer(s, "2")
	s.Tick(0)
	snap := s.Snapshot()
	if len(snap.Questions) != 1 || snap.Questions[0].Remaining != before {
		t.Fatalf("pause must freeze questions, got %+v", snap.Questions)
	}
	if snap.Score != 0 || snap.Input != "" {
		t.Fatalf("input must be ignored while paused: score %d input %q", snap.Score, snap.Input)
	}

	s.Push(ActionEvent(ActionResume))
	s.Tick(0)
	if s.Phase().Round != RoundPlaying {
		t.Fatalf("expected playing after resume, got %s", s.Phase())
	}
	rep = s.Tick(5 * time.Second)
	if len(rep.Spawned) != 1 {
		t.Fatalf("scheduler should resume, got %d spawns", len(rep.Spawned))
	}
}

func TestReturnToMenuClearsRound(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		cfg := defaultConfig()
		cfg.SpawnPeriod = time.Second
		cfg.QuestionTTL = time.Minute
		s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
		s.Tick(time.Duration(n) * time.Second)
		if n > 0 {
			typeAnswer(s, "2")
			s.Tick(0)
			s.Tick(time.Duration(n) * time.Second)
		}
		s.Push(ActionEvent(ActionPause))
		s.Tick(0)
		s.Push(ActionEvent(ActionReturnToMenu))
		rep := s.Tick(0)

		snap := s.Snapshot()
		if snap.Phase != (Phase{App: AppMainMenu, Round: RoundIdle}) {
			t.Fatalf("n=%d: expected main menu/idle, got %s", n, snap.Phase)
		}
		if len(snap.Questions) != 0 || snap.Score != 0 {
			t.Fatalf("n=%d: round not cleared: %d questions, score %d", n, len(snap.Questions), snap.Score)
		}
		if rep.Finished == nil || rep.Finished.Outcome != model.OutcomeAbandoned {
			t.Fatalf("n=%d: expected abandoned summary, got %+v", n, rep.Finished)
		}
	}
}

func TestRestartAfterGameOverStartsFreshRound(t *testing.T) {
	cfg := defaultConfig()
	cfg.SpawnPeriod = time.Second
	cfg.QuestionTTL = 4 * time.Second
	cfg.MinScore = -1
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))

	var first *model.RoundSummary
	for i := 0; i < 20 && s.Phase().Round == RoundPlaying; i++ {
		if rep := s.Tick(time.Second); rep.Finished != nil {
			first = rep.Finished
		}
	}
	if s.Phase().Round != RoundGameOver || first == nil {
		t.Fatalf("expected game over, got %s", s.Phase())
	}
	if len(s.Snapshot().Questions) == 0 {
		t.Fatalf("questions stay visible until restart")
	}

	s.Push(ActionEvent(ActionRestart))
	rep := s.Tick(0)
	snap := s.Snapshot()
	if snap.Phase != (Phase{App: AppInGame, Round: RoundPlaying}) {
		t.Fatalf("expected playing, got %s", snap.Phase)
	}
	if len(snap.Questions) != 0 || snap.Score != 0 {
		t.Fatalf("restart must clear the round: %d questions, score %d", len(snap.Questions), snap.Score)
	}
	if rep.Finished != nil {
		t.Fatalf("restart must not report the finished round twice")
	}

	s.Push(ActionEvent(ActionQuit))
	rep = s.Tick(0)
	if rep.Finished == nil || rep.Finished.ID == first.ID {
		t.Fatalf("expected a new round id, got %+v", rep.Finished)
	}
}

func TestIllegalActionsAreIgnored(t *testing.T) {
	s := newPlayingSession(t, defaultConfig(), mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	for _, a := range []Action{ActionStart, ActionResume, ActionRestart, ActionReturnToMenu} {
		s.Push(ActionEvent(a))
		if rep := s.Tick(0); rep.Transition != nil {
			t.Fatalf("%s should be ignored while playing, got %+v", a, rep.Transition)
		}
	}
}

func TestGameOverOverridesPauseInSameTick(t *testing.T) {
	cfg := defaultConfig()
	cfg.SpawnPeriod = time.Second
	cfg.QuestionTTL = time.Second
	cfg.MinScore = 0
	s := newPlayingSession(t, cfg, mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	s.Push(ActionEvent(ActionPause))
	s.Tick(time.Second)
	if s.Phase().Round != RoundGameOver {
		t.Fatalf("expected game over to win over pause, got %s", s.Phase())
	}
}

func TestQuitFromRoundResetsAndFlags(t *testing.T) {
	s := newPlayingSession(t, defaultConfig(), mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	s.Tick(5 * time.Second)
	s.Push(ActionEvent(ActionQuit))
	rep := s.Tick(0)
	snap := s.Snapshot()
	if !snap.Quit {
		t.Fatalf("expected quit flag")
	}
	if snap.Phase.App != AppMainMenu || snap.Phase.Round != RoundIdle || len(snap.Questions) != 0 {
		t.Fatalf("quit must leave the game cleanly: %+v", snap)
	}
	if rep.Finished == nil || rep.Finished.Outcome != model.OutcomeAbandoned || rep.Finished.Spawned != 1 {
		t.Fatalf("unexpected summary %+v", rep.Finished)
	}
}

func TestQuitWhileLoading(t *testing.T) {
	s, err := New(defaultConfig(), assets.Failed(errors.New("boom")), nil, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Push(ActionEvent(ActionQuit))
	rep := s.Tick(0)
	if !s.Snapshot().Quit || rep.Finished != nil || s.Phase().App != AppLoading {
		t.Fatalf("unexpected quit from loading: %+v", s.Snapshot())
	}
}

func TestStartRefusedWithoutBank(t *testing.T) {
	s, err := New(defaultConfig(), assets.Static(mustBank(t, model.Question{Prompt: "a", Answer: "b"})), nil, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Tick(0)
	s.bank = nil
	s.Push(ActionEvent(ActionStart))
	rep := s.Tick(0)
	if !errors.Is(rep.Err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", rep.Err)
	}
	if s.Phase().App != AppMainMenu {
		t.Fatalf("expected to stay in main menu, got %s", s.Phase())
	}
}

func TestSummaryTimestampsUseClock(t *testing.T) {
	s := newPlayingSession(t, defaultConfig(), mustBank(t, model.Question{Prompt: "1+1=?", Answer: "2"}))
	end := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return end }
	s.Tick(7 * time.Second)
	s.Push(ActionEvent(ActionPause))
	s.Tick(0)
	s.Push(ActionEvent(ActionReturnToMenu))
	rep := s.Tick(0)
	if rep.Finished == nil || !rep.Finished.EndedAt.Equal(end) {
		t.Fatalf("unexpected summary %+v", rep.Finished)
	}
	if rep.Finished.PlayTime != 7*time.Second {
		t.Fatalf("expected 7s play time, got %s", rep.Finished.PlayTime)
	}
}
