package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

func TestRoundMetrics(t *testing.T) {
	apm, acc := RoundMetrics(6, 2, 2*time.Minute)
	if apm != 3 {
		t.Fatalf("expected 3 answers/min, got %f", apm)
	}
	if acc != 0.75 {
		t.Fatalf("expected accuracy 0.75, got %f", acc)
	}
	if apm, acc := RoundMetrics(0, 0, 0); apm != 0 || acc != 0 {
		t.Fatalf("expected zero metrics, got %f %f", apm, acc)
	}
}

func TestSummarize(t *testing.T) {
	rounds := []model.RoundSummary{
		{Outcome: model.OutcomeLost, FinalScore: -4, Timeouts: 3, PlayTime: 30 * time.Second},
		{Outcome: model.OutcomeWon, FinalScore: 5, Correct: 5, Timeouts: 1, PlayTime: time.Minute},
		{Outcome: model.OutcomeAbandoned, FinalScore: 1, Correct: 1},
	}
	sum := Summarize(rounds)
	if sum.Rounds != 3 || sum.Won != 1 || sum.Lost != 1 || sum.Abandoned != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.BestScore != 5 {
		t.Fatalf("expected best score 5, got %d", sum.BestScore)
	}
	if sum.Accuracy() != 0.6 {
		t.Fatalf("expected accuracy 0.6, got %f", sum.Accuracy())
	}
	if sum.PlayTime != 90*time.Second {
		t.Fatalf("unexpected play time %s", sum.PlayTime)
	}
}

func TestSummarizeNegativeBest(t *testing.T) {
	sum := Summarize([]model.RoundSummary{{FinalScore: -4}, {FinalScore: -2}})
	if sum.BestScore != -2 {
		t.Fatalf("expected best score -2, got %d", sum.BestScore)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("flat series should use the middle glyph, got %q", got)
	}
}

func TestTraceSparklineKeepsTail(t *testing.T) {
	got := TraceSparkline([]int{9, 9, 0, 1, 2}, 3)
	if len(got) != 3 || got[0] != ' ' || got[2] != '@' {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No rounds played.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	rounds := []model.RoundSummary{{
		Outcome:    model.OutcomeWon,
		FinalScore: 5,
		Correct:    5,
		PlayTime:   42 * time.Second,
		ScoreTrace: []int{0, 1, 2, 3, 4, 5},
	}}
	if err := RenderHistory(&buf, rounds); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Rounds: 1 (won 1, lost 0, abandoned 0)", "Accuracy: 100.00%", "Outcome", "won", "42s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
