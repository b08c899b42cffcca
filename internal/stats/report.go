package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

// TraceWidth caps the score sparkline in history rows.
const TraceWidth = 24

// RoundLister is the read side of the round journal.
type RoundLister interface {
	ListRounds(ctx context.Context) ([]model.RoundSummary, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Rounds  []model.RoundSummary
	Summary Summary
}

// BuildReport loads the journal, keeping the last n rounds when n > 0.
func BuildReport(ctx context.Context, st RoundLister, last int) (Report, error) {
	rounds, err := st.ListRounds(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list rounds: %w", err)
	}
	if last > 0 && len(rounds) > last {
		rounds = rounds[len(rounds)-last:]
	}
	return Report{Rounds: rounds, Summary: Summarize(rounds)}, nil
}

// HistoryHeaders names the HistoryRows columns.
var HistoryHeaders = []string{"#", "Outcome", "Score", "Correct", "Timeouts", "Acc", "Time", "Trace"}

// HistoryRows formats one row per round, numbered from 1.
func HistoryRows(rounds []model.RoundSummary) [][]string {
	rows := make([][]string, 0, len(rounds))
	for i, r := range rounds {
		_, acc := RoundMetrics(r.Correct, r.Timeouts, r.PlayTime)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(r.Outcome),
			fmt.Sprintf("%d", r.FinalScore),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Timeouts),
			fmt.Sprintf("%.0f%%", acc*100),
			r.PlayTime.Round(time.Second).String(),
			TraceSparkline(r.ScoreTrace, TraceWidth),
		})
	}
	return rows
}

// RenderHistory prints the summary followed by the per-round table.
func RenderHistory(w io.Writer, rounds []model.RoundSummary) error {
	if err := RenderSummary(w, rounds); err != nil {
		return err
	}
	if len(rounds) == 0 {
		return nil
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(HistoryHeaders, HistoryRows(rounds), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
