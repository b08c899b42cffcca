// Package stats contains round statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RoundMetrics computes answers per minute and accuracy for a round.
// Accuracy is correct answers over resolved questions (answered or expired).
func RoundMetrics(correct, timeouts int, playTime time.Duration) (apm, accuracy float64) {
	den := float64(correct + timeouts)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	minutes := playTime.Minutes()
	if minutes <= 0 {
		return 0, accuracy
	}
	apm = float64(correct) / minutes
	return apm, accuracy
}

// Summary aggregates every round of the run.
type Summary struct {
	Rounds    int
	Won       int
	Lost      int
	Abandoned int
	BestScore int
	Correct   int
	Timeouts  int
	PlayTime  time.Duration
}

// Accuracy returns the overall share of resolved questions answered in time.
func (s Summary) Accuracy() float64 {
	_, acc := RoundMetrics(s.Correct, s.Timeouts, s.PlayTime)
	return acc
}

// Summarize folds rounds into a Summary.
func Summarize(rounds []model.RoundSummary) Summary {
	var sum Summary
	for i, r := range rounds {
		sum.Rounds++
		switch r.Outcome {
		case model.OutcomeWon:
			sum.Won++
		case model.OutcomeLost:
			sum.Lost++
		default:
			sum.Abandoned++
		}
		if i == 0 || r.FinalScore > sum.BestScore {
			sum.BestScore = r.FinalScore
		}
		sum.Correct += r.Correct
		sum.Timeouts += r.Timeouts
		sum.PlayTime += r.PlayTime
	}
	return sum
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TraceSparkline renders a score trace, keeping only the last width points.
func TraceSparkline(trace []int, width int) string {
	if width > 0 && len(trace) > width {
		trace = trace[len(trace)-width:]
	}
	values := make([]float64, len(trace))
	for i, v := range trace {
		values[i] = float64(v)
	}
	return Sparkline(values)
}

// RenderSummary prints a summary block for the run.
func RenderSummary(w io.Writer, rounds []model.RoundSummary) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds played.")
		return err
	}
	sum := Summarize(rounds)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rounds: %d (won %d, lost %d, abandoned %d)\n", sum.Rounds, sum.Won, sum.Lost, sum.Abandoned); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best score: %d\n", sum.BestScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %.2f%%\n", sum.Accuracy()*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Play time: %s\n", sum.PlayTime.Round(time.Second)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
