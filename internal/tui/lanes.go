package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuxquiz/internal/session"
)

const (
	promptWidth = 16
	barWidth    = 24
	urgentShare = 0.25
)

func newCountdownBar() progress.Model {
	return progress.New(
		progress.WithSolidFill("#C89A3A"),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth),
	)
}

// remainingShare is the fraction of the time-to-live left, in [0, 1].
func remainingShare(q session.ActiveQuestion) float64 {
	if q.TTL <= 0 {
		return 0
	}
	share := float64(q.Remaining) / float64(q.TTL)
	if share < 0 {
		return 0
	}
	if share > 1 {
		return 1
	}
	return share
}

func fitPrompt(prompt string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(prompt, width, "…"), width)
}

func renderQuestion(q session.ActiveQuestion, bar progress.Model) string {
	share := remainingShare(q)
	style := promptStyle
	if share < urgentShare {
		style = urgentStyle
	}
	remaining := q.Remaining.Round(100 * time.Millisecond).Seconds()
	return fmt.Sprintf("%s %s %5.1fs", style.Render(fitPrompt(q.Prompt, promptWidth)), bar.ViewAs(share), remaining)
}

func renderLanes(questions []session.ActiveQuestion, bar progress.Model) string {
	if len(questions) == 0 {
		return mutedStyle.Render("waiting for the next question")
	}
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = renderQuestion(q, bar)
	}
	return strings.Join(lines, "\n")
}
