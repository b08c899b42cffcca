// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuxquiz/internal/model"
	"github.com/verte-zerg/tuxquiz/internal/session"
	"github.com/verte-zerg/tuxquiz/internal/stats"
)

// DefaultFrame is the frame clock interval.
const DefaultFrame = 100 * time.Millisecond

const historyRounds = 8

// Journal records finished rounds and lists them back for the menu.
type Journal interface {
	InsertRound(ctx context.Context, r model.RoundSummary) error
	ListRounds(ctx context.Context) ([]model.RoundSummary, error)
}

type frameMsg time.Time

// Model implements the Bubble Tea quiz UI. It owns no game state; every
// frame it forwards elapsed time to the session and renders its snapshot.
type Model struct {
	sess    *session.Session
	journal Journal
	logger  *slog.Logger
	frame   time.Duration

	width  int
	height int

	lastFrame time.Time
	cursor    int
	notice    string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	bar     progress.Model
	history table.Model
	report  stats.Report
}

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	selectedItemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	promptStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	urgentStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	inputStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	modalStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

// NewModel constructs the quiz UI around a session. A nil logger discards and
// a non-positive frame uses DefaultFrame.
func NewModel(sess *session.Session, journal Journal, frame time.Duration, logger *slog.Logger) *Model {
	if frame <= 0 {
		frame = DefaultFrame
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Model{
		sess:    sess,
		journal: journal,
		logger:  logger,
		frame:   frame,
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(titleStyle)),
		bar:     newCountdownBar(),
		history: newHistoryTable(),
	}
	m.refreshHistory()
	return m
}

func newHistoryTable() table.Model {
	widths := []int{3, 10, 6, 8, 9, 5, 7, stats.TraceWidth}
	columns := make([]table.Column, len(stats.HistoryHeaders))
	for i, h := range stats.HistoryHeaders {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(historyRounds+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Bold(false)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return t
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.nextFrame(), m.spinner.Tick)
}

func (m *Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case frameMsg:
		return m, m.onFrame(time.Time(msg))
	case spinner.TickMsg:
		snap := m.sess.Snapshot()
		if snap.Phase.App != session.AppLoading || snap.LoadErr != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		m.handleKey(msg)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) onFrame(now time.Time) tea.Cmd {
	var elapsed time.Duration
	if !m.lastFrame.IsZero() {
		elapsed = now.Sub(m.lastFrame)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	m.lastFrame = now

	rep := m.sess.Tick(elapsed)
	m.handleReport(rep)
	if m.sess.Snapshot().Quit {
		return tea.Quit
	}
	return m.nextFrame()
}

func (m *Model) handleReport(rep session.Report) {
	if rep.Transition != nil {
		m.cursor = 0
		m.notice = ""
	}
	if rep.Err != nil {
		m.notice = rep.Err.Error()
	}
	if rep.Finished != nil {
		m.recordRound(*rep.Finished)
	}
}

func (m *Model) recordRound(r model.RoundSummary) {
	m.logger.Info("round finished",
		"id", r.ID,
		"outcome", string(r.Outcome),
		"score", r.FinalScore,
		"correct", r.Correct,
		"timeouts", r.Timeouts,
		"play_time", r.PlayTime,
	)
	if m.journal == nil {
		return
	}
	if err := m.journal.InsertRound(context.Background(), r); err != nil {
		m.logger.Error("failed to save round", "err", err)
		return
	}
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	if m.journal == nil {
		return
	}
	report, err := stats.BuildReport(context.Background(), m.journal, historyRounds)
	if err != nil {
		m.logger.Error("failed to load round history", "err", err)
		return
	}
	m.report = report
	rows := stats.HistoryRows(report.Rounds)
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}
	m.history.SetRows(tableRows)
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	if key.Matches(msg, m.keys.Quit) {
		m.sess.Push(session.ActionEvent(session.ActionQuit))
		return
	}
	snap := m.sess.Snapshot()
	switch {
	case snap.Phase.App == session.AppLoading:
		if snap.LoadErr != nil && key.Matches(msg, m.keys.Close) {
			m.sess.Push(session.ActionEvent(session.ActionQuit))
		}
	case snap.Phase.Round == session.RoundPlaying:
		m.handlePlayingKey(msg)
	default:
		m.handleMenuKey(msg, snap.Phase)
	}
}

func (m *Model) handlePlayingKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.sess.Push(session.SubmitEvent())
	case key.Matches(msg, m.keys.Pause):
		m.sess.Push(session.ActionEvent(session.ActionPause))
	case msg.Type == tea.KeySpace:
		m.sess.Push(session.CharEvent(' '))
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.sess.Push(session.CharEvent(r))
		}
	}
}

func (m *Model) handleMenuKey(msg tea.KeyMsg, phase session.Phase) {
	items := menuFor(phase)
	if len(items) == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor + len(items) - 1) % len(items)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(items)
	case key.Matches(msg, m.keys.Select):
		if m.cursor >= len(items) {
			m.cursor = 0
		}
		m.sess.Push(session.ActionEvent(items[m.cursor].action))
	case phase.Round == session.RoundPaused && key.Matches(msg, m.keys.Resume):
		m.sess.Push(session.ActionEvent(session.ActionResume))
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.sess.Snapshot()
	var content string
	switch {
	case snap.Phase.App == session.AppLoading:
		content = m.renderLoading(snap)
	case snap.Phase.App == session.AppMainMenu:
		content = m.renderMainMenu(snap)
	case snap.Phase.Round == session.RoundPlaying:
		content = m.renderPlaying(snap)
	case snap.Phase.Round == session.RoundPaused:
		content = modalStyle.Render(titleStyle.Render("Paused") + "\n\n" + renderMenu(pausedMenu, m.cursor))
	default:
		content = m.renderGameOver(snap)
	}
	if m.notice != "" {
		content += "\n\n" + errorStyle.Render(m.notice)
	}
	footer := m.help.ShortHelpView(m.keys.bindingsFor(snap))
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderLoading(snap session.Snapshot) string {
	if snap.LoadErr != nil {
		return modalStyle.Render(errorStyle.Render("Could not load the question bank") + "\n\n" + snap.LoadErr.Error())
	}
	return m.spinner.View() + " Loading question bank"
}

func (m *Model) renderMainMenu(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(snap.Banner))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d questions", snap.BankSize)))
	b.WriteString("\n\n")
	b.WriteString(renderMenu(mainMenu, m.cursor))
	b.WriteString("\n\n")
	if len(m.report.Rounds) == 0 {
		b.WriteString(mutedStyle.Render("No rounds played yet."))
		return b.String()
	}
	b.WriteString(m.history.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.renderSummary()))
	return b.String()
}

func (m *Model) renderSummary() string {
	sum := m.report.Summary
	segments := []string{
		fmt.Sprintf("Rounds %d", sum.Rounds),
		fmt.Sprintf("Won %d", sum.Won),
		fmt.Sprintf("Best %d", sum.BestScore),
		fmt.Sprintf("Accuracy %.1f%%", sum.Accuracy()*100),
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderPlaying(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.renderStatus(snap))
	b.WriteString("\n\n")
	b.WriteString(renderLanes(snap.Questions, m.bar))
	b.WriteString("\n\n> ")
	b.WriteString(inputStyle.Render(snap.Input + " "))
	return b.String()
}

func (m *Model) renderStatus(snap session.Snapshot) string {
	segments := []string{
		fmt.Sprintf("Score %d", snap.Score),
		fmt.Sprintf("Range %d..%d", snap.Bounds.Min, snap.Bounds.Max),
		fmt.Sprintf("Next in %.1fs", snap.NextSpawn.Seconds()),
		stats.TraceSparkline(m.sess.ScoreTrace(), stats.TraceWidth),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderGameOver(snap session.Snapshot) string {
	title := "Game over"
	if snap.Score > snap.Bounds.Max {
		title = "You won!"
	}
	body := titleStyle.Render(title) + "\n" +
		fmt.Sprintf("Final score %d", snap.Score) + "\n\n" +
		renderMenu(gameOverMenu, m.cursor)
	return modalStyle.Render(body)
}
