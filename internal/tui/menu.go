package tui

import (
	"strings"

	"github.com/verte-zerg/tuxquiz/internal/session"
)

type menuItem struct {
	label  string
	action session.Action
}

var (
	mainMenu     = []menuItem{{"Start", session.ActionStart}, {"Quit", session.ActionQuit}}
	pausedMenu   = []menuItem{{"Resume", session.ActionResume}, {"Main menu", session.ActionReturnToMenu}}
	gameOverMenu = []menuItem{{"Restart", session.ActionRestart}, {"Quit", session.ActionQuit}}
)

func menuFor(p session.Phase) []menuItem {
	switch {
	case p.App == session.AppMainMenu:
		return mainMenu
	case p.App == session.AppInGame && p.Round == session.RoundPaused:
		return pausedMenu
	case p.App == session.AppInGame && p.Round == session.RoundGameOver:
		return gameOverMenu
	default:
		return nil
	}
}

func renderMenu(items []menuItem, cursor int) string {
	lines := make([]string, len(items))
	for i, item := range items {
		if i == cursor {
			lines[i] = selectedItemStyle.Render("> " + item.label)
			continue
		}
		lines[i] = menuItemStyle.Render("  " + item.label)
	}
	return strings.Join(lines, "\n")
}
