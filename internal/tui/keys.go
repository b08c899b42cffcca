package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/tuxquiz/internal/session"
)

type keyMap struct {
	Submit key.Binding
	Pause  key.Binding
	Resume key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
	Close  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
		Pause:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "pause")),
		Resume: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "resume")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Close:  key.NewBinding(key.WithKeys("q", "esc", "enter"), key.WithHelp("q", "quit")),
	}
}

// bindingsFor returns the keys shown in the help line for a phase.
func (k keyMap) bindingsFor(snap session.Snapshot) []key.Binding {
	switch {
	case snap.Phase.App == session.AppLoading:
		if snap.LoadErr != nil {
			return []key.Binding{k.Close}
		}
		return []key.Binding{k.Quit}
	case snap.Phase.Round == session.RoundPlaying:
		return []key.Binding{k.Submit, k.Pause, k.Quit}
	case snap.Phase.Round == session.RoundPaused:
		return []key.Binding{k.Up, k.Down, k.Select, k.Resume, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
	}
}
