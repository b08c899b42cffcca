package session

import "fmt"

// AppPhase is the top-level application state.
type AppPhase int

const (
	AppLoading AppPhase = iota
	AppMainMenu
	AppInGame
)

func (p AppPhase) String() string {
	switch p {
	case AppLoading:
		return "loading"
	case AppMainMenu:
		return "main-menu"
	case AppInGame:
		return "in-game"
	default:
		return fmt.Sprintf("AppPhase(%d)", int(p))
	}
}

// RoundPhase is the state of the current round. It is RoundIdle whenever
// the application is not AppInGame.
type RoundPhase int

const (
	RoundIdle RoundPhase = iota
	RoundPlaying
	RoundPaused
	RoundGameOver
)

func (p RoundPhase) String() string {
	switch p {
	case RoundIdle:
		return "idle"
	case RoundPlaying:
		return "playing"
	case RoundPaused:
		return "paused"
	case RoundGameOver:
		return "game-over"
	default:
		return fmt.Sprintf("RoundPhase(%d)", int(p))
	}
}

// Phase is the composite state.
type Phase struct {
	App   AppPhase
	Round RoundPhase
}

func (p Phase) String() string {
	if p.App != AppInGame {
		return p.App.String()
	}
	return p.App.String() + "/" + p.Round.String()
}

// Action is a discrete menu or control event.
type Action int

const (
	ActionStart Action = iota
	ActionPause
	ActionResume
	ActionReturnToMenu
	ActionRestart
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	case ActionReturnToMenu:
		return "return-to-menu"
	case ActionRestart:
		return "restart"
	case ActionQuit:
		return "quit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// transitions maps each action to the phase it is legal in and the phase
// it leads to. Quit is handled separately since it is legal everywhere.
var transitions = map[Action]struct{ from, to Phase }{
	ActionStart:        {Phase{AppMainMenu, RoundIdle}, Phase{AppInGame, RoundPlaying}},
	ActionPause:        {Phase{AppInGame, RoundPlaying}, Phase{AppInGame, RoundPaused}},
	ActionResume:       {Phase{AppInGame, RoundPaused}, Phase{AppInGame, RoundPlaying}},
	ActionReturnToMenu: {Phase{AppInGame, RoundPaused}, Phase{AppMainMenu, RoundIdle}},
	ActionRestart:      {Phase{AppInGame, RoundGameOver}, Phase{AppInGame, RoundPlaying}},
}

// Target returns the phase an action leads to from cur, or false when the
// action is not legal in cur.
func Target(cur Phase, a Action) (Phase, bool) {
	t, ok := transitions[a]
	if !ok || t.from != cur {
		return Phase{}, false
	}
	return t.to, true
}
