package input

import (
	"github.com/gdamore/tcell/v2"
)

type UiAction int

const (
	Unknown UiAction = iota
	Up
	Down
	Left
	Right
	Launch
	Up2
	Down2
	Quit

	numActions
)

func (a UiAction) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Launch:
		return "launch"
	case Up2:
		return "up2"
	case Down2:
		return "down2"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// ProcessInput maps a typed character to an action, ignoring case.
func ProcessInput(rawInput rune) UiAction {
	if rawInput >= 'a' && rawInput <= 'z' {
		rawInput -= 'a' - 'A'
	}

	switch rawInput {
	case 'Q':
		return Quit
	case 'W':
		return Up2
	case 'S':
		return Down2
	case ' ':
		return Launch
	}
	return Unknown
}

// ProcessKey maps a terminal key event to an action.
func ProcessKey(ev *tcell.EventKey) UiAction {
	switch ev.Key() {
	case tcell.KeyUp:
		return Up
	case tcell.KeyDown:
		return Down
	case tcell.KeyLeft:
		return Left
	case tcell.KeyRight:
		return Right
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Quit
	case tcell.KeyRune:
		return ProcessInput(ev.Rune())
	}
	return Unknown
}
