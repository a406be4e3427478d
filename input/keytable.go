package input

import "github.com/gdamore/tcell/v2"

// Action is the semantic meaning of a key press
type Action uint8

const (
	ActionNone Action = iota
	ActionLeftPaddle
	ActionRightPaddle
	ActionLaunch
	ActionPause
	ActionMute
	ActionNewGame
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionLeftPaddle:  "left_paddle",
	ActionRightPaddle: "right_paddle",
	ActionLaunch:      "launch",
	ActionPause:       "pause",
	ActionMute:        "mute",
	ActionNewGame:     "new_game",
	ActionQuit:        "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsGameplay reports whether the action drives the table rather than the application
func (a Action) IsGameplay() bool {
	return a == ActionLeftPaddle || a == ActionRightPaddle || a == ActionLaunch
}

// KeyTable maps keys to actions
type KeyTable struct {
	// Special keys (arrows, Ctrl+*, Esc)
	SpecialKeys map[tcell.Key]Action

	// Printable bindings, matched case-insensitively for letters
	Runes map[rune]Action
}

// DefaultKeyTable returns the default bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]Action{
			tcell.KeyLeft:   ActionLeftPaddle,
			tcell.KeyRight:  ActionRightPaddle,
			tcell.KeyDown:   ActionLaunch,
			tcell.KeyEscape: ActionQuit,
			tcell.KeyCtrlC:  ActionQuit,
			tcell.KeyCtrlQ:  ActionQuit,
		},
		Runes: map[rune]Action{
			'z': ActionLeftPaddle,
			'a': ActionLeftPaddle,
			'/': ActionRightPaddle,
			'l': ActionRightPaddle,
			' ': ActionLaunch,
			'p': ActionPause,
			's': ActionMute,
			'n': ActionNewGame,
			'q': ActionQuit,
		},
	}
}

// Lookup resolves a key event to its action
func (kt *KeyTable) Lookup(ev *tcell.EventKey) Action {
	if ev == nil {
		return ActionNone
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return kt.Runes[r]
	}
	return kt.SpecialKeys[ev.Key()]
}
