package core

// Action is a semantic player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionLeft               // Left arrow, A - shift the piece left
	ActionRight              // Right arrow, D - shift the piece right
	ActionDown               // Down arrow, S - soft drop
	ActionRotateRight        // Up arrow, X - rotate clockwise
	ActionRotateLeft         // Z - rotate counterclockwise
	ActionConfirm            // Space, Enter - start the game, then pause/unpause
	ActionPause              // P - pause/unpause
	ActionBack               // Esc - end the current game
	ActionRestart            // R - new game after game over
	ActionQuit               // Q, Ctrl+C - leave the program
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDown:
		return "Down"
	case ActionRotateRight:
		return "RotateRight"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	c := NewInputFrame()
	for k, v := range f.Actions {
		c.Actions[k] = v
	}
	return c
}
