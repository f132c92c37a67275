package core

// Action is a player command understood by the engine.
type Action uint8

const (
	MoveLeft Action = iota
	MoveRight
	SoftDrop
	RotateLeft
	RotateRight
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case MoveLeft:
		return "move-left"
	case MoveRight:
		return "move-right"
	case SoftDrop:
		return "soft-drop"
	case RotateLeft:
		return "rotate-left"
	case RotateRight:
		return "rotate-right"
	default:
		return "unknown"
	}
}

// State is the engine's phase.
type State uint8

const (
	NoPiece State = iota
	Falling
	Over
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case NoPiece:
		return "no-piece"
	case Falling:
		return "falling"
	case Over:
		return "game-over"
	default:
		return "unknown"
	}
}

// Result reports what a single Tick or Apply did.
type Result struct {
	Landed   bool // the falling piece was merged into the cells
	Cleared  int  // rows cleared by the landing
	Spawned  bool // a new piece was attached
	GameOver bool
	Score    int
}

// Engine drives per-tick and per-input transitions over a Grid.
// Calls must be serialized by the caller.
type Engine struct {
	grid    *Grid
	gen     *Generator
	spawned int
}

// NewEngine wires grid and gen together. No piece is spawned until the
// first Tick or Apply.
func NewEngine(grid *Grid, gen *Generator) *Engine {
	return &Engine{grid: grid, gen: gen}
}

// Grid returns the grid the engine drives.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Spawned returns the number of pieces attached so far.
func (e *Engine) Spawned() int {
	return e.spawned
}

// State returns the current phase.
func (e *Engine) State() State {
	switch {
	case e.grid.GameOver():
		return Over
	case e.grid.HasPiece():
		return Falling
	default:
		return NoPiece
	}
}

// Tick advances gravity by one row, landing the piece when it cannot fall.
// After game over it does nothing.
func (e *Engine) Tick() Result {
	var res Result
	if e.grid.GameOver() {
		return e.finish(res)
	}

	res.Spawned = e.ensurePiece()
	if e.grid.SpaceDown() {
		e.grid.TranslateDown()
	} else if !e.grid.GameOver() {
		e.land(&res)
	}
	return e.finish(res)
}

// Apply performs a player action. A denied move is a no-op, but the vertical
// landing check always runs afterwards, exactly as after a tick.
// After game over it does nothing.
func (e *Engine) Apply(a Action) Result {
	var res Result
	if e.grid.GameOver() {
		return e.finish(res)
	}

	res.Spawned = e.ensurePiece()

	switch a {
	case MoveLeft:
		if e.grid.SpaceLeft() {
			e.grid.TranslateLeft()
		}
	case MoveRight:
		if e.grid.SpaceRight() {
			e.grid.TranslateRight()
		}
	case SoftDrop:
		if e.grid.SpaceDown() {
			e.grid.TranslateDown()
		}
	case RotateLeft:
		if e.grid.CanRotate(Counterclockwise) {
			e.grid.Rotate(Counterclockwise)
		}
	case RotateRight:
		if e.grid.CanRotate(Clockwise) {
			e.grid.Rotate(Clockwise)
		}
	}

	// SpaceDown may itself latch game over, so test it second.
	if !e.grid.SpaceDown() && !e.grid.GameOver() {
		e.land(&res)
	}
	return e.finish(res)
}

func (e *Engine) land(res *Result) {
	res.Cleared = e.grid.LandAndSweep()
	res.Landed = true
}

// finish spawns the next piece if the last one landed and fills in the
// terminal fields.
func (e *Engine) finish(res Result) Result {
	if !e.grid.GameOver() && e.ensurePiece() {
		res.Spawned = true
	}
	res.GameOver = e.grid.GameOver()
	res.Score = e.grid.Score()
	return res
}

// ensurePiece attaches a fresh piece when none is falling and the game is
// still running. It reports whether it attached one.
func (e *Engine) ensurePiece() bool {
	if e.grid.HasPiece() || e.grid.GameOver() {
		return false
	}
	e.grid.Attach(e.gen.Generate(e.grid.MaxX() - (TemplateSize - 1)))
	e.spawned++
	return true
}
