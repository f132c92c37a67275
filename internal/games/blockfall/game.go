// Package blockfall adapts the falling-block simulation in the core
// subpackage to the arcade platform: phases, input priority, gravity timing,
// rendering and snapshots.
package blockfall

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/config"
	platformcore "github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Phase is the adapter's lifecycle stage.
type Phase string

const (
	PhaseWelcome Phase = "welcome"
	PhasePlaying Phase = "playing"
	PhasePaused  Phase = "paused"
	PhaseOver    Phase = "game_over"
)

// Game implements registry.Game for one Blockfall variant.
type Game struct {
	variant string
	cfg     config.BlockfallConfig
	runtime platformcore.RuntimeConfig

	rng    *rand.Rand
	engine *core.Engine

	tick       uint64
	phase      Phase
	fallEvery  int
	fallTicker int
	changed    bool

	// Layout
	screenW   int
	screenH   int
	tooSmall  bool
	boardRect platformcore.Rect
}

var configPath string

// SetConfigPath sets the game file used by every variant on its next Reset.
// An empty path uses the default search order.
func SetConfigPath(path string) {
	configPath = path
}

func init() {
	registry.Register(config.VariantStandard, func() registry.Game {
		return New()
	})
	registry.Register(config.VariantClassic, func() registry.Game {
		return NewClassic()
	})
}

// New creates the standard variant, sized to fit a terminal.
func New() *Game {
	return &Game{variant: config.VariantStandard}
}

// NewClassic creates the 46x46 variant.
func NewClassic() *Game {
	return &Game{variant: config.VariantClassic}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.variant
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == config.VariantClassic {
		return "Blockfall (Classic)"
	}
	return "Blockfall"
}

// Description returns a one-line summary for listings.
func (g *Game) Description() string {
	if g.variant == config.VariantClassic {
		return "Eleven piece forms on the original 46x46 board"
	}
	return "Eleven piece forms on a 12x20 board; clear full rows to score"
}

// Reset loads the game file and starts a fresh game on the welcome screen.
// A game file that cannot be loaded falls back to the variant's defaults.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = platformcore.DefaultConfig().TickRate
	}
	g.runtime = cfg

	// Load returns usable defaults alongside any error.
	g.cfg, _ = config.Load(g.variant, configPath)
	g.newEngine(cfg.Seed)

	g.tick = 0
	g.phase = PhaseWelcome
	g.fallEvery = g.cfg.Timing.FallTicks(cfg.TickRate)
	g.fallTicker = 0
	g.changed = true

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

func (g *Game) newEngine(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
	grid := core.NewGrid(g.cfg.Grid.Columns, g.cfg.Grid.Rows)
	g.engine = core.NewEngine(grid, core.NewGenerator(g.rng))
}

// Resize recomputes the layout for a new terminal size without touching the
// simulation. A board that does not fit suspends play until it does.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	if g.engine == nil {
		return
	}

	w, h := g.requiredSize()
	g.tooSmall = width < w || height < h
	g.changed = true

	grid := g.engine.Grid()
	boardW := grid.Columns()*g.cellWidth() + 2
	boardH := grid.Rows() + 2
	g.boardRect = platformcore.NewRect((width-boardW)/2, hudHeight, boardW, boardH)
}

// requiredSize is the smallest screen the board, HUD and help line fit in.
func (g *Game) requiredSize() (int, int) {
	grid := g.engine.Grid()
	w := grid.Columns()*g.cellWidth() + 2
	h := hudHeight + grid.Rows() + 2
	if g.cfg.Display.ShowHelp {
		h += helpHeight
	}
	return max(w, minScreenW), h
}

func (g *Game) cellWidth() int {
	return platformcore.Clamp(g.cfg.Display.CellWidth, 1, 2)
}

// Step advances the game by one platform tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	if input.Has(platformcore.ActionRestart) && g.phase == PhaseOver {
		g.restart()
		return g.result()
	}

	if g.tooSmall {
		return g.result()
	}

	switch g.phase {
	case PhaseWelcome:
		if input.Has(platformcore.ActionConfirm) {
			g.phase = PhasePlaying
			g.changed = true
		}

	case PhasePaused:
		if pauseToggled(input) {
			g.phase = PhasePlaying
			g.changed = true
		}

	case PhasePlaying:
		switch {
		case pauseToggled(input):
			g.phase = PhasePaused
			g.changed = true
			return g.result()
		case input.Has(platformcore.ActionBack):
			g.phase = PhaseOver
			g.changed = true
			return g.result()
		}

		g.applyInput(input)
		if g.phase != PhasePlaying {
			return g.result()
		}

		g.fallTicker++
		if g.fallTicker >= g.fallEvery {
			g.fallTicker = 0
			g.observe(g.engine.Tick())
		}
	}

	return g.result()
}

// applyInput applies at most one player action: rotation wins over a
// sideways move, which wins over a soft drop.
func (g *Game) applyInput(input platformcore.InputFrame) {
	switch {
	case input.Has(platformcore.ActionRotateRight):
		g.observe(g.engine.Apply(core.RotateRight))
	case input.Has(platformcore.ActionRotateLeft):
		g.observe(g.engine.Apply(core.RotateLeft))
	case input.Has(platformcore.ActionLeft):
		g.observe(g.engine.Apply(core.MoveLeft))
	case input.Has(platformcore.ActionRight):
		g.observe(g.engine.Apply(core.MoveRight))
	case input.Has(platformcore.ActionDown):
		for range max(g.cfg.Timing.SoftDropRepeat, 1) {
			res := g.engine.Apply(core.SoftDrop)
			g.observe(res)
			if res.Landed || res.GameOver {
				break
			}
		}
	}
}

// pauseToggled reports a pause request. Space starts the game and then
// doubles as the pause key.
func pauseToggled(input platformcore.InputFrame) bool {
	return input.Has(platformcore.ActionPause) || input.Has(platformcore.ActionConfirm)
}

func (g *Game) observe(res core.Result) {
	g.changed = true
	if res.GameOver {
		g.phase = PhaseOver
	}
}

// restart begins a new game on a fresh seed drawn from the current one,
// so a replayed session restarts identically.
func (g *Game) restart() {
	cfg := g.runtime
	cfg.Seed = g.rng.Int63()
	g.Reset(cfg)
	g.phase = PhasePlaying
}

// result reports the tick and clears the change flag, so changes made
// between steps by Reset or Resize are reported by the next one.
func (g *Game) result() platformcore.StepResult {
	res := platformcore.StepResult{State: g.State(), Changed: g.changed}
	g.changed = false
	return res
}

// State returns the current game state. The score is the number of rows
// cleared.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.engine.Grid().Score(),
		GameOver: g.phase == PhaseOver,
		Paused:   g.phase == PhasePaused || g.tooSmall,
	}
}

// Phase returns the current lifecycle stage.
func (g *Game) Phase() Phase {
	return g.phase
}

// Engine exposes the simulation, mainly for tests.
func (g *Game) Engine() *core.Engine {
	return g.engine
}
