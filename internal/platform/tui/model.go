package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Publisher receives read-only game state for spectators.
// *spectate.Hub implements it.
type Publisher interface {
	Publish(source string, v any) error
	Retire(source string)
}

// Options are the collaborators of a running game. Every field is optional.
type Options struct {
	Store      *storage.Store
	Logger     *log.Logger
	Spectators Publisher

	// Source names this game on the spectator stream. Defaults to the
	// player name.
	Source string

	// InSession makes Esc after game over return to the menu instead of
	// quitting.
	InSession bool
}

func (o Options) withDefaults(cfg core.RuntimeConfig) Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Source == "" {
		o.Source = cfg.Player
	}
	return o
}

// GameModel is the Bubble Tea model that runs one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	keys       KeyMap
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the score of the current game over was saved
}

// NewGameModel creates a model for game.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts Options) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Player == "" {
		cfg.Player = core.DefaultConfig().Player
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts.withDefaults(cfg),
		config:     cfg,
		keys:       DefaultKeyMap(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)

	switch {
	case action == core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case m.gameState.GameOver && action == core.ActionBack:
		if m.opts.InSession {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize follows the terminal size. Games that cannot relayout are
// restarted unless they are already over.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if result.Changed {
		m.publish()
	}

	switch {
	case !m.gameState.GameOver:
		m.scoreSaved = false
	case !m.scoreSaved:
		m.saveScore()
		m.scoreSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScore records a finished game. Failures are logged and play goes on.
func (m GameModel) saveScore() {
	if m.opts.Store == nil || m.gameState.Score <= 0 {
		return
	}
	if _, err := m.opts.Store.SaveScore(m.game.ID(), m.config.Player, m.gameState.Score); err != nil {
		m.opts.Logger.Warn("could not save score", "game", m.game.ID(), "player", m.config.Player, "error", err)
		return
	}
	m.opts.Logger.Info("score saved", "game", m.game.ID(), "player", m.config.Player, "score", m.gameState.Score)
}

// publish sends the game's spectator view, if it has one.
func (m GameModel) publish() {
	if m.opts.Spectators == nil {
		return
	}
	s, ok := m.game.(registry.Snapshotter)
	if !ok {
		return
	}
	if err := m.opts.Spectators.Publish(m.opts.Source, s.SpectatorSnapshot()); err != nil {
		m.opts.Logger.Warn("could not publish snapshot", "source", m.opts.Source, "error", err)
	}
}

// saveScreenshot writes the current screen as plain text under
// ~/.arcade/screenshots.
func (m GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.opts.Logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player asked to leave the program.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the current terminal until the player quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewGameModel(game, cfg, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()

	if model.opts.Spectators != nil {
		model.opts.Spectators.Retire(model.opts.Source)
	}
	return err
}
