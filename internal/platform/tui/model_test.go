package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// stubGame records what the model feeds it and reports a scripted state.
type stubGame struct {
	resets  int
	inputs  [][]core.Action
	state   core.GameState
	changed bool
	resized [2]int
}

func (g *stubGame) ID() string { return "stub" }
func (g *stubGame) Title() string { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *stubGame) State() core.GameState { return g.state }
func (g *stubGame) SpectatorSnapshot() any { return map[string]int{"score": g.state.Score} }
func (g *stubGame) Resize(width, height int) { g.resized = [2]int{width, height} }
func (g *stubGame) Render(dst *core.Screen) { dst.Clear(); dst.DrawText(0, 0, "stub") }
func (g *stubGame) Description() string { return "A game that does nothing" }
func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	var actions []core.Action
	for a, on := range in.Actions {
		if on {
			actions = append(actions, a)
		}
	}
	g.inputs = append(g.inputs, actions)
	return core.StepResult{State: g.state, Changed: g.changed}
}

func init() {
	registry.Register("stub", func() registry.Game { return &stubGame{} })
}

type published struct {
	source string
	value  any
}

type fakePublisher struct {
	frames  []published
	retired []string
	err     error
}

func (p *fakePublisher) Publish(source string, v any) error {
	p.frames = append(p.frames, published{source, v})
	return p.err
}

func (p *fakePublisher) Retire(source string) {
	p.retired = append(p.retired, source)
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 1, Player: "ann"}
}

func update(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T, expected GameModel", next)
	}
	return gm
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGameModelFeedsKeysToNextTick(t *testing.T) {
	game := &stubGame{}
	m := NewGameModel(game, testConfig(), Options{})
	m.Init()

	if game.resets != 1 {
		t.Errorf("resets after Init = %d, expected 1", game.resets)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	if len(game.inputs) != 2 {
		t.Fatalf("steps = %d, expected 2", len(game.inputs))
	}
	if len(game.inputs[0]) != 1 || game.inputs[0][0] != core.ActionLeft {
		t.Errorf("first tick input = %v, expected [Left]", game.inputs[0])
	}
	if len(game.inputs[1]) != 0 {
		t.Errorf("second tick input = %v, expected none", game.inputs[1])
	}
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&stubGame{}, testConfig(), Options{})
	next, cmd := m.Update(runeKey("q"))

	if !next.(GameModel).IsQuitting() {
		t.Error("IsQuitting() = false after q, expected true")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if v := next.(GameModel).View(); v != "" {
		t.Errorf("View() after quit = %q, expected empty", v)
	}
}

func TestGameModelEscAfterGameOver(t *testing.T) {
	t.Run("standalone quits", func(t *testing.T) {
		game := &stubGame{state: core.GameState{GameOver: true}}
		m := NewGameModel(game, testConfig(), Options{})
		m = update(t, m, TickMsg{})
		m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		if !m.IsQuitting() {
			t.Error("IsQuitting() = false, expected true")
		}
	})

	t.Run("session goes back to menu", func(t *testing.T) {
		game := &stubGame{state: core.GameState{GameOver: true}}
		m := NewGameModel(game, testConfig(), Options{InSession: true})
		m = update(t, m, TickMsg{})
		m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		if !m.BackToMenu() || m.IsQuitting() {
			t.Errorf("BackToMenu() = %v, IsQuitting() = %v, expected true, false", m.BackToMenu(), m.IsQuitting())
		}
	})

	t.Run("during play reaches the game", func(t *testing.T) {
		game := &stubGame{}
		m := NewGameModel(game, testConfig(), Options{InSession: true})
		m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		m = update(t, m, TickMsg{})

		if m.BackToMenu() {
			t.Error("BackToMenu() = true while playing, expected false")
		}
		if len(game.inputs[0]) != 1 || game.inputs[0][0] != core.ActionBack {
			t.Errorf("tick input = %v, expected [Back]", game.inputs[0])
		}
	})
}

func TestGameModelSavesScoreOnce(t *testing.T) {
	store := openStore(t)
	game := &stubGame{}
	m := NewGameModel(game, testConfig(), Options{Store: store})

	m = update(t, m, TickMsg{})
	game.state = core.GameState{Score: 7, GameOver: true}
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, expected 1", len(scores))
	}
	if scores[0].Score != 7 || scores[0].Player != "ann" {
		t.Errorf("saved %d for %q, expected 7 for %q", scores[0].Score, scores[0].Player, "ann")
	}

	// A restarted game that ends again is a new entry.
	game.state = core.GameState{Score: 3}
	m = update(t, m, TickMsg{})
	game.state = core.GameState{Score: 3, GameOver: true}
	update(t, m, TickMsg{})

	if n, _ := store.TopScores("stub", 10); len(n) != 2 {
		t.Errorf("len(scores) after second game = %d, expected 2", len(n))
	}
}

func TestGameModelSkipsZeroScore(t *testing.T) {
	store := openStore(t)
	game := &stubGame{state: core.GameState{GameOver: true}}
	m := NewGameModel(game, testConfig(), Options{Store: store})
	update(t, m, TickMsg{})

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("len(scores) = %d, expected 0", len(scores))
	}
}

func TestGameModelPublishesChanges(t *testing.T) {
	pub := &fakePublisher{}
	game := &stubGame{}
	m := NewGameModel(game, testConfig(), Options{Spectators: pub})

	m = update(t, m, TickMsg{})
	if len(pub.frames) != 0 {
		t.Errorf("frames after unchanged tick = %d, expected 0", len(pub.frames))
	}

	game.changed = true
	m = update(t, m, TickMsg{})
	if len(pub.frames) != 1 {
		t.Fatalf("frames after changed tick = %d, expected 1", len(pub.frames))
	}
	if pub.frames[0].source != "ann" {
		t.Errorf("source = %q, expected the player name", pub.frames[0].source)
	}

	// Publish failures are logged, not fatal.
	pub.err = errors.New("boom")
	m = update(t, m, TickMsg{})
	if m.IsQuitting() {
		t.Error("a failed publish stopped the game")
	}
}

func TestGameModelSourceOverride(t *testing.T) {
	pub := &fakePublisher{}
	game := &stubGame{changed: true}
	m := NewGameModel(game, testConfig(), Options{Spectators: pub, Source: "ann@10.0.0.1:5000"})
	update(t, m, TickMsg{})

	if len(pub.frames) != 1 || pub.frames[0].source != "ann@10.0.0.1:5000" {
		t.Errorf("frames = %v, expected one from ann@10.0.0.1:5000", pub.frames)
	}
}

func TestGameModelResize(t *testing.T) {
	game := &stubGame{}
	m := NewGameModel(game, testConfig(), Options{})
	m.Init()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 50})

	if game.resized != [2]int{100, 50} {
		t.Errorf("resized = %v, expected [100 50]", game.resized)
	}
	if game.resets != 1 {
		t.Errorf("resets = %d, expected a resize not to restart", game.resets)
	}
	if w := m.screen.Width(); w != 100 {
		t.Errorf("screen width = %d, expected 100", w)
	}
}

func TestGameModelView(t *testing.T) {
	m := NewGameModel(&stubGame{}, testConfig(), Options{})
	if v := m.View(); !strings.Contains(v, "stub") {
		t.Errorf("View() = %q, expected it to contain the game's output", v)
	}
}

func TestMenuModel(t *testing.T) {
	m := NewMenuModel(nil, testConfig())

	idx := -1
	for i, it := range m.items {
		if it.ID == "stub" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("menu does not list the registered stub game")
	}
	if !strings.Contains(m.View(), "A game that does nothing") {
		t.Error("View() does not show the game description")
	}

	for range idx {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if cmd == nil {
		t.Error("expected the menu to quit after a selection")
	}
	if sel := m.Selected(); sel == nil || sel.ID != "stub" {
		t.Errorf("Selected() = %v, expected stub", sel)
	}
}

func TestMenuModelScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("WantsScoreboard() = false after tab, expected true")
	}

	next, _ = m.Update(runeKey("q"))
	if !next.(MenuModel).IsQuitting() {
		t.Error("IsQuitting() = false after q, expected true")
	}
}

func TestScoreboardModel(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveScore("stub", "ann", 12); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}

	m := NewScoreboardModel(store, 100, 30)
	for m.variants[m.cursor].ID != "stub" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
	}

	if len(m.scores) != 1 || m.scores[0].Player != "ann" {
		t.Fatalf("scores = %v, expected one entry for ann", m.scores)
	}
	if got := m.statsLine(); !strings.Contains(got, "best 12") {
		t.Errorf("statsLine() = %q, expected it to mention best 12", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("IsGoingBack() = false after esc, expected true")
	}
}

func TestSessionModelFlow(t *testing.T) {
	pub := &fakePublisher{}
	s := NewSessionModel(testConfig(), Options{Spectators: pub, Source: "ann@test", InSession: true})

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if s.view != viewScores {
		t.Fatalf("view = %v after tab, expected scoreboard", s.view)
	}
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if s.view != viewMenu {
		t.Fatalf("view = %v after esc, expected menu", s.view)
	}

	for s.menu.items[s.menu.cursor].ID != "stub" {
		step(tea.KeyMsg{Type: tea.KeyDown})
	}
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if s.view != viewGame {
		t.Fatalf("view = %v after enter, expected game", s.view)
	}

	game := s.gameModel.game.(*stubGame)
	game.state = core.GameState{GameOver: true}
	step(TickMsg{})
	step(tea.KeyMsg{Type: tea.KeyEsc})

	if s.view != viewMenu {
		t.Errorf("view = %v after game over and esc, expected menu", s.view)
	}
	if len(pub.retired) != 1 || pub.retired[0] != "ann@test" {
		t.Errorf("retired = %v, expected [ann@test]", pub.retired)
	}
}
