package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(cols, rows int, seed int64) *Engine {
	return NewEngine(NewGrid(cols, rows), NewGenerator(rand.New(rand.NewSource(seed))))
}

func TestEngineSpawnsOnFirstTick(t *testing.T) {
	e := newTestEngine(10, 20, 1)
	assert.Equal(t, NoPiece, e.State())
	assert.Zero(t, e.Spawned())

	res := e.Tick()

	assert.True(t, res.Spawned)
	assert.False(t, res.Landed)
	assert.False(t, res.GameOver)
	assert.Equal(t, Falling, e.State())
	assert.Equal(t, 1, e.Spawned())
}

func TestEngineTickDropsPiece(t *testing.T) {
	e := newTestEngine(10, 20, 7)
	e.Tick()
	before := e.Grid().Piece().Blocks()

	res := e.Tick()
	require.False(t, res.Landed)

	after := e.Grid().Piece().Blocks()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].X, after[i].X)
		assert.Equal(t, before[i].Y+1, after[i].Y)
	}
}

func TestEngineLandsAndRespawns(t *testing.T) {
	e := newTestEngine(10, 20, 3)
	e.Tick()
	blocks := len(e.Grid().Piece().Blocks())

	var res Result
	for range 100 {
		res = e.Tick()
		if res.Landed {
			break
		}
	}

	require.True(t, res.Landed)
	assert.True(t, res.Spawned)
	assert.Zero(t, res.Cleared)
	assert.Equal(t, 2, e.Spawned())
	assert.Equal(t, Falling, e.State())
	assert.Equal(t, blocks, occupiedCount(e.Grid()))
}

func TestEngineGameOverIsTerminal(t *testing.T) {
	e := newTestEngine(3, 3, 11)
	for x := range 3 {
		e.Grid().Fill(x, 0, F0)
	}

	var res Result
	for range 5 {
		res = e.Tick()
		if res.GameOver {
			break
		}
	}
	require.True(t, res.GameOver)
	assert.Equal(t, Over, e.State())
	assert.Equal(t, 1, e.Spawned())
	assert.False(t, res.Landed)
	assert.Equal(t, "###\n...\n...", e.Grid().String())

	board := e.Grid().String()
	for _, a := range []Action{MoveLeft, MoveRight, SoftDrop, RotateLeft, RotateRight} {
		res = e.Apply(a)
		assert.True(t, res.GameOver)
		assert.False(t, res.Spawned)
	}
	res = e.Tick()
	assert.True(t, res.GameOver)
	assert.Equal(t, board, e.Grid().String())
	assert.Equal(t, 1, e.Spawned())
}

func TestApplyMoves(t *testing.T) {
	e := newTestEngine(10, 20, 1)
	e.Grid().Attach(NewPiece(4, North, F0))

	res := e.Apply(MoveLeft)
	assert.False(t, res.Landed)
	assert.False(t, res.Spawned, "a piece was already falling")
	assert.Equal(t, 3, e.Grid().Piece().Blocks()[0].X)

	e.Apply(MoveRight)
	e.Apply(MoveRight)
	assert.Equal(t, 5, e.Grid().Piece().Blocks()[0].X)

	e.Apply(SoftDrop)
	assert.Equal(t, SpawnRow+1, e.Grid().Piece().Blocks()[0].Y)

	e.Apply(RotateRight)
	assert.Equal(t, North, e.Grid().Piece().Orientation(), "rotation is denied above the grid")
}

func TestApplyMoveDeniedAtWall(t *testing.T) {
	e := newTestEngine(10, 20, 1)
	e.Grid().Attach(NewPiece(0, North, F2))

	e.Apply(MoveLeft)
	assert.Equal(t, 0, e.Grid().Piece().Blocks()[0].X)
}

func TestApplyRotates(t *testing.T) {
	e := newTestEngine(10, 20, 1)
	e.Grid().Attach(NewPiece(4, North, F0))
	dropBy(e.Grid(), 5)

	e.Apply(RotateRight)
	assert.Equal(t, East, e.Grid().Piece().Orientation())
	e.Apply(RotateLeft)
	e.Apply(RotateLeft)
	assert.Equal(t, West, e.Grid().Piece().Orientation())
}

// A denied or stationary action still re-runs the vertical landing check.
func TestApplyRunsLandingCheck(t *testing.T) {
	e := newTestEngine(5, 5, 1)
	g := e.Grid()
	g.Fill(1, 3, F9)
	g.Attach(NewPiece(0, North, F1))
	dropBy(g, 4) // block at (1, 2), resting on (1, 3)

	res := e.Apply(RotateRight)

	assert.True(t, res.Landed)
	assert.True(t, res.Spawned)
	assert.True(t, g.Occupied(1, 2))
	assert.Equal(t, 1, e.Spawned(), "only the replacement piece came from the generator")
}

// The landing check after a horizontal move only looks straight down from
// the new position.
func TestApplySidewaysOffLedgeKeepsFalling(t *testing.T) {
	e := newTestEngine(5, 5, 1)
	g := e.Grid()
	g.Fill(1, 3, F9)
	g.Attach(NewPiece(0, North, F1))
	dropBy(g, 4)

	res := e.Apply(MoveRight)

	assert.False(t, res.Landed)
	assert.Equal(t, []Block{{X: 2, Y: 2, Form: F1}}, g.Piece().Blocks())
}

func TestApplySoftDropToFloorLands(t *testing.T) {
	e := newTestEngine(5, 5, 1)
	g := e.Grid()
	g.Attach(NewPiece(0, North, F1))
	dropBy(g, 5) // block at (1, 3)

	res := e.Apply(SoftDrop)

	assert.True(t, res.Landed)
	assert.True(t, g.Occupied(1, 4))
}

func TestApplyReportsClears(t *testing.T) {
	e := newTestEngine(3, 5, 1)
	g := e.Grid()
	g.Fill(0, 4, F0)
	g.Fill(2, 4, F0)
	g.Attach(NewPiece(0, North, F1))
	dropBy(g, 5) // block at (1, 3)

	res := e.Apply(SoftDrop)

	assert.True(t, res.Landed)
	assert.Equal(t, 1, res.Cleared)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, g.Score())
}

func TestEngineDeterministic(t *testing.T) {
	script := []Action{MoveLeft, RotateRight, SoftDrop, MoveRight, MoveRight, RotateLeft, SoftDrop}

	run := func() (string, int, int) {
		e := newTestEngine(8, 12, 42)
		for i := range 400 {
			if i%3 == 0 {
				e.Apply(script[i%len(script)])
			}
			if e.Tick().GameOver {
				break
			}
		}
		return e.Grid().String(), e.Grid().Score(), e.Spawned()
	}

	board1, score1, spawned1 := run()
	board2, score2, spawned2 := run()
	assert.Equal(t, board1, board2)
	assert.Equal(t, score1, score2)
	assert.Equal(t, spawned1, spawned2)
	assert.Greater(t, spawned1, 1)
}

func TestActionAndStateNames(t *testing.T) {
	assert.Equal(t, "rotate-left", RotateLeft.String())
	assert.Equal(t, "soft-drop", SoftDrop.String())
	assert.Equal(t, "game-over", Over.String())
	assert.Equal(t, "falling", Falling.String())
}
