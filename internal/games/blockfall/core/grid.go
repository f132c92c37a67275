package core

import "strings"

// Grid owns the landed cells and, exclusively, the single falling piece.
// Cells are stored row-major (cells[y][x]) because clearing works on rows.
type Grid struct {
	cols     int
	rows     int
	cells    [][]Cell
	piece    *Piece
	score    int
	gameOver bool
	overlaid bool
}

// NewGrid creates an empty grid with the given number of columns and rows.
// Dimensions below MinDimension are raised to MinDimension.
func NewGrid(cols, rows int) *Grid {
	cols = max(cols, MinDimension)
	rows = max(rows, MinDimension)

	g := &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([][]Cell, rows),
	}
	for y := range g.cells {
		g.cells[y] = make([]Cell, cols)
		for x := range g.cells[y] {
			g.cells[y][x] = Cell{x: x, y: y}
		}
	}
	return g
}

// Columns returns the grid width.
func (g *Grid) Columns() int {
	return g.cols
}

// Rows returns the grid height.
func (g *Grid) Rows() int {
	return g.rows
}

// MaxX returns the highest column index.
func (g *Grid) MaxX() int {
	return g.cols - 1
}

// MaxY returns the highest row index.
func (g *Grid) MaxY() int {
	return g.rows - 1
}

// InBounds reports whether (x, y) addresses a visible cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// Occupied reports whether (x, y) holds a landed block.
// Out-of-bounds coordinates are never occupied.
func (g *Grid) Occupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y][x].Occupied()
}

// Occupant returns the block at (x, y), if any.
func (g *Grid) Occupant(x, y int) (Block, bool) {
	if !g.InBounds(x, y) {
		return Block{}, false
	}
	return g.cells[y][x].Occupant()
}

// Fill places a landed block at (x, y), used to preset a board.
func (g *Grid) Fill(x, y int, f Form) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y][x].set(&Block{X: x, Y: y, Form: f})
}

// Score returns the number of rows cleared so far.
func (g *Grid) Score() int {
	return g.score
}

// GameOver reports whether a piece was blocked while entering row 0.
// Once true it stays true.
func (g *Grid) GameOver() bool {
	return g.gameOver
}

// Attach makes p the falling piece.
// Attaching while a piece is already attached is a programming error.
func (g *Grid) Attach(p *Piece) {
	if g.piece != nil {
		panic("core: attach while a piece is already falling")
	}
	if p == nil {
		panic("core: attach of nil piece")
	}
	g.piece = p
}

// HasPiece reports whether a piece is falling.
func (g *Grid) HasPiece() bool {
	return g.piece != nil
}

// Piece returns the falling piece or nil.
func (g *Grid) Piece() *Piece {
	return g.piece
}

// SpaceLeft reports whether every block of the falling piece can shift one
// column left. Blocks above the visible grid only check the boundary.
func (g *Grid) SpaceLeft() bool {
	return g.spaceSideways(-1)
}

// SpaceRight reports whether every block of the falling piece can shift one
// column right.
func (g *Grid) SpaceRight() bool {
	return g.spaceSideways(1)
}

func (g *Grid) spaceSideways(dx int) bool {
	if g.piece == nil {
		return false
	}
	for _, b := range g.piece.Blocks() {
		nx := b.X + dx
		if nx < 0 || nx >= g.cols {
			return false
		}
		if b.Y < 0 {
			continue
		}
		if g.cells[b.Y][nx].Occupied() {
			return false
		}
	}
	return true
}

// SpaceDown reports whether every block of the falling piece can drop one
// row. A block about to enter row 0 onto an occupied cell ends the game and
// reports no space at once. The floor and occupied cells below report no
// space without ending the game.
func (g *Grid) SpaceDown() bool {
	if g.piece == nil {
		return false
	}
	space := true
	for _, b := range g.piece.Blocks() {
		ny := b.Y + 1
		if ny == 0 && g.Occupied(b.X, 0) {
			g.gameOver = true
			return false
		}
		if ny > g.MaxY() {
			space = false
			continue
		}
		if ny >= 0 && g.Occupied(b.X, ny) {
			space = false
		}
	}
	return space
}

// CanRotate reports whether the falling piece can turn in direction d.
// The template is not recomputed: each filled slot's block is moved by the
// fixed delta for its slot and the destination must be a free visible cell.
// Empty slots impose no constraint.
func (g *Grid) CanRotate(d Direction) bool {
	if g.piece == nil {
		return false
	}
	table := turnTable(d)
	for src, s := range g.piece.Slots() {
		b, ok := s.Block()
		if !ok {
			continue
		}
		tr := table[src]
		x, y := b.X+tr.dx, b.Y+tr.dy
		if !g.InBounds(x, y) || g.cells[y][x].Occupied() {
			return false
		}
	}
	return true
}

// TranslateDown drops the falling piece one row without checking space.
func (g *Grid) TranslateDown() {
	if g.piece != nil {
		g.piece.Translate(0, 1)
	}
}

// TranslateLeft shifts the falling piece one column left without checking space.
func (g *Grid) TranslateLeft() {
	if g.piece != nil {
		g.piece.Translate(-1, 0)
	}
}

// TranslateRight shifts the falling piece one column right without checking space.
func (g *Grid) TranslateRight() {
	if g.piece != nil {
		g.piece.Translate(1, 0)
	}
}

// Rotate turns the falling piece without checking space.
func (g *Grid) Rotate(d Direction) {
	if g.piece != nil {
		g.piece.Rotate(d)
	}
}

// LandAndSweep copies the falling piece into the cells, detaches it and
// clears full rows. Blocks still above the visible grid are dropped.
// Returns the number of rows cleared.
func (g *Grid) LandAndSweep() int {
	if g.piece == nil {
		return 0
	}
	for _, b := range g.piece.Blocks() {
		if b.Y < 0 || !g.InBounds(b.X, b.Y) {
			continue
		}
		landed := b
		g.cells[b.Y][b.X].set(&landed)
	}
	g.piece = nil
	return g.sweep()
}

// sweep clears full rows from the top down. Row 0 is simply vacated; any
// other full row r pulls every row above it down by one.
func (g *Grid) sweep() int {
	cleared := 0

	if g.rowFull(0) {
		g.clearRow(0)
		cleared++
	}

	for r := 1; r <= g.MaxY(); r++ {
		if !g.rowFull(r) {
			continue
		}
		for i := r; i > 0; i-- {
			g.pullRowDown(i)
		}
		cleared++
	}

	g.score += cleared
	return cleared
}

func (g *Grid) rowFull(y int) bool {
	for x := range g.cells[y] {
		if !g.cells[y][x].Occupied() {
			return false
		}
	}
	return true
}

func (g *Grid) clearRow(y int) {
	for x := range g.cells[y] {
		g.cells[y][x].set(nil)
	}
}

// pullRowDown moves row i-1 into row i and empties row i-1.
func (g *Grid) pullRowDown(i int) {
	for x := range g.cells[i] {
		b := g.cells[i-1][x].occupant
		if b != nil {
			b.Y = i
		}
		g.cells[i][x].set(b)
		g.cells[i-1][x].set(nil)
	}
}

// OverlayPiece marks the falling piece's visible blocks as occupied so a
// renderer can read the board in one pass. It must be paired with
// ClearOverlay before any other grid call.
func (g *Grid) OverlayPiece() {
	if g.overlaid {
		panic("core: nested piece overlay")
	}
	g.overlaid = true
	if g.piece == nil {
		return
	}
	for _, b := range g.piece.Blocks() {
		if b.Y < 0 || !g.InBounds(b.X, b.Y) {
			continue
		}
		shown := b
		g.cells[b.Y][b.X].set(&shown)
	}
}

// ClearOverlay reverses OverlayPiece.
func (g *Grid) ClearOverlay() {
	if !g.overlaid {
		return
	}
	g.overlaid = false
	if g.piece == nil {
		return
	}
	for _, b := range g.piece.Blocks() {
		if b.Y < 0 || !g.InBounds(b.X, b.Y) {
			continue
		}
		g.cells[b.Y][b.X].set(nil)
	}
}

// WithPiece runs read with the falling piece overlaid on the cells.
// read must not mutate the grid.
func (g *Grid) WithPiece(read func()) {
	g.OverlayPiece()
	defer g.ClearOverlay()
	read()
}

// String dumps the landed cells, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.cols + 1) * g.rows)
	for y := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range g.cells[y] {
			if g.cells[y][x].Occupied() {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
