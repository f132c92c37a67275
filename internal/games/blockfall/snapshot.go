package blockfall

// Snapshot captures the visible game state for determinism testing and the
// spectator stream. Board rows use '#' for landed blocks, '@' for the falling
// piece and '.' for empty cells.
type Snapshot struct {
	Variant     string   `json:"variant"`
	Tick        uint64   `json:"tick"`
	Phase       Phase    `json:"phase"`
	TooSmall    bool     `json:"too_small,omitempty"`
	Score       int      `json:"score"`
	Pieces      int      `json:"pieces"`
	Form        string   `json:"form,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Columns     int      `json:"columns"`
	Rows        int      `json:"rows"`
	Board       []string `json:"board"`
}

// Snapshot returns a copy of the current state. It never mutates the grid.
func (g *Game) Snapshot() Snapshot {
	grid := g.engine.Grid()

	cells := make([][]byte, grid.Rows())
	for y := range cells {
		cells[y] = make([]byte, grid.Columns())
		for x := range cells[y] {
			if grid.Occupied(x, y) {
				cells[y][x] = '#'
			} else {
				cells[y][x] = '.'
			}
		}
	}

	snap := Snapshot{
		Variant:  g.variant,
		Tick:     g.tick,
		Phase:    g.phase,
		TooSmall: g.tooSmall,
		Score:    grid.Score(),
		Pieces:   g.engine.Spawned(),
		Columns:  grid.Columns(),
		Rows:     grid.Rows(),
	}

	if p := grid.Piece(); p != nil {
		snap.Form = p.Form().String()
		snap.Orientation = p.Orientation().String()
		for _, b := range p.Blocks() {
			if grid.InBounds(b.X, b.Y) {
				cells[b.Y][b.X] = '@'
			}
		}
	}

	snap.Board = make([]string, len(cells))
	for y, row := range cells {
		snap.Board[y] = string(row)
	}
	return snap
}

// SpectatorSnapshot returns Snapshot for the spectator stream.
func (g *Game) SpectatorSnapshot() any {
	return g.Snapshot()
}
