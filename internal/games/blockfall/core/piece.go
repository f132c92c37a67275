package core

import "strings"

// Slots are indexed row-major over the 3x3 template:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// Slot k sits at column spawn+(k%3) and row SpawnRow+(k/3).
var templates = [FormCount][]int{
	F0:  {0, 1, 2, 4},
	F1:  {4},
	F2:  {3, 4, 5},
	F3:  {0, 1, 2, 5},
	F4:  {0, 1, 2, 4, 5},
	F5:  {0, 1, 2, 3, 5},
	F6:  {0, 1, 2, 3},
	F7:  {0, 1, 2, 5, 8},
	F8:  {0, 1, 2, 3, 4, 5, 6, 7, 8},
	F9:  {0, 1, 2, 3, 5, 8},
	F10: {0, 1, 2, 3, 5, 6, 8},
}

// Template returns the filled slot indices of the form's North shape.
func (f Form) Template() []int {
	if int(f) >= FormCount {
		return nil
	}
	out := make([]int, len(templates[f]))
	copy(out, templates[f])
	return out
}

// turn describes where one slot goes under a quarter turn and how far its
// block moves.
type turn struct {
	dest   int
	dx, dy int
}

// clockwise is indexed by source slot.
var clockwise = [SlotCount]turn{
	0: {dest: 2, dx: 2, dy: 0},
	1: {dest: 5, dx: 1, dy: 1},
	2: {dest: 8, dx: 0, dy: 2},
	3: {dest: 1, dx: 1, dy: -1},
	4: {dest: 4, dx: 0, dy: 0},
	5: {dest: 7, dx: -1, dy: 1},
	6: {dest: 0, dx: 0, dy: -2},
	7: {dest: 3, dx: -1, dy: -1},
	8: {dest: 6, dx: -2, dy: 0},
}

// counterclockwise is the inverse permutation of clockwise with negated deltas.
var counterclockwise = invert(clockwise)

func invert(t [SlotCount]turn) [SlotCount]turn {
	var out [SlotCount]turn
	for src, tr := range t {
		out[tr.dest] = turn{dest: src, dx: -tr.dx, dy: -tr.dy}
	}
	return out
}

func turnTable(d Direction) *[SlotCount]turn {
	if d == Counterclockwise {
		return &counterclockwise
	}
	return &clockwise
}

// Piece is a falling cluster of up to nine blocks laid out on a 3x3 template.
// The slot layout and the orientation always change together.
type Piece struct {
	slots       [SlotCount]Slot
	form        Form
	orientation Orientation
}

// NewPiece builds form f at spawn column x in the North shape and turns it
// clockwise until it faces o.
func NewPiece(x int, o Orientation, f Form) *Piece {
	if int(f) >= FormCount {
		f = F0
	}
	p := &Piece{form: f, orientation: North}
	for _, k := range templates[f] {
		p.slots[k] = Filled(Block{
			X:    x + k%TemplateSize,
			Y:    SpawnRow + k/TemplateSize,
			Form: f,
		})
	}
	for range int(o % OrientationCount) {
		p.RotateClockwise()
	}
	return p
}

// Form returns the piece shape.
func (p *Piece) Form() Form {
	return p.form
}

// Orientation returns the current facing.
func (p *Piece) Orientation() Orientation {
	return p.orientation
}

// RotateClockwise turns the piece a quarter turn clockwise in place.
func (p *Piece) RotateClockwise() {
	p.rotate(&clockwise)
	p.orientation = p.orientation.Next()
}

// RotateCounterclockwise turns the piece a quarter turn counterclockwise.
func (p *Piece) RotateCounterclockwise() {
	p.rotate(&counterclockwise)
	p.orientation = p.orientation.Prev()
}

// Rotate turns the piece in direction d.
func (p *Piece) Rotate(d Direction) {
	if d == Counterclockwise {
		p.RotateCounterclockwise()
		return
	}
	p.RotateClockwise()
}

func (p *Piece) rotate(table *[SlotCount]turn) {
	var next [SlotCount]Slot
	for src, s := range p.slots {
		b, ok := s.Block()
		if !ok {
			continue
		}
		tr := table[src]
		b.Move(tr.dx, tr.dy)
		next[tr.dest] = Filled(b)
	}
	p.slots = next
}

// Translate moves every block of the piece by (dx, dy).
func (p *Piece) Translate(dx, dy int) {
	for i := range p.slots {
		if p.slots[i].present {
			p.slots[i].block.Move(dx, dy)
		}
	}
}

// Blocks returns the blocks of all non-empty slots in slot order.
func (p *Piece) Blocks() []Block {
	blocks := make([]Block, 0, SlotCount)
	for _, s := range p.slots {
		if b, ok := s.Block(); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Slots returns all nine slots, including empty ones.
func (p *Piece) Slots() [SlotCount]Slot {
	return p.slots
}

// FilledSlots returns the indices of non-empty slots in ascending order.
func (p *Piece) FilledSlots() []int {
	idx := make([]int, 0, SlotCount)
	for i, s := range p.slots {
		if !s.Empty() {
			idx = append(idx, i)
		}
	}
	return idx
}

// String renders the template as three lines of '#' and '.'.
func (p *Piece) String() string {
	var b strings.Builder
	for i, s := range p.slots {
		if i > 0 && i%TemplateSize == 0 {
			b.WriteByte('\n')
		}
		if s.Empty() {
			b.WriteByte('.')
		} else {
			b.WriteByte('#')
		}
	}
	return b.String()
}
