package core

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cwDest[k] is the slot that slot k moves to under one clockwise turn.
var cwDest = [SlotCount]int{2, 5, 8, 1, 4, 7, 0, 3, 6}

func rotatedTemplate(f Form, turns int) []int {
	slots := f.Template()
	for range turns {
		for i, k := range slots {
			slots[i] = cwDest[k]
		}
	}
	slices.Sort(slots)
	return slots
}

func allForms() []Form {
	forms := make([]Form, 0, FormCount)
	for f := range FormCount {
		forms = append(forms, Form(f))
	}
	return forms
}

func TestNewPieceNorth(t *testing.T) {
	p := NewPiece(5, North, F0)

	assert.Equal(t, F0, p.Form())
	assert.Equal(t, North, p.Orientation())
	assert.Equal(t, []int{0, 1, 2, 4}, p.FilledSlots())
	assert.Equal(t, []Block{
		{X: 5, Y: -3, Form: F0},
		{X: 6, Y: -3, Form: F0},
		{X: 7, Y: -3, Form: F0},
		{X: 6, Y: -2, Form: F0},
	}, p.Blocks())
	assert.Equal(t, "###\n.#.\n...", p.String())
}

func TestFormTemplates(t *testing.T) {
	tests := []struct {
		form  Form
		slots []int
	}{
		{F0, []int{0, 1, 2, 4}},
		{F1, []int{4}},
		{F2, []int{3, 4, 5}},
		{F3, []int{0, 1, 2, 5}},
		{F4, []int{0, 1, 2, 4, 5}},
		{F5, []int{0, 1, 2, 3, 5}},
		{F6, []int{0, 1, 2, 3}},
		{F7, []int{0, 1, 2, 5, 8}},
		{F8, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{F9, []int{0, 1, 2, 3, 5, 8}},
		{F10, []int{0, 1, 2, 3, 5, 6, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.form.String(), func(t *testing.T) {
			assert.Equal(t, tt.slots, tt.form.Template())
			assert.Equal(t, tt.slots, NewPiece(0, North, tt.form).FilledSlots())
		})
	}
}

func TestTemplateReturnsCopy(t *testing.T) {
	slots := F0.Template()
	slots[0] = 8
	assert.Equal(t, []int{0, 1, 2, 4}, F0.Template())
}

func TestRotatedTemplates(t *testing.T) {
	for _, f := range allForms() {
		for turns := range OrientationCount {
			o := Orientation(turns)
			p := NewPiece(3, o, f)
			assert.Equal(t, rotatedTemplate(f, turns), p.FilledSlots(), "%s facing %s", f, o)
			assert.Equal(t, o, p.Orientation())
		}
	}
}

func TestSpecificRotations(t *testing.T) {
	tests := []struct {
		name  string
		piece *Piece
		slots []int
		dump  string
	}{
		{"F0 east", NewPiece(0, East, F0), []int{2, 4, 5, 8}, "..#\n.##\n..#"},
		{"F0 south", NewPiece(0, South, F0), []int{4, 6, 7, 8}, "...\n.#.\n###"},
		{"F6 east", NewPiece(0, East, F6), []int{1, 2, 5, 8}, ".##\n..#\n..#"},
		{"F2 east", NewPiece(0, East, F2), []int{1, 4, 7}, ".#.\n.#.\n.#."},
		{"F1 west", NewPiece(0, West, F1), []int{4}, "...\n.#.\n..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.slots, tt.piece.FilledSlots())
			assert.Equal(t, tt.dump, tt.piece.String())
		})
	}
}

// Every block must sit at the position its slot implies relative to the
// spawn anchor, whatever the orientation.
func TestBlocksFollowSlots(t *testing.T) {
	const x = 7
	for _, f := range allForms() {
		for o := range Orientation(OrientationCount) {
			p := NewPiece(x, o, f)
			for k, s := range p.Slots() {
				b, ok := s.Block()
				if !ok {
					continue
				}
				assert.Equal(t, x+k%TemplateSize, b.X, "%s/%s slot %d", f, o, k)
				assert.Equal(t, SpawnRow+k/TemplateSize, b.Y, "%s/%s slot %d", f, o, k)
				assert.Equal(t, f, b.Form)
			}
		}
	}
}

func TestFourClockwiseTurnsRoundTrip(t *testing.T) {
	for _, f := range allForms() {
		for o := range Orientation(OrientationCount) {
			p := NewPiece(4, o, f)
			p.Translate(1, 5)
			before := p.Blocks()

			for range 4 {
				p.RotateClockwise()
			}

			assert.Equal(t, before, p.Blocks(), "%s/%s", f, o)
			assert.Equal(t, o, p.Orientation())
		}
	}
}

func TestCounterclockwiseIsThreeClockwise(t *testing.T) {
	for _, f := range allForms() {
		for o := range Orientation(OrientationCount) {
			ccw := NewPiece(2, o, f)
			cw := NewPiece(2, o, f)

			ccw.RotateCounterclockwise()
			for range 3 {
				cw.RotateClockwise()
			}

			assert.Equal(t, cw.Slots(), ccw.Slots(), "%s/%s", f, o)
			assert.Equal(t, cw.Orientation(), ccw.Orientation())
		}
	}
}

func TestRotateDirection(t *testing.T) {
	p := NewPiece(0, North, F0)

	p.Rotate(Clockwise)
	assert.Equal(t, East, p.Orientation())

	p.Rotate(Counterclockwise)
	p.Rotate(Counterclockwise)
	assert.Equal(t, West, p.Orientation())
	assert.Equal(t, []int{0, 3, 4, 6}, p.FilledSlots())
}

func TestTranslate(t *testing.T) {
	p := NewPiece(0, North, F2)
	p.Translate(2, 4)

	assert.Equal(t, []Block{
		{X: 2, Y: 2, Form: F2},
		{X: 3, Y: 2, Form: F2},
		{X: 4, Y: 2, Form: F2},
	}, p.Blocks())
}

func TestNewPieceUnknownForm(t *testing.T) {
	p := NewPiece(0, North, Form(42))
	require.Equal(t, F0, p.Form())
	assert.Len(t, p.Blocks(), 4)
}

func TestOrientationCycle(t *testing.T) {
	tests := []struct {
		o    Orientation
		next Orientation
		prev Orientation
		name string
	}{
		{North, East, West, "N"},
		{East, South, North, "E"},
		{South, West, East, "S"},
		{West, North, South, "W"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.next, tt.o.Next())
		assert.Equal(t, tt.prev, tt.o.Prev())
		assert.Equal(t, tt.name, tt.o.String())
	}
}

func TestSlotEmpty(t *testing.T) {
	var s Slot
	assert.True(t, s.Empty())
	_, ok := s.Block()
	assert.False(t, ok)

	s = Filled(Block{X: 1, Y: 2})
	assert.False(t, s.Empty())
	b, ok := s.Block()
	assert.True(t, ok)
	assert.Equal(t, Block{X: 1, Y: 2}, b)
}
