// Package core provides the simulation core of the Blockfall puzzle game:
// the grid of landed cells, the single falling piece, and the rules for
// moving, rotating, landing and clearing rows.
// This package is UI-agnostic and deterministic for a given random source.
package core

import "fmt"

// SpawnRow is the row of a new piece's top template row.
// Pieces emerge row by row from above the visible grid.
const SpawnRow = -3

// TemplateSize is the width and height of every piece template.
const TemplateSize = 3

// SlotCount is the number of slots in a piece template.
const SlotCount = TemplateSize * TemplateSize

// MinDimension is the smallest supported grid width or height.
// A 3-wide template must fit horizontally.
const MinDimension = TemplateSize

// Form identifies one of the eleven piece shapes.
type Form uint8

const (
	F0 Form = iota
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
)

// FormCount is the number of piece shapes.
const FormCount = 11

// String returns the form name (F0..F10).
func (f Form) String() string {
	if int(f) >= FormCount {
		return "F?"
	}
	return fmt.Sprintf("F%d", uint8(f))
}

// Orientation is the facing of a piece. North is the base shape and each
// step is one clockwise quarter turn.
type Orientation uint8

const (
	North Orientation = iota
	East
	South
	West
)

// OrientationCount is the number of orientations.
const OrientationCount = 4

// Next returns the orientation one clockwise turn away.
func (o Orientation) Next() Orientation {
	return (o + 1) % OrientationCount
}

// Prev returns the orientation one counterclockwise turn away.
func (o Orientation) Prev() Orientation {
	return (o + OrientationCount - 1) % OrientationCount
}

// String returns the compass letter of the orientation.
func (o Orientation) String() string {
	switch o {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Direction is a rotation sense.
type Direction uint8

const (
	Clockwise Direction = iota
	Counterclockwise
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	if d == Counterclockwise {
		return "counterclockwise"
	}
	return "clockwise"
}

// Block is one unit of a piece. X is the column, Y the row.
// Form is carried for renderer styling only.
type Block struct {
	X    int
	Y    int
	Form Form
}

// Move shifts the block by (dx, dy).
func (b *Block) Move(dx, dy int) {
	b.X += dx
	b.Y += dy
}

// Slot is one position of a piece template. A slot either holds a block
// or is empty; the zero value is empty.
type Slot struct {
	block   Block
	present bool
}

// Filled returns a slot holding b.
func Filled(b Block) Slot {
	return Slot{block: b, present: true}
}

// Empty reports whether the slot holds no block.
func (s Slot) Empty() bool {
	return !s.present
}

// Block returns the held block and whether there is one.
func (s Slot) Block() (Block, bool) {
	return s.block, s.present
}

// Cell is one addressable point of the grid. Its position is fixed at
// construction; it is occupied exactly when it holds a block.
type Cell struct {
	x, y     int
	occupant *Block
}

// Occupied reports whether a landed block sits in the cell.
func (c *Cell) Occupied() bool {
	return c.occupant != nil
}

// Occupant returns a copy of the block in the cell, if any.
func (c *Cell) Occupant() (Block, bool) {
	if c.occupant == nil {
		return Block{}, false
	}
	return *c.occupant, true
}

// Position returns the cell's column and row.
func (c *Cell) Position() (x, y int) {
	return c.x, c.y
}

func (c *Cell) set(b *Block) {
	c.occupant = b
}
