package core

import "math/rand"

// Generator produces randomly parameterised pieces. Its only state is the
// random source, so a fixed seed yields a fixed piece sequence.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate draws a spawn column in [0, maxSpawnColumn], then an orientation,
// then a form, and builds the piece. The draw order is part of the
// determinism contract.
func (g *Generator) Generate(maxSpawnColumn int) *Piece {
	maxSpawnColumn = max(maxSpawnColumn, 0)
	x := g.rng.Intn(maxSpawnColumn + 1)
	o := Orientation(g.rng.Intn(OrientationCount))
	f := Form(g.rng.Intn(FormCount))
	return NewPiece(x, o, f)
}
