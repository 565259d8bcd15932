// Package genetics holds the growth program carried by every tree: sixteen
// gene records of four direction outcomes each, plus the colors used to tell
// lineages apart.
package genetics

import (
	"math/rand/v2"
)

const (
	// NumGenes is the number of gene records in a genome.
	NumGenes = 16
	// NumDirections is the number of outcomes per gene record.
	NumDirections = 4
	// Blocked marks an outcome that never grows.
	Blocked uint8 = 30
	// MaxGeneIndex is the largest gene index an outcome may name.
	MaxGeneIndex uint8 = NumGenes - 1

	// maxSeedBlocked is the most blocked outcomes gene 0 may carry when generated.
	maxSeedBlocked = 2
)

// Direction indexes a gene record's outcomes.
type Direction int

const (
	Up Direction = iota
	Left
	Right
	Down
)

// Directions lists the outcomes in evaluation order.
var Directions = [NumDirections]Direction{Up, Left, Right, Down}

// Offset returns the lattice step (dCol, dRow) for the direction.
func (d Direction) Offset() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 1
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return "unknown"
}

// Gene is one growth rule: for each direction, the gene index a child cell in
// that direction uses, or Blocked.
type Gene [NumDirections]uint8

// Outcome returns the child gene index for d and whether growth is allowed.
func (g Gene) Outcome(d Direction) (uint8, bool) {
	v := g[d]
	return v, v != Blocked
}

// BlockedCount returns how many outcomes are blocked.
func (g Gene) BlockedCount() int {
	n := 0
	for _, v := range g {
		if v == Blocked {
			n++
		}
	}
	return n
}

// Dormant reports whether every outcome is blocked. A cell running any
// dormant gene, not only the seed gene, never grows and stays Immature.
func (g Gene) Dormant() bool {
	return g.BlockedCount() == NumDirections
}

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Genome is a tree's full growth program.
type Genome struct {
	Genes [NumGenes]Gene `json:"genes"`
	Color Color          `json:"color"` // Display color, regenerated on mutated reproduction
	// Lineage is fixed when a founder is created and passed on unchanged.
	Lineage Color `json:"lineage"`
}

// Random generates a founder genome. Each outcome is drawn from [0,31] and
// kept when it is a valid gene index, otherwise blocked. Gene 0 is repaired
// until at most two outcomes are blocked so a seed is never inert.
func Random(rng *rand.Rand) *Genome {
	g := &Genome{}
	for i := range g.Genes {
		g.Genes[i] = randomGene(rng)
	}
	seed := &g.Genes[0]
	for seed.BlockedCount() > maxSeedBlocked {
		for d := range seed {
			if seed[d] == Blocked {
				seed[d] = uint8(rng.IntN(NumGenes))
				break
			}
		}
	}
	g.Color = RandomColor(rng)
	g.Lineage = g.Color
	return g
}

func randomGene(rng *rand.Rand) Gene {
	var gene Gene
	for d := range gene {
		v := uint8(rng.IntN(2 * NumGenes))
		if v > MaxGeneIndex {
			v = Blocked
		}
		gene[d] = v
	}
	return gene
}

// RandomColor draws three independent channels.
func RandomColor(rng *rand.Rand) Color {
	return Color{
		R: uint8(rng.IntN(256)),
		G: uint8(rng.IntN(256)),
		B: uint8(rng.IntN(256)),
	}
}

// Clone returns an independent copy.
func (g *Genome) Clone() *Genome {
	c := *g
	return &c
}

// Equal reports whether the gene records and display color match.
// Lineage is not persisted and is ignored.
func (g *Genome) Equal(other *Genome) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Genes == other.Genes && g.Color == other.Color
}

// Seed returns the gene record used by a tree's first cell.
func (g *Genome) Seed() Gene {
	return g.Genes[0]
}
