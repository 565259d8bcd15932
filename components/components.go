// Package components defines ECS components for the simulation.
package components

// Position is a lattice coordinate. Row 0 is the top of the sky; the last
// row is the ground. Columns wrap, rows do not.
type Position struct {
	Col, Row int
}

// Add returns p offset by (dCol, dRow) without wrapping.
func (p Position) Add(dCol, dRow int) Position {
	return Position{Col: p.Col + dCol, Row: p.Row + dRow}
}

// LifeState is a tree's lifecycle stage.
type LifeState uint8

const (
	StateAlive    LifeState = iota // Growing and harvesting light
	StateDecaying                  // Remnant cells fall and reproduce at the ground
)

func (s LifeState) String() string {
	if s == StateDecaying {
		return "decaying"
	}
	return "alive"
}

// Maturity is a cell's growth stage.
type Maturity uint8

const (
	Immature Maturity = iota // May still grow; banks light energy
	Mature                   // Finished growing; harvested every tick
)

func (m Maturity) String() string {
	if m == Mature {
		return "mature"
	}
	return "immature"
}
