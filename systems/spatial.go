// Package systems provides the per-tick rules of the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

// GridIndex maps lattice positions to the tree owning the cell there.
// It is rebuilt from scratch at the start of every tick, then kept in step
// with growth, collapse and falling so later checks in the same tick see
// every claim made before them.
type GridIndex struct {
	width    int
	height   int
	occupied []bool
	owners   []ecs.Entity
	count    int
}

// NewGridIndex creates an empty index for a width x height lattice.
func NewGridIndex(width, height int) *GridIndex {
	return &GridIndex{
		width:    width,
		height:   height,
		occupied: make([]bool, width*height),
		owners:   make([]ecs.Entity, width*height),
	}
}

// Width returns the number of columns.
func (g *GridIndex) Width() int { return g.width }

// Height returns the number of rows.
func (g *GridIndex) Height() int { return g.height }

// GroundRow returns the bottom row.
func (g *GridIndex) GroundRow() int { return g.height - 1 }

// Count returns the number of occupied positions.
func (g *GridIndex) Count() int { return g.count }

// Clear empties the index.
func (g *GridIndex) Clear() {
	clear(g.occupied)
	clear(g.owners)
	g.count = 0
}

// Wrap folds the column into [0, width). Rows are left alone.
func (g *GridIndex) Wrap(p components.Position) components.Position {
	p.Col %= g.width
	if p.Col < 0 {
		p.Col += g.width
	}
	return p
}

// InBounds reports whether the row is on the lattice and the column is
// already wrapped.
func (g *GridIndex) InBounds(p components.Position) bool {
	return p.Col >= 0 && p.Col < g.width && p.Row >= 0 && p.Row < g.height
}

func (g *GridIndex) index(p components.Position) int {
	return p.Row*g.width + p.Col
}

// Occupied reports whether a cell sits at p. Off-lattice positions are
// never occupied.
func (g *GridIndex) Occupied(p components.Position) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.occupied[g.index(p)]
}

// At returns the owner of the cell at p.
func (g *GridIndex) At(p components.Position) (ecs.Entity, bool) {
	if !g.InBounds(p) {
		return ecs.Entity{}, false
	}
	i := g.index(p)
	return g.owners[i], g.occupied[i]
}

// Place claims p for owner. It returns false when p is off the lattice or
// already taken.
func (g *GridIndex) Place(p components.Position, owner ecs.Entity) bool {
	if !g.InBounds(p) {
		return false
	}
	i := g.index(p)
	if g.occupied[i] {
		return false
	}
	g.occupied[i] = true
	g.owners[i] = owner
	g.count++
	return true
}

// Assign hands an occupied position to a new owner.
func (g *GridIndex) Assign(p components.Position, owner ecs.Entity) {
	if !g.InBounds(p) {
		return
	}
	i := g.index(p)
	if !g.occupied[i] {
		g.occupied[i] = true
		g.count++
	}
	g.owners[i] = owner
}

// Remove frees p.
func (g *GridIndex) Remove(p components.Position) {
	if !g.InBounds(p) {
		return
	}
	i := g.index(p)
	if g.occupied[i] {
		g.occupied[i] = false
		g.owners[i] = ecs.Entity{}
		g.count--
	}
}

// Move transfers the claim at from to the free position to.
func (g *GridIndex) Move(from, to components.Position) bool {
	owner, ok := g.At(from)
	if !ok {
		return false
	}
	if !g.Place(to, owner) {
		return false
	}
	g.Remove(from)
	return true
}

// CountAbove returns how many positions in p's column with a smaller row
// are occupied.
func (g *GridIndex) CountAbove(p components.Position) int {
	if !g.InBounds(p) {
		return 0
	}
	n := 0
	for row := 0; row < p.Row; row++ {
		if g.occupied[row*g.width+p.Col] {
			n++
		}
	}
	return n
}

// SupportedRow returns the lowest free row in col at or below fromRow before
// the first occupied cell, or -1 if fromRow itself is taken.
func (g *GridIndex) SupportedRow(col, fromRow int) int {
	p := g.Wrap(components.Position{Col: col, Row: max(fromRow, 0)})
	if p.Row >= g.height || g.Occupied(p) {
		return -1
	}
	for p.Row < g.height-1 && !g.Occupied(p.Add(0, 1)) {
		p.Row++
	}
	return p.Row
}
