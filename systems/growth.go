package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

// GrowthParams holds the growth rule constants.
type GrowthParams struct {
	Cost      int // Banked energy a cell spends to grow, once per tick
	CanopyRow int // Highest row a new cell may occupy
}

// GrowthResult counts what happened to one tree in a growth pass.
type GrowthResult struct {
	Grown    int // Cells that spawned at least one branch
	Branches int // New cells placed
	DeadEnds int // Cells with nowhere to grow, now Mature
}

// GrowthTarget returns the wrapped neighbour of pos in direction d and
// whether a cell may grow there. Rows above the canopy or off the lattice
// are never growable.
func GrowthTarget(idx *GridIndex, pos components.Position, d genetics.Direction, canopyRow int) (components.Position, bool) {
	dc, dr := d.Offset()
	target := idx.Wrap(pos.Add(dc, dr))
	if target.Row < canopyRow || target.Row >= idx.Height() {
		return target, false
	}
	return target, true
}

// Grow runs the genome program over every Immature cell the tree had when
// the pass began, in body order. A cell that finds at least one free target
// and has banked enough energy places a child in every direction still free
// when it is checked, pays the cost once, and matures. A cell with no free
// target matures as a dead end. A dormant gene never tries any direction,
// so its cell stays Immature. Children are claimed in idx immediately and
// evaluated from the next tick.
func Grow(owner ecs.Entity, body *components.Body, genome *genetics.Genome, idx *GridIndex, p GrowthParams) GrowthResult {
	var res GrowthResult

	n := len(body.Cells)
	for i := 0; i < n; i++ {
		if body.Cells[i].Maturity != components.Immature {
			continue
		}
		gene := genome.Genes[body.Cells[i].Gene]
		if gene.Dormant() {
			continue
		}

		canGrow := false
		grew := false
		for _, d := range genetics.Directions {
			childGene, ok := gene.Outcome(d)
			if !ok {
				continue
			}
			target, ok := GrowthTarget(idx, body.Cells[i].Pos, d, p.CanopyRow)
			if !ok || idx.Occupied(target) {
				continue
			}
			canGrow = true
			if body.Cells[i].Energy < p.Cost {
				continue
			}
			idx.Place(target, owner)
			body.Cells = append(body.Cells, components.Cell{
				Pos:  target,
				Gene: childGene,
			})
			grew = true
			res.Branches++
		}

		cell := &body.Cells[i]
		switch {
		case grew:
			cell.Energy -= p.Cost
			cell.Maturity = components.Mature
			res.Grown++
		case !canGrow:
			cell.Maturity = components.Mature
			res.DeadEnds++
		}
	}

	return res
}
