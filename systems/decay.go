package systems

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/grove/components"
)

// DecayReason says why a tree stopped living.
type DecayReason uint8

const (
	NotDecaying DecayReason = iota
	Starved                 // Balance reached zero
	OldAge                  // Age reached lifespan
)

func (r DecayReason) String() string {
	switch r {
	case Starved:
		return "starved"
	case OldAge:
		return "old_age"
	}
	return "none"
}

// CheckDecay reports whether an Alive tree must start decaying.
func CheckDecay(tree *components.Tree) DecayReason {
	if tree.State != components.StateAlive {
		return NotDecaying
	}
	if tree.Balance <= 0 {
		return Starved
	}
	if tree.Age >= tree.Lifespan {
		return OldAge
	}
	return NotDecaying
}

// ShouldCull reports whether an Alive tree is a seedling that never
// established. cullAge 0 disables culling.
func ShouldCull(tree *components.Tree, body *components.Body, cullAge int) bool {
	return cullAge > 0 &&
		tree.State == components.StateAlive &&
		body.Len() == 1 &&
		tree.Age >= cullAge
}

// Collapse turns a tree into falling debris: Mature cells are discarded and
// freed in idx, Immature cells remain. It returns the number discarded.
func Collapse(tree *components.Tree, body *components.Body, idx *GridIndex) int {
	tree.State = components.StateDecaying
	dropped := body.Retain(func(c *components.Cell) bool {
		return c.Maturity == components.Immature
	})
	for _, c := range dropped {
		idx.Remove(c.Pos)
	}
	return len(dropped)
}

// Fall moves each cell of a decaying tree one row down when the position
// below is free. Cells on the ground stay; cells resting on anything else
// escape and are removed. Cells are processed from the lowest row up so a
// column of debris falls together. It returns the number escaped.
func Fall(body *components.Body, idx *GridIndex) int {
	ground := idx.GroundRow()

	order := make([]int, len(body.Cells))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(body.Cells[b].Pos.Row, body.Cells[a].Pos.Row)
	})

	escaped := make([]bool, len(body.Cells))
	n := 0
	for _, i := range order {
		c := &body.Cells[i]
		if c.Pos.Row >= ground {
			continue
		}
		below := c.Pos.Add(0, 1)
		if idx.Occupied(below) {
			idx.Remove(c.Pos)
			escaped[i] = true
			n++
			continue
		}
		idx.Move(c.Pos, below)
		c.Pos = below
	}

	if n > 0 {
		kept := body.Cells[:0]
		for i, c := range body.Cells {
			if !escaped[i] {
				kept = append(kept, c)
			}
		}
		body.Cells = kept
	}
	return n
}

// TakeGrounded removes and returns every cell on the ground row. Their
// positions stay claimed in the index so the seeds planted there cannot be
// taken by other falling debris in the same tick.
func TakeGrounded(body *components.Body, groundRow int) []components.Cell {
	var seeds []components.Cell
	kept := body.Cells[:0]
	for _, c := range body.Cells {
		if c.Pos.Row == groundRow {
			seeds = append(seeds, c)
		} else {
			kept = append(kept, c)
		}
	}
	body.Cells = kept
	return seeds
}
