package components

// Cell is a single lattice unit of a tree.
type Cell struct {
	Pos        Position
	Gene       uint8 // Index of the gene record this cell was spawned with
	Energy     int   // Banked light, zeroed on harvest once Mature
	LastEnergy int   // Energy before the most recent harvest, kept for rendering
	Maturity   Maturity
}

// Body holds a tree's cells. Order is fixed at insertion so growth is
// evaluated in the same order every tick.
type Body struct {
	Cells []Cell
}

// Len returns the number of cells.
func (b *Body) Len() int {
	return len(b.Cells)
}

// CountMature returns the number of Mature cells.
func (b *Body) CountMature() int {
	n := 0
	for i := range b.Cells {
		if b.Cells[i].Maturity == Mature {
			n++
		}
	}
	return n
}

// RemoveAt deletes the cell at index i, keeping the order of the rest.
func (b *Body) RemoveAt(i int) Cell {
	c := b.Cells[i]
	b.Cells = append(b.Cells[:i], b.Cells[i+1:]...)
	return c
}

// Retain keeps only the cells for which keep returns true and returns the
// removed ones.
func (b *Body) Retain(keep func(*Cell) bool) []Cell {
	var dropped []Cell
	kept := b.Cells[:0]
	for i := range b.Cells {
		if keep(&b.Cells[i]) {
			kept = append(kept, b.Cells[i])
		} else {
			dropped = append(dropped, b.Cells[i])
		}
	}
	b.Cells = kept
	return dropped
}
