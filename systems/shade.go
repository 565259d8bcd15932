package systems

import "github.com/pthm-cable/grove/components"

// Shader counts the occupied cells above a position.
type Shader interface {
	CountAbove(p components.Position) int
}

// ShadeMap caches, for every lattice position, how many occupied cells sit
// above it in its column. One Update replaces a column scan per cell.
type ShadeMap struct {
	width, height int
	above         []int
}

// NewShadeMap creates a shade map for a width × height lattice.
func NewShadeMap(width, height int) *ShadeMap {
	return &ShadeMap{
		width:  width,
		height: height,
		above:  make([]int, width*height),
	}
}

// Update recomputes the map from the current occupancy of idx.
func (sm *ShadeMap) Update(idx *GridIndex) {
	for col := 0; col < sm.width; col++ {
		n := 0
		for row := 0; row < sm.height; row++ {
			p := components.Position{Col: col, Row: row}
			sm.above[row*sm.width+col] = n
			if idx.Occupied(p) {
				n++
			}
		}
	}
}

// CountAbove returns the cached count for p, or 0 off the lattice.
func (sm *ShadeMap) CountAbove(p components.Position) int {
	if p.Col < 0 || p.Col >= sm.width || p.Row < 0 || p.Row >= sm.height {
		return 0
	}
	return sm.above[p.Row*sm.width+p.Col]
}
