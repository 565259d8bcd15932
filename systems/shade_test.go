package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

func TestShadeMap_MatchesIndex(t *testing.T) {
	idx := NewGridIndex(6, 10)
	for _, p := range []components.Position{
		{Col: 0, Row: 2}, {Col: 0, Row: 5}, {Col: 0, Row: 9},
		{Col: 3, Row: 4}, {Col: 5, Row: 0}, {Col: 5, Row: 1},
	} {
		idx.Place(p, ecs.Entity{})
	}

	sm := NewShadeMap(6, 10)
	sm.Update(idx)

	for col := 0; col < 6; col++ {
		for row := 0; row < 10; row++ {
			p := components.Position{Col: col, Row: row}
			if got, want := sm.CountAbove(p), idx.CountAbove(p); got != want {
				t.Errorf("CountAbove(%v) = %d, index says %d", p, got, want)
			}
		}
	}

	if got := sm.CountAbove(components.Position{Col: 0, Row: 20}); got != 0 {
		t.Errorf("off-lattice count = %d, want 0", got)
	}

	idx.Remove(components.Position{Col: 0, Row: 2})
	sm.Update(idx)
	if got := sm.CountAbove(components.Position{Col: 0, Row: 9}); got != 1 {
		t.Errorf("after removal CountAbove = %d, want 1", got)
	}
}
