package systems

import (
	"testing"

	"github.com/pthm-cable/grove/components"
)

var testLight = LightParams{Sun: 6, MaxLight: 16, ShadeLimit: 3, Height: 90}

func TestLightLevel(t *testing.T) {
	tests := []struct {
		name string
		row  int
		sun  int
		want int
	}{
		{"ground", 89, 6, 6},
		{"one above ground", 88, 6, 7},
		{"capped high up", 20, 6, 16},
		{"no sun on ground", 89, 0, 0},
		{"bright sun capped", 89, 30, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testLight
			p.Sun = tt.sun
			if got := LightLevel(tt.row, p); got != tt.want {
				t.Errorf("LightLevel(%d) = %d, want %d", tt.row, got, tt.want)
			}
		})
	}
}

func TestLightLevel_Monotonic(t *testing.T) {
	for row := 89; row > 0; row-- {
		if LightLevel(row-1, testLight) < LightLevel(row, testLight) {
			t.Fatalf("light decreased going up at row %d", row)
		}
	}
	for sun := 0; sun < 16; sun++ {
		lo := testLight
		lo.Sun = sun
		hi := testLight
		hi.Sun = sun + 1
		if LightLevel(80, hi) < LightLevel(80, lo) {
			t.Fatalf("light decreased with more sun at %d", sun)
		}
	}
}

func TestCellIncome_Shading(t *testing.T) {
	level := 10
	prev := CellIncome(level, 0, 3)
	if prev != 30 {
		t.Fatalf("unshaded income = %d, want 30", prev)
	}
	for shade := 1; shade <= 6; shade++ {
		got := CellIncome(level, shade, 3)
		if got > prev {
			t.Errorf("income rose from %d to %d with shade %d", prev, got, shade)
		}
		if shade >= 3 && got != 0 {
			t.Errorf("shade %d should block all light, got %d", shade, got)
		}
		prev = got
	}
}

func TestAccumulate(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 90)
	body := &components.Body{Cells: []components.Cell{
		{Pos: pos(2, 89), Energy: 5, Maturity: components.Mature},
		{Pos: pos(2, 88)},
		{Pos: pos(3, 89)},
	}}
	for _, c := range body.Cells {
		idx.Place(c.Pos, owners[0])
	}

	gained := Accumulate(body, idx, testLight)

	// (2,89): level 6, one above -> 6*2; (2,88): level 7 -> 21; (3,89): 18
	if body.Cells[0].Energy != 5+12 {
		t.Errorf("shaded ground cell energy = %d, want 17", body.Cells[0].Energy)
	}
	if body.Cells[1].Energy != 21 {
		t.Errorf("top cell energy = %d, want 21", body.Cells[1].Energy)
	}
	if body.Cells[2].Energy != 18 {
		t.Errorf("open ground cell energy = %d, want 18", body.Cells[2].Energy)
	}
	if gained != 12+21+18 {
		t.Errorf("gained = %d, want 51", gained)
	}
	for i, c := range body.Cells {
		if c.LastEnergy != c.Energy {
			t.Errorf("cell %d LastEnergy = %d, want %d", i, c.LastEnergy, c.Energy)
		}
	}
}

func TestSettle(t *testing.T) {
	tree := &components.Tree{Balance: 300}
	body := &components.Body{Cells: []components.Cell{
		{Energy: 40, Maturity: components.Mature},
		{Energy: 25, Maturity: components.Mature},
		{Energy: 30, Maturity: components.Immature},
	}}

	Settle(tree, body, 13)

	if tree.Income != 65 {
		t.Errorf("Income = %d, want 65", tree.Income)
	}
	if tree.Waste != 39 {
		t.Errorf("Waste = %d, want 39", tree.Waste)
	}
	if tree.Balance != 300+65-39 {
		t.Errorf("Balance = %d, want 326", tree.Balance)
	}
	for i, c := range body.Cells {
		if c.Maturity == components.Mature && c.Energy != 0 {
			t.Errorf("mature cell %d kept energy %d", i, c.Energy)
		}
	}
	if body.Cells[2].Energy != 30 {
		t.Error("immature cell energy should be banked, not harvested")
	}
}
