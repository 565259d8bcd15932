package palette

import (
	"testing"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/genetics"
)

func TestMode_Next(t *testing.T) {
	m := Normal
	seen := make(map[Mode]bool)
	for i := 0; i < ModeCount(); i++ {
		seen[m] = true
		m = m.Next()
	}
	if m != Normal {
		t.Errorf("cycle ended on %v, want Normal", m)
	}
	if len(seen) != ModeCount() {
		t.Errorf("visited %d modes, want %d", len(seen), ModeCount())
	}
	if got := ToggleText(); got != "Normal;Energy;Age" {
		t.Errorf("ToggleText() = %q", got)
	}
}

func TestBackground(t *testing.T) {
	if got := Background(0, 19); got != Sky {
		t.Errorf("row 0 = %v, want sky", got)
	}
	if got := Background(18, 19); got != Sky {
		t.Errorf("row 18 = %v, want sky", got)
	}
	if got := Background(19, 19); got != Ground {
		t.Errorf("canopy row = %v, want ground", got)
	}
}

func TestEnergyColor(t *testing.T) {
	tests := []struct {
		energy int
		want   uint8
	}{
		{0, 50},
		{3, 80},
		{20, 250},
		{21, 255},
		{100, 255},
		{-4, 50},
	}
	for _, tt := range tests {
		got := EnergyColor(tt.energy)
		if got.R != tt.want || got.G != 0 || got.B != 0 {
			t.Errorf("EnergyColor(%d) = %v, want R=%d", tt.energy, got, tt.want)
		}
	}
}

func TestAgeColor(t *testing.T) {
	tests := []struct {
		age  int
		want uint8
	}{
		{0, 225},
		{10, 200},
		{82, 20},
		{500, 20},
	}
	for _, tt := range tests {
		got := AgeColor(tt.age)
		if got.R != tt.want || got.G != tt.want || got.B != tt.want {
			t.Errorf("AgeColor(%d) = %v, want grey %d", tt.age, got, tt.want)
		}
	}
}

func TestCellColor(t *testing.T) {
	display := genetics.Color{R: 10, G: 120, B: 30}
	cell := game.CellView{
		Pos:        components.Position{Col: 3, Row: 40},
		Color:      display,
		Maturity:   components.Mature,
		LastEnergy: 5,
		TreeAge:    4,
	}

	tests := []struct {
		mode Mode
		want genetics.Color
	}{
		{Normal, display},
		{Energy, genetics.Color{R: 100}},
		{Age, genetics.Color{R: 215, G: 215, B: 215}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := CellColor(cell, tt.mode); got != tt.want {
				t.Errorf("CellColor() = %v, want %v", got, tt.want)
			}
		})
	}
}
