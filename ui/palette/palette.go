// Package palette maps cells to display colors for each display mode.
// It has no raylib dependency so the mapping can be tested headless.
package palette

import (
	"strings"

	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/genetics"
)

// Mode selects how cells are colored.
type Mode int

const (
	Normal Mode = iota // Tree display color, or ImmatureColor for unripe cells
	Energy             // Red ramp on the light banked last tick
	Age                // Grey ramp on tree age, darker is older
	numModes
)

var modeNames = [numModes]string{"Normal", "Energy", "Age"}

func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return "Unknown"
	}
	return modeNames[m]
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	return (m + 1) % numModes
}

// ModeCount returns the number of display modes.
func ModeCount() int {
	return int(numModes)
}

// ToggleText returns the mode names joined for a raygui toggle group.
func ToggleText() string {
	return strings.Join(modeNames[:], ";")
}

// Fixed colors of the empty lattice.
var (
	Sky    = genetics.Color{R: 169, G: 169, B: 169}
	Ground = genetics.Color{R: 255, G: 255, B: 255}
)

// Background returns the color of an empty cell on the given row. Rows
// above the canopy are sky.
func Background(row, canopyRow int) genetics.Color {
	if row < canopyRow {
		return Sky
	}
	return Ground
}

// CellColor returns the color of one cell in the given mode.
func CellColor(c game.CellView, m Mode) genetics.Color {
	switch m {
	case Energy:
		return EnergyColor(c.LastEnergy)
	case Age:
		return AgeColor(c.TreeAge)
	default:
		return c.Color
	}
}

// EnergyColor ramps from dark red at zero light to full red.
func EnergyColor(lastEnergy int) genetics.Color {
	r := min(255, max(0, lastEnergy)*10+50)
	return genetics.Color{R: uint8(r)}
}

// AgeColor ramps from light grey for seedlings toward near black.
func AgeColor(age int) genetics.Color {
	shade := min(205.0, float64(max(0, age))*2.5)
	v := uint8(225 - shade)
	return genetics.Color{R: v, G: v, B: v}
}
