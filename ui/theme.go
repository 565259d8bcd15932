// Package ui is the raylib presentation of a running world: the lattice
// view, HUD, control strip and input handling. It reads the world through
// game query methods and writes to it only through the command queue.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	StatusColor   rl.Color
	WarnColor     rl.Color
	SelectColor   rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	FontSize      int32
	HeadFontSize  int32
	ButtonW       float32
	ButtonH       float32
	ButtonGap     float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		StatusColor:   rl.Yellow,
		WarnColor:     rl.Orange,
		SelectColor:   rl.Color{R: 255, G: 60, B: 60, A: 255},
		Padding:       10,
		LineHeight:    18,
		LabelWidth:    90,
		FontSize:      14,
		HeadFontSize:  16,
		ButtonW:       80,
		ButtonH:       28,
		ButtonGap:     8,
	}
}
