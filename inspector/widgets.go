package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg    = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill  = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow   = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText     = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim  = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBlocked  = rl.Color{R: 90, G: 90, B: 95, A: 255}
	ColorSeedGene = rl.Color{R: 255, G: 200, B: 100, A: 255}
)

// DrawLabel renders name: value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar scaled by the max option.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := value / GetMax(options)
	ratio = min(max(ratio, 0), 1)

	const barWidth, barHeight = int32(120), int32(12)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 90
	rl.DrawRectangle(barX, y+1, barWidth, barHeight, ColorBarBg)
	fill := ColorBarFill
	if ratio < 0.3 {
		fill = ColorBarLow
	}
	rl.DrawRectangle(barX, y+1, int32(float32(barWidth)*ratio), barHeight, fill)

	rl.DrawText(FormatValue(value, "%.0f"), barX+barWidth+6, y, 14, ColorTextDim)
	return 18
}

// DrawSwatch renders a color square with its channels.
func DrawSwatch(x, y int32, name string, r, g, b uint8) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(x+90, y+1, 12, 12, rl.Color{R: r, G: g, B: b, A: 255})
	rl.DrawRectangleLines(x+90, y+1, 12, 12, ColorTextDim)
	rl.DrawText(fmt.Sprintf("%d,%d,%d", r, g, b), x+108, y, 14, ColorTextDim)
	return 18
}

// DrawField renders a field with its widget, falling back to a label.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetSwatch:
		if r, g, b, ok := GetColor(field.Value); ok {
			return DrawSwatch(x, y, field.Name, r, g, b)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}
