package ui

import (
	"fmt"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/telemetry"
	"github.com/pthm-cable/grove/ui/palette"
)

// HUDData holds everything the status lines show.
type HUDData struct {
	Tick         int32
	Trees        int
	Cells        int
	Generation   int
	Sun          int
	TickDuration time.Duration
	FPS          int32
	Mode         palette.Mode
	Paused       bool
	Placing      bool
	Status       string // Transient message, e.g. after a save
}

// HUD renders the status lines in the control strip.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD starting at (x, y).
func (h *HUD) Draw(x, y int32, data HUDData) {
	th := h.renderer.Theme

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Trees: %d | Cells: %d | Generation: %d",
			data.Tick, data.Trees, data.Cells, data.Generation),
		x, y, th.FontSize, th.LabelColor,
	)
	y += th.LineHeight

	rl.DrawText(
		fmt.Sprintf("Sun: %d | Tick: %dms | FPS: %d | View: %s",
			data.Sun, data.TickDuration.Milliseconds(), data.FPS, data.Mode),
		x, y, th.FontSize, th.LabelColor,
	)
	y += th.LineHeight

	status, color := "Running", th.StatusColor
	switch {
	case data.Placing:
		status, color = "Click the grid to plant the loaded genome (Esc cancels)", th.WarnColor
	case data.Status != "":
		status = data.Status
	case data.Paused:
		status = "PAUSED"
	}
	rl.DrawText(status, x, y, th.FontSize, color)
}

// DrawControls renders the key legend right-aligned on a line.
func (h *HUD) DrawControls(right, y int32, legend string) {
	w := rl.MeasureText(legend, 12)
	rl.DrawText(legend, right-w, y, 12, rl.Gray)
}

// PerfPanel renders the step phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel, slowest phase first.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	const width = 240
	height := int32(56 + 14*len(stats.PhaseAvg))
	p.renderer.DrawPanel(p.x, p.y, width, height)

	x := p.x + p.renderer.Theme.Padding
	y := p.y + 6
	y = p.renderer.DrawSectionHeader(x, y, "Step Performance")

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f ticks/s)",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 16

	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return int(stats.PhaseAvg[b] - stats.PhaseAvg[a])
	})

	for _, name := range names {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color)
		y += 14
	}
}
