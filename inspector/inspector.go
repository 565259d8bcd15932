// Package inspector draws the panel for the selected tree: its ledger,
// read by reflection from game.TreeInfo, and its gene table.
package inspector

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/genetics"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	geneRowH     = 14
	sectionH     = 22
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector tracks the selected tree and renders its panel.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool

	panelX, panelY int32
	panelHeight    int32
	screenWidth    int32
	screenHeight   int32
}

// NewInspector creates an inspector anchored to the top right of the screen.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Select makes entity the inspected tree.
func (ins *Inspector) Select(entity ecs.Entity) {
	ins.selected = entity
	ins.hasSelected = true
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.selected = ecs.Entity{}
	ins.hasSelected = false
}

// Selected returns the inspected tree, if any.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// HandleClick reports whether a click at (mx, my) landed on the panel. A
// click on the close button also clears the selection.
func (ins *Inspector) HandleClick(mx, my int32) bool {
	if !ins.hasSelected {
		return false
	}
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
		ins.Deselect()
		return true
	}
	return mx >= ins.panelX && mx <= ins.panelX+PanelWidth &&
		my >= ins.panelY && my <= ins.panelY+ins.panelHeight
}

// Draw renders the panel for the selected tree.
func (ins *Inspector) Draw(info game.TreeInfo, genome *genetics.Genome) {
	if !ins.hasSelected || genome == nil {
		return
	}

	fields := ExtractFields(info)
	ins.panelHeight = HeaderHeight + PanelPadding +
		int32(len(fields))*18 + sectionH + genetics.NumGenes*geneRowH + PanelPadding
	ins.panelHeight = min(ins.panelHeight, ins.screenHeight-ins.panelY)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1, ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("TREE %d", info.ID), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}

	ins.drawSectionHeader(x, y, "Genes")
	y += sectionH
	drawGenes(x, y, genome)
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// drawGenes lists every gene as its four outcomes in Up, Left, Right, Down
// order. Blocked outcomes and dormant genes are greyed.
func drawGenes(x, y int32, genome *genetics.Genome) {
	const colW = 52
	for i, gene := range genome.Genes {
		label := ColorText
		if i == 0 {
			label = ColorSeedGene
		}
		if gene.Dormant() {
			label = ColorBlocked
		}
		rl.DrawText(fmt.Sprintf("%02d", i), x, y, 12, label)

		for d, dir := range genetics.Directions {
			text, color := "--", ColorBlocked
			if next, ok := gene.Outcome(dir); ok {
				text, color = fmt.Sprintf("%02d", next), ColorText
			}
			cx := x + 30 + int32(d)*colW
			rl.DrawText(strings.ToUpper(dir.String()[:1])+":"+text, cx, y, 12, color)
		}
		y += geneRowH
	}
}
