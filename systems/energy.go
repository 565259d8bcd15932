package systems

import "github.com/pthm-cable/grove/components"

// LightParams holds the inputs of the light model.
type LightParams struct {
	Sun        int // Ambient sun level
	MaxLight   int // Cap on light level
	ShadeLimit int // Cells above at which a cell collects nothing
	Height     int // Lattice rows
}

// LightLevel returns the light reaching row: one more per row above the
// ground plus the sun level, capped at MaxLight.
func LightLevel(row int, p LightParams) int {
	return min(p.Height-row-1+p.Sun, p.MaxLight)
}

// CellIncome returns the light a cell banks in one tick given the number of
// occupied cells above it.
func CellIncome(level, shade, shadeLimit int) int {
	return level * max(shadeLimit-shade, 0)
}

// Accumulate adds one tick of light to every cell of the tree regardless of
// maturity, and records the new total as LastEnergy. It returns the light
// gained.
func Accumulate(body *components.Body, shade Shader, p LightParams) int {
	gained := 0
	for i := range body.Cells {
		c := &body.Cells[i]
		e := CellIncome(LightLevel(c.Pos.Row, p), shade.CountAbove(c.Pos), p.ShadeLimit)
		c.Energy += e
		c.LastEnergy = c.Energy
		gained += e
	}
	return gained
}

// Settle harvests the energy of every Mature cell into the tree balance and
// charges upkeep for every cell.
func Settle(tree *components.Tree, body *components.Body, upkeepPerCell int) {
	income := 0
	for i := range body.Cells {
		c := &body.Cells[i]
		if c.Maturity != components.Mature {
			continue
		}
		income += c.Energy
		c.Energy = 0
	}
	tree.Income = income
	tree.Waste = len(body.Cells) * upkeepPerCell
	tree.Balance += tree.Income - tree.Waste
}
