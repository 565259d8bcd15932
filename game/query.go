package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

// ImmatureColor is the display color of cells that have not yet grown.
var ImmatureColor = genetics.Color{R: 240, G: 248, B: 255}

// CellView is what presentation needs to draw one cell.
type CellView struct {
	Entity     ecs.Entity
	Pos        components.Position
	Color      genetics.Color // Tree display color if Mature, ImmatureColor otherwise
	Lineage    genetics.Color
	Maturity   components.Maturity
	LastEnergy int
	TreeAge    int
	Decaying   bool
}

// TreeInfo is a read-only summary of one tree for inspection.
type TreeInfo struct {
	ID          uint32               `inspect:"label"`
	State       components.LifeState `inspect:"label"`
	Balance     int                  `inspect:"bar,max:1500"`
	Income      int                  `inspect:"label"`
	Waste       int                  `inspect:"label"`
	Age         int                  `inspect:"bar,max:100"`
	Lifespan    int                  `inspect:"label"`
	Generation  int                  `inspect:"label"`
	Cells       int                  `inspect:"bar,max:400"`
	MatureCells int                  `inspect:"label"`
	Color       genetics.Color       `inspect:"swatch"`
	Lineage     genetics.Color       `inspect:"swatch"`
}

// Cells returns a view of every cell in the world.
func (g *Game) Cells() []CellView {
	return g.AppendCells(nil)
}

// AppendCells appends a view of every cell to dst, so a renderer can reuse
// one buffer across frames.
func (g *Game) AppendCells(dst []CellView) []CellView {
	query := g.treeFilter.Query()
	for query.Next() {
		entity := query.Entity()
		tree, body, her := query.Get()
		for _, c := range body.Cells {
			color := ImmatureColor
			if c.Maturity == components.Mature {
				color = her.Genome.Color
			}
			dst = append(dst, CellView{
				Entity:     entity,
				Pos:        c.Pos,
				Color:      color,
				Lineage:    her.Genome.Lineage,
				Maturity:   c.Maturity,
				LastEnergy: c.LastEnergy,
				TreeAge:    tree.Age,
				Decaying:   tree.State == components.StateDecaying,
			})
		}
	}
	return dst
}

// TreeAt returns the tree owning the cell at pos.
func (g *Game) TreeAt(pos components.Position) (ecs.Entity, bool) {
	entity, ok := g.index.At(pos)
	if !ok || !g.world.Alive(entity) {
		return ecs.Entity{}, false
	}
	return entity, true
}

// Alive reports whether entity is still a tree in the world.
func (g *Game) Alive(entity ecs.Entity) bool {
	return g.world.Alive(entity)
}

// Genome returns a copy of a tree's genome.
func (g *Game) Genome(entity ecs.Entity) (*genetics.Genome, bool) {
	if !g.world.Alive(entity) {
		return nil, false
	}
	return g.heredity.Get(entity).Genome.Clone(), true
}

// TreeInfo returns the ledger and size of a tree.
func (g *Game) TreeInfo(entity ecs.Entity) (TreeInfo, bool) {
	if !g.world.Alive(entity) {
		return TreeInfo{}, false
	}
	tree := g.treeMap.Get(entity)
	body := g.bodyMap.Get(entity)
	genome := g.heredity.Get(entity).Genome
	return TreeInfo{
		ID:          tree.ID,
		State:       tree.State,
		Balance:     tree.Balance,
		Income:      tree.Income,
		Waste:       tree.Waste,
		Age:         tree.Age,
		Lifespan:    tree.Lifespan,
		Generation:  tree.Generation,
		Cells:       body.Len(),
		MatureCells: body.CountMature(),
		Color:       genome.Color,
		Lineage:     genome.Lineage,
	}, true
}
