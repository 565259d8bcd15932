package game

import (
	"testing"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/genetics"
)

// testConfig returns the embedded defaults on a small lattice with no
// random founders, no culling and no mutation.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Grid.Width = 20
	cfg.Grid.Height = 30
	cfg.Grid.CanopyRow = 5
	cfg.Derived.GroundRow = cfg.Grid.Height - 1
	cfg.Population.Initial = 0
	cfg.Population.ReseedBelow = 0
	cfg.Lifecycle.SeedlingCullAge = 0
	cfg.Lifespan.Min, cfg.Lifespan.Max = 50, 50
	cfg.Lifespan.DriftChance = 0
	cfg.Mutation.MinChance, cfg.Mutation.MaxChance = 0, 0
	cfg.Energy.GrowthCost = 18
	cfg.Energy.UpkeepPerCell = 13
	cfg.Energy.ShadeLimit = 3
	cfg.Sun.Level = 6
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{Seed: 1, Config: cfg})
	t.Cleanup(g.Unload)
	return g
}

func blockedGene() genetics.Gene {
	return genetics.Gene{genetics.Blocked, genetics.Blocked, genetics.Blocked, genetics.Blocked}
}

// dormantGenome never grows: every outcome of every gene is blocked.
func dormantGenome() *genetics.Genome {
	g := &genetics.Genome{Color: genetics.Color{R: 20, G: 160, B: 40}}
	for i := range g.Genes {
		g.Genes[i] = blockedGene()
	}
	g.Lineage = g.Color
	return g
}

// branchGenome grows one cell in direction d from the seed, then stops.
func branchGenome(d genetics.Direction) *genetics.Genome {
	g := dormantGenome()
	g.Genes[0][d] = 1
	return g
}

func ground(g *Game, col int) *components.Position {
	return &components.Position{Col: col, Row: g.index.GroundRow()}
}

// forEachTree visits every tree with its components.
func forEachTree(g *Game, fn func(tree *components.Tree, body *components.Body)) {
	query := g.treeFilter.Query()
	for query.Next() {
		tree, body, _ := query.Get()
		fn(tree, body)
	}
}
