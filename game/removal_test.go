package game

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
)

// assertGone checks that every query treats e as a removed tree.
func assertGone(t *testing.T, g *Game, e ecs.Entity) {
	t.Helper()
	if g.Alive(e) {
		t.Error("Alive reports a removed tree")
	}
	if _, ok := g.TreeInfo(e); ok {
		t.Error("TreeInfo returned a removed tree")
	}
	if _, ok := g.Genome(e); ok {
		t.Error("Genome returned a removed tree")
	}
}

func TestRemovedTrees_LeaveTheWorld(t *testing.T) {
	tests := []struct {
		name  string
		setup func(cfg *config.Config)
		ticks int
	}{
		{
			name:  "culled seedling",
			setup: func(cfg *config.Config) { cfg.Lifecycle.SeedlingCullAge = 2 },
			ticks: 2,
		},
		{
			name:  "decayed and reseeded",
			setup: func(cfg *config.Config) { cfg.Lifespan.Min, cfg.Lifespan.Max = 3, 3 },
			ticks: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.setup(cfg)
			g := newTestGame(t, cfg)

			e, err := g.AddTree(dormantGenome(), ground(g, 3))
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < tt.ticks; i++ {
				g.Step()
			}
			assertGone(t, g, e)

			trees := 0
			forEachTree(g, func(*components.Tree, *components.Body) { trees++ })
			if trees != g.Population() {
				t.Errorf("world holds %d trees, population says %d", trees, g.Population())
			}
		})
	}
}

func TestMutatedReproduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Lifespan.Min, cfg.Lifespan.Max = 3, 3
	cfg.Mutation.MinChance, cfg.Mutation.MaxChance = 1, 1
	g := newTestGame(t, cfg)

	parent := dormantGenome()
	if _, err := g.AddTree(parent, ground(g, 9)); err != nil {
		t.Fatal(err)
	}
	// Tick 3 collapses the tree, tick 4 plants its grounded debris.
	for i := 0; i < 4; i++ {
		g.Step()
	}

	if g.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", g.Generation())
	}
	child, ok := g.TreeAt(*ground(g, 9))
	if !ok {
		t.Fatal("no child at the seed position")
	}
	info, ok := g.TreeInfo(child)
	if !ok {
		t.Fatal("child missing from the world")
	}
	if info.Generation != 1 {
		t.Errorf("child generation = %d, want 1", info.Generation)
	}
	if info.Lineage != parent.Lineage {
		t.Errorf("child lineage = %v, want %v", info.Lineage, parent.Lineage)
	}
	if info.Color == parent.Color {
		t.Errorf("mutated child kept the parent's display color %v", info.Color)
	}
	genome, _ := g.Genome(child)
	if genome.Equal(parent) {
		t.Error("child genome should differ from the parent's")
	}
}

func TestExtinctionLogged_OnlyWhenNothingIsLeft(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := testConfig(t)
	cfg.Lifespan.Min, cfg.Lifespan.Max = 3, 3
	g := newTestGame(t, cfg)
	if _, err := g.AddTree(dormantGenome(), ground(g, 5)); err != nil {
		t.Fatal(err)
	}

	// The parent is removed on tick 4 but its seed replaces it.
	for i := 0; i < 4; i++ {
		g.Step()
	}
	if g.Population() != 1 {
		t.Fatalf("population = %d, want 1", g.Population())
	}
	if strings.Contains(buf.String(), "population extinct") {
		t.Error("extinction logged while a seedling was planted the same tick")
	}

	cull := testConfig(t)
	cull.Lifecycle.SeedlingCullAge = 1
	g2 := newTestGame(t, cull)
	if _, err := g2.AddTree(dormantGenome(), ground(g2, 5)); err != nil {
		t.Fatal(err)
	}
	g2.Step()
	if !strings.Contains(buf.String(), "population extinct") {
		t.Error("extinction not logged after the last tree was culled")
	}
}
