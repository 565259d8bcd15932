package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/telemetry"
)

// flushTelemetry closes a stats window when due, writes output and checks
// for bookmarks. Periodic snapshots are taken on their own schedule.
func (g *Game) flushTelemetry() {
	if every := g.cfg.Telemetry.SnapshotEvery; g.snapshotDir != "" && every > 0 && int(g.tick)%every == 0 {
		g.saveSnapshot(nil)
	}

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// samplePopulation gathers the end-of-window state for the collector.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	s := telemetry.PopulationSample{
		Lineages:   g.lifetimes.ActiveLineageCount(),
		Generation: g.generation,
		SunLevel:   g.sunLevel,
	}

	query := g.treeFilter.Query()
	for query.Next() {
		tree, body, _ := query.Get()
		s.Trees++
		s.Cells += body.Len()
		s.MatureCells += body.CountMature()
		if tree.State == components.StateDecaying {
			s.Decaying++
			continue
		}
		s.Balances = append(s.Balances, float64(tree.Balance))
		s.Ages = append(s.Ages, float64(tree.Age))
		s.Sizes = append(s.Sizes, float64(body.Len()))
		s.Lifespans = append(s.Lifespans, float64(tree.Lifespan))
	}
	return s
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.CreateSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// CreateSnapshot captures the full world state.
func (g *Game) CreateSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    g.rngSeed,
		GridWidth:  g.cfg.Grid.Width,
		GridHeight: g.cfg.Grid.Height,
		Tick:       g.tick,
		SunLevel:   g.sunLevel,
		NextID:     g.nextID,
		Generation: g.generation,
		Bookmark:   bookmark,
	}

	query := g.treeFilter.Query()
	for query.Next() {
		tree, body, her := query.Get()
		snapshot.Trees = append(snapshot.Trees, telemetry.TreeState{
			ID:         tree.ID,
			ParentID:   tree.ParentID,
			State:      tree.State,
			Balance:    tree.Balance,
			Income:     tree.Income,
			Waste:      tree.Waste,
			Age:        tree.Age,
			Lifespan:   tree.Lifespan,
			Generation: tree.Generation,
			BirthTick:  tree.BirthTick,
			Genome:     her.Genome.Clone(),
			Cells:      telemetry.CellStates(body),
			Lifetime:   g.lifetimes.Get(tree.ID).ToJSON(),
		})
	}
	return snapshot
}

// RestoreSnapshot replaces every tree with the snapshot's and resumes from
// its tick. The random source is not rewound.
func (g *Game) RestoreSnapshot(s *telemetry.Snapshot) error {
	if s.GridWidth != g.cfg.Grid.Width || s.GridHeight != g.cfg.Grid.Height {
		return fmt.Errorf("snapshot grid %dx%d does not match world %dx%d",
			s.GridWidth, s.GridHeight, g.cfg.Grid.Width, g.cfg.Grid.Height)
	}
	for i := range s.Trees {
		if s.Trees[i].Genome == nil {
			return fmt.Errorf("snapshot tree %d has no genome", s.Trees[i].ID)
		}
	}

	var existing []ecs.Entity
	query := g.treeFilter.Query()
	for query.Next() {
		existing = append(existing, query.Entity())
	}
	for _, e := range existing {
		g.world.RemoveEntity(e)
	}
	g.lifetimes.Reset()

	g.tick = s.Tick
	g.sunLevel = s.SunLevel
	g.nextID = s.NextID
	g.generation = s.Generation
	g.population = 0

	for i := range s.Trees {
		ts := &s.Trees[i]
		tree := components.Tree{
			ID:         ts.ID,
			ParentID:   ts.ParentID,
			State:      ts.State,
			Balance:    ts.Balance,
			Income:     ts.Income,
			Waste:      ts.Waste,
			Age:        ts.Age,
			Lifespan:   ts.Lifespan,
			Generation: ts.Generation,
			BirthTick:  ts.BirthTick,
		}
		body := ts.Body()
		her := components.Heredity{Genome: ts.Genome.Clone()}
		g.treeMapper.NewEntity(&tree, &body, &her)
		g.population++

		if lt := ts.Lifetime.FromJSON(); lt != nil {
			g.lifetimes.Restore(ts.ID, lt)
		} else {
			g.lifetimes.Register(ts.ID, ts.BirthTick, ts.ParentID, ts.Genome.Lineage, ts.Generation, false, ts.Lifespan)
		}
		g.nextID = max(g.nextID, ts.ID+1)
	}

	g.rebuildIndex()
	slog.Info("snapshot restored", "tick", g.tick, "trees", g.population)
	return nil
}
