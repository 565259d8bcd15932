package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
	"github.com/pthm-cable/grove/systems"
	"github.com/pthm-cable/grove/telemetry"
)

// birth is a seed dropped by decaying debris, planted after the lifecycle pass.
type birth struct {
	parentID   uint32
	pos        components.Position
	genome     *genetics.Genome
	lifespan   int
	generation int
	mutated    bool
}

// removal is a tree leaving the world after the lifecycle pass.
type removal struct {
	entity ecs.Entity
	id     uint32
	culled bool
}

// Step advances the world by one tick.
func (g *Game) Step() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseGrid)
	g.rebuildIndex()

	g.perf.StartPhase(telemetry.PhaseGrowth)
	g.updateGrowth()

	g.perf.StartPhase(telemetry.PhaseEnergy)
	g.updateEnergy()

	g.perf.StartPhase(telemetry.PhaseLifecycle)
	births, removals := g.updateLifecycle()

	g.perf.StartPhase(telemetry.PhaseCleanup)
	before := g.population
	g.removeTrees(removals)
	g.plantSeeds(births)
	g.reseedIfNeeded()
	if before > 0 && g.population == 0 {
		slog.Info("population extinct", "tick", g.tick, "generation", g.generation)
	}

	g.tick++

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndTick()
}

// rebuildIndex recomputes occupancy from every tree's cells.
func (g *Game) rebuildIndex() {
	g.index.Clear()

	query := g.treeFilter.Query()
	for query.Next() {
		entity := query.Entity()
		_, body, _ := query.Get()
		for _, c := range body.Cells {
			if !g.index.Place(c.Pos, entity) {
				slog.Error("cell overlap", "col", c.Pos.Col, "row", c.Pos.Row, "tick", g.tick)
			}
		}
	}
}

// updateGrowth ages every living tree and runs its genome program.
func (g *Game) updateGrowth() {
	params := systems.GrowthParams{
		Cost:      g.cfg.Energy.GrowthCost,
		CanopyRow: g.cfg.Grid.CanopyRow,
	}

	query := g.treeFilter.Query()
	for query.Next() {
		entity := query.Entity()
		tree, body, her := query.Get()
		if tree.State != components.StateAlive {
			continue
		}
		tree.Age++
		res := systems.Grow(entity, body, her.Genome, g.index, params)
		g.collector.RecordGrowth(res.Branches)
	}
}

// updateEnergy banks light in every living cell and settles each ledger.
func (g *Game) updateEnergy() {
	light := systems.LightParams{
		Sun:        g.sunLevel,
		MaxLight:   g.cfg.Energy.MaxLight,
		ShadeLimit: g.cfg.Energy.ShadeLimit,
		Height:     g.cfg.Grid.Height,
	}

	g.shade.Update(g.index)

	query := g.treeFilter.Query()
	for query.Next() {
		tree, body, _ := query.Get()
		if tree.State != components.StateAlive {
			continue
		}
		systems.Accumulate(body, g.shade, light)
		systems.Settle(tree, body, g.cfg.Energy.UpkeepPerCell)
		g.lifetimes.Update(tree.ID, body.Len(), tree.Balance, tree.Age)
	}
}

// updateLifecycle culls failed seedlings, collapses trees that starved or
// aged out, and lets debris of trees already decaying fall and seed.
// Structural changes are returned for the caller to apply after the query.
func (g *Game) updateLifecycle() ([]birth, []removal) {
	var births []birth
	var removals []removal

	ground := g.index.GroundRow()
	mutation := g.mutationParams()

	query := g.treeFilter.Query()
	for query.Next() {
		entity := query.Entity()
		tree, body, her := query.Get()

		switch tree.State {
		case components.StateAlive:
			if systems.ShouldCull(tree, body, g.cfg.Lifecycle.SeedlingCullAge) {
				removals = append(removals, removal{entity: entity, id: tree.ID, culled: true})
				continue
			}
			reason := systems.CheckDecay(tree)
			if reason == systems.NotDecaying {
				continue
			}
			dropped := systems.Collapse(tree, body, g.index)
			g.collector.RecordDecay(reason)
			slog.Debug("tree decaying",
				"id", tree.ID,
				"reason", reason.String(),
				"age", tree.Age,
				"balance", tree.Balance,
				"dropped", dropped,
				"remaining", body.Len(),
			)

		case components.StateDecaying:
			g.collector.RecordEscape(systems.Fall(body, g.index))
			for _, seed := range systems.TakeGrounded(body, ground) {
				child, mutated := genetics.Mutate(g.rng, her.Genome, tree.Balance, mutation)
				generation := tree.Generation
				if mutated {
					child.Color = genetics.RandomColor(g.rng)
					generation++
				}
				births = append(births, birth{
					parentID:   tree.ID,
					pos:        seed.Pos,
					genome:     child,
					lifespan:   genetics.DriftLifespan(g.rng, tree.Lifespan, g.cfg.Lifespan.DriftChance),
					generation: generation,
					mutated:    mutated,
				})
				g.lifetimes.RecordChild(tree.ID)
			}
		}

		if body.Len() == 0 {
			removals = append(removals, removal{entity: entity, id: tree.ID})
		}
	}

	return births, removals
}

// removeTrees deletes finished trees. Culled trees still hold cells, which
// are released from the index.
func (g *Game) removeTrees(removals []removal) {
	for _, r := range removals {
		if r.culled {
			for _, c := range g.bodyMap.Get(r.entity).Cells {
				g.index.Remove(c.Pos)
			}
			g.collector.RecordCull()
		}

		if stats := g.lifetimes.Remove(r.id); stats != nil {
			g.hallOfFame.Consider(g.heredity.Get(r.entity).Genome, stats, r.id)
		}
		g.collector.RecordRemoval()
		g.world.RemoveEntity(r.entity)
		g.population--
	}

}

// plantSeeds spawns a tree for every seed. Each seed position is still
// claimed by its parent in the index and is handed to the child.
func (g *Game) plantSeeds(births []birth) {
	for _, b := range births {
		child := g.spawnTree(b.genome, b.pos, b.lifespan, b.parentID, b.generation, b.mutated)
		g.index.Assign(b.pos, child)
		g.collector.RecordBirth(b.mutated)
		if b.mutated {
			g.generation++
		}
	}
}
