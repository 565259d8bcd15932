package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

// AddTree seeds a new Alive tree. A nil genome draws a random one; a nil
// position picks a random free column on the ground row. The genome is
// copied, so the caller keeps ownership of its value.
func (g *Game) AddTree(genome *genetics.Genome, pos *components.Position) (ecs.Entity, error) {
	if genome == nil {
		genome = genetics.Random(g.rng)
	} else {
		genome = genome.Clone()
	}
	return g.plant(genome, pos, g.randomLifespan())
}

// plant places a founder with the given lifespan.
func (g *Game) plant(genome *genetics.Genome, pos *components.Position, lifespan int) (ecs.Entity, error) {
	var at components.Position
	if pos == nil {
		p, err := g.randomGroundPosition()
		if err != nil {
			return ecs.Entity{}, err
		}
		at = p
	} else {
		at = *pos
		if !g.index.InBounds(at) {
			return ecs.Entity{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, at.Col, at.Row)
		}
		if g.index.Occupied(at) {
			return ecs.Entity{}, fmt.Errorf("%w: (%d,%d)", ErrOccupied, at.Col, at.Row)
		}
	}

	entity := g.spawnTree(genome, at, lifespan, 0, 0, false)
	g.index.Place(at, entity)
	return entity, nil
}

// randomGroundPosition draws uniformly among free ground cells.
func (g *Game) randomGroundPosition() (components.Position, error) {
	ground := g.index.GroundRow()
	free := make([]int, 0, g.index.Width())
	for col := 0; col < g.index.Width(); col++ {
		if !g.index.Occupied(components.Position{Col: col, Row: ground}) {
			free = append(free, col)
		}
	}
	if len(free) == 0 {
		return components.Position{}, ErrNoRoom
	}
	return components.Position{Col: free[g.rng.IntN(len(free))], Row: ground}, nil
}

// spawnTree creates the entity for a new tree with a single seed cell
// running gene 0. The caller claims the seed position in the index.
func (g *Game) spawnTree(genome *genetics.Genome, pos components.Position, lifespan int, parentID uint32, generation int, mutated bool) ecs.Entity {
	id := g.newTreeID()

	tree := components.Tree{
		ID:         id,
		ParentID:   parentID,
		State:      components.StateAlive,
		Balance:    g.cfg.Energy.Initial,
		Lifespan:   lifespan,
		Generation: generation,
		BirthTick:  g.tick,
	}
	body := components.Body{Cells: []components.Cell{{Pos: pos}}}
	her := components.Heredity{Genome: genome}

	entity := g.treeMapper.NewEntity(&tree, &body, &her)
	g.population++
	g.lifetimes.Register(id, g.tick, parentID, genome.Lineage, generation, mutated, lifespan)
	return entity
}

// SettlePosition drops a requested seed position down its column until it
// rests on the ground or on another cell.
func (g *Game) SettlePosition(pos components.Position) (components.Position, error) {
	if !g.index.InBounds(pos) {
		return pos, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, pos.Col, pos.Row)
	}
	row := g.index.SupportedRow(pos.Col, pos.Row)
	if row < 0 {
		return pos, fmt.Errorf("%w: (%d,%d)", ErrOccupied, pos.Col, pos.Row)
	}
	return components.Position{Col: pos.Col, Row: row}, nil
}

// reseedIfNeeded plants genomes from the hall of fame when the population
// has fallen below the configured floor. Random founders fill in while the
// hall is still empty.
func (g *Game) reseedIfNeeded() {
	floor := g.cfg.Population.ReseedBelow
	if floor <= 0 || g.population >= floor {
		return
	}

	before := g.population
	reseeded := 0
	for i := 0; i < g.cfg.Population.ReseedCount; i++ {
		genome, lifespan := g.hallOfFame.Sample()
		if genome == nil {
			genome, lifespan = genetics.Random(g.rng), g.randomLifespan()
		}
		if _, err := g.plant(genome, nil, lifespan); err != nil {
			break
		}
		reseeded++
	}

	if reseeded > 0 {
		g.collector.RecordReseed(reseeded)
		slog.Info("hall_of_fame_reseed",
			"tick", g.tick,
			"population_before", before,
			"reseeded_count", reseeded,
			"hall_size", g.hallOfFame.Size(),
		)
	}
}
