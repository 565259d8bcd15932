// Package game owns a world of trees: the ECS store, the grid index, the
// random source and the tick loop. Presentation code reads it through the
// query methods and writes to it through the command queue.
package game

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/genetics"
	"github.com/pthm-cable/grove/systems"
	"github.com/pthm-cable/grove/telemetry"
)

var (
	// ErrOccupied is returned when a tree is seeded on a taken position.
	ErrOccupied = errors.New("position occupied")
	// ErrOutOfBounds is returned when a tree is seeded off the lattice.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrNoRoom is returned when no free ground column is left for a random seed.
	ErrNoRoom = errors.New("no free ground column")
)

// maxStepsPerFrame bounds catch-up ticks in Advance after a long frame.
const maxStepsPerFrame = 8

// Options configures a Game.
type Options struct {
	Seed           int64
	Config         *config.Config // nil uses config.Cfg()
	LogStats       bool
	StatsWindow    int // Ticks per stats window, 0 uses config
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int // Ticks per UpdateHeadless call
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	treeMapper *ecs.Map3[components.Tree, components.Body, components.Heredity]
	treeFilter *ecs.Filter3[components.Tree, components.Body, components.Heredity]
	treeMap    *ecs.Map[components.Tree]
	bodyMap    *ecs.Map[components.Body]
	heredity   *ecs.Map[components.Heredity]

	index    *systems.GridIndex
	shade    *systems.ShadeMap
	commands *CommandQueue

	// State
	tick         int32
	paused       bool
	sunLevel     int
	tickDuration time.Duration
	sinceTick    time.Duration
	generation   int
	nextID       uint32
	population   int

	stepsPerUpdate int

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	lifetimes     *telemetry.LifetimeTracker
	hallOfFame    *telemetry.HallOfFame
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	snapshotDir   string
}

// NewGameWithOptions creates a world and seeds the initial population.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	rng := seededRNG(opts.Seed)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:     cfg,
		world:   world,
		rng:     rng,
		rngSeed: opts.Seed,

		treeMapper: ecs.NewMap3[components.Tree, components.Body, components.Heredity](world),
		treeFilter: ecs.NewFilter3[components.Tree, components.Body, components.Heredity](world),
		treeMap:    ecs.NewMap[components.Tree](world),
		bodyMap:    ecs.NewMap[components.Body](world),
		heredity:   ecs.NewMap[components.Heredity](world),

		index:    systems.NewGridIndex(cfg.Grid.Width, cfg.Grid.Height),
		shade:    systems.NewShadeMap(cfg.Grid.Width, cfg.Grid.Height),
		commands: NewCommandQueue(64),

		sunLevel:       cfg.Sun.Level,
		tickDuration:   time.Duration(cfg.Tick.DurationMS) * time.Millisecond,
		nextID:         1,
		stepsPerUpdate: steps,

		collector:     telemetry.NewCollector(int32(statsWindow)),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		lifetimes:     telemetry.NewLifetimeTracker(),
		hallOfFame:    telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize, rand.New(rand.NewPCG(seedWord(opts.Seed, "hof"), 0))),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.spawnInitialPopulation()
	return g
}

// spawnInitialPopulation seeds random founders on free ground columns.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.cfg.Population.Initial; i++ {
		if _, err := g.AddTree(nil, nil); err != nil {
			slog.Warn("initial population truncated", "planted", i, "error", err)
			return
		}
	}
}

// Update drains pending commands and, unless paused, advances one tick.
// Step commands advance a tick even while paused.
func (g *Game) Update() {
	steps := g.drainCommands()
	if !g.paused {
		steps = max(steps, 1)
	}
	for i := 0; i < steps; i++ {
		g.Step()
	}
}

// UpdateHeadless advances StepsPerUpdate ticks, ignoring the tick duration.
func (g *Game) UpdateHeadless() {
	steps := g.drainCommands()
	if !g.paused {
		steps = max(steps, g.stepsPerUpdate)
	}
	for i := 0; i < steps; i++ {
		g.Step()
	}
}

// Advance drains commands and runs as many ticks as fit in the time elapsed
// since the last tick, pacing the windowed loop by the tick duration.
// Returns the number of ticks run.
func (g *Game) Advance(elapsed time.Duration) int {
	steps := g.drainCommands()
	if !g.paused {
		g.sinceTick += elapsed
		if g.tickDuration <= 0 {
			steps = max(steps, 1)
			g.sinceTick = 0
		} else {
			for g.sinceTick >= g.tickDuration && steps < maxStepsPerFrame {
				g.sinceTick -= g.tickDuration
				steps++
			}
			if steps == maxStepsPerFrame {
				g.sinceTick = 0
			}
		}
	}
	for i := 0; i < steps; i++ {
		g.Step()
	}
	return steps
}

// Paused reports whether automatic ticking is stopped.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused stops or resumes automatic ticking.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// SunLevel returns the ambient light bonus.
func (g *Game) SunLevel() int {
	return g.sunLevel
}

// SetSunLevel sets the ambient light bonus, clamped to the configured range.
func (g *Game) SetSunLevel(n int) {
	g.sunLevel = min(max(n, g.cfg.Sun.Min), g.cfg.Sun.Max)
}

// TickDuration returns the wall-clock time between ticks in the windowed loop.
func (g *Game) TickDuration() time.Duration {
	return g.tickDuration
}

// SetTickDuration sets the time between ticks, clamped to the configured range.
func (g *Game) SetTickDuration(d time.Duration) {
	lo := time.Duration(g.cfg.Tick.MinMS) * time.Millisecond
	hi := time.Duration(g.cfg.Tick.MaxMS) * time.Millisecond
	g.tickDuration = min(max(d, lo), hi)
}

// Config returns the configuration the world was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Perf returns the step timing collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perf
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Generation returns the number of mutated births so far.
func (g *Game) Generation() int {
	return g.generation
}

// Population returns the number of trees in the world.
func (g *Game) Population() int {
	return g.population
}

// HallOfFame returns the genomes kept for reseeding.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// Unload writes final output and releases resources.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.WriteHallOfFame(g.hallOfFame); err != nil {
			slog.Error("failed to write hall of fame", "error", err)
		}
		if err := g.output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.output = nil
	}
}

// newTreeID allocates a tree ID.
func (g *Game) newTreeID() uint32 {
	id := g.nextID
	g.nextID++
	return id
}

// randomLifespan draws a founder lifespan from the configured range.
func (g *Game) randomLifespan() int {
	lo, hi := g.cfg.Lifespan.Min, g.cfg.Lifespan.Max
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Game) mutationParams() genetics.MutationParams {
	return genetics.MutationParams{
		MinChance: g.cfg.Mutation.MinChance,
		MaxChance: g.cfg.Mutation.MaxChance,
		MaxEnergy: g.cfg.Mutation.MaxEnergy,
	}
}
