package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
	lastSurvival   float64 // mean survival ticks from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 100,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score and mean survival of the most
// recent evaluation.
func (fe *FitnessEvaluator) LastQuality() (quality, survival float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality, fe.lastSurvival
}

// A forest below minViableTrees for graceTicks in a row counts as dead.
const (
	minViableTrees = 2
	graceTicks     = 500
	warmupTicks    = 200
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before the forest died (or maxTicks if it lived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    *telemetry.HallOfFame
	lattice       int // cells below the canopy line
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	survival   float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel; each run owns its world and random source.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			q := computeQuality(r.windowStats, r.lattice)
			results[idx] = seedResult{
				fitness:    computeFitness(r.survivalTicks, q),
				quality:    q,
				survival:   float64(r.survivalTicks),
				hallOfFame: r.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalSurvival float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalSurvival += r.survival
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.lastSurvival = totalSurvival / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until the forest dies or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.configFor(x)
	result := &runResult{
		lattice: cfg.Grid.Width * (cfg.Grid.Height - cfg.Grid.CanopyRow),
	}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Config:         cfg,
		StatsWindow:    fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	below := 0
	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}
		trees := g.Population()
		if trees == 0 {
			result.survivalTicks = tick
			result.hallOfFame = g.HallOfFame()
			return result
		}
		if trees < minViableTrees {
			below++
		} else {
			below = 0
		}
		if below >= graceTicks {
			result.survivalTicks = tick
			result.hallOfFame = g.HallOfFame()
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	result.hallOfFame = g.HallOfFame()
	return result
}

// configFor copies the base config and applies x. Reseeding is switched off
// so extinction is final.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	cfg.Population.ReseedBelow = 0
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightCover     = 0.35
	qualityWeightStability = 0.25
	qualityWeightDiversity = 0.20
	qualityWeightTurnover  = 0.20

	qualityWarmupWindows = 2 // skip first N windows
	qualityMinTrees      = 2 // exclude windows with fewer trees
	targetCover          = 0.30
)

// computeQuality scores a run in [0, 1] from its window stats. lattice is
// the number of cells a forest could cover.
func computeQuality(windows []telemetry.WindowStats, lattice int) float64 {
	if len(windows) <= qualityWarmupWindows || lattice <= 0 {
		return 0
	}

	var cover, diversity, turnover []float64
	var counts []float64
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Trees < qualityMinTrees {
			continue
		}
		counts = append(counts, float64(w.Trees))

		// 1. Canopy cover near the target share of the lattice
		share := float64(w.Cells) / float64(lattice)
		d := (share - targetCover) / 0.15
		cover = append(cover, math.Exp(-d*d))

		// 2. More than one lineage alive
		diversity = append(diversity, 1-math.Exp(-float64(w.ActiveLineages-1)/2))

		// 3. Trees reproducing rather than standing still
		perTree := float64(w.Births) / float64(w.Trees)
		turnover = append(turnover, 1-math.Exp(-perTree))
	}
	if len(counts) == 0 {
		return 0
	}

	stability := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stability = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightCover*stat.Mean(cover, nil) +
		qualityWeightStability*stability +
		qualityWeightDiversity*stat.Mean(diversity, nil) +
		qualityWeightTurnover*stat.Mean(turnover, nil)

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
