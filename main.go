package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/genetics"
	"github.com/pthm-cable/grove/telemetry"
	"github.com/pthm-cable/grove/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	trees := flag.Int("trees", -1, "Initial random trees (-1 = use config)")
	genomePath := flag.String("genome", "", "Genome file to plant at start and to load from the Load button")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and hall of fame")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	restore := flag.String("restore", "", "Snapshot file to resume from")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per headless update")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *trees >= 0 {
		cfg.Population.Initial = *trees
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		Config:         cfg,
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		g := newWorld(opts, *restore, *genomePath)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"trees", g.Population(),
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick(), "trees", g.Population())
				return
			}
		}
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Grove")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyNull)

	g := newWorld(opts, *restore, *genomePath)
	defer g.Unload()
	app := ui.NewApp(g, *genomePath)

	last := time.Now()
	for !rl.WindowShouldClose() {
		now := time.Now()
		app.Frame(now.Sub(last))
		last = now

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "trees", g.Population())
			break
		}
	}
}

// newWorld builds the world, resumes a snapshot if one is given and plants
// the -genome file on a random ground column.
func newWorld(opts game.Options, restorePath, genomePath string) *game.Game {
	g := game.NewGameWithOptions(opts)

	if restorePath != "" {
		s, err := telemetry.LoadSnapshot(restorePath)
		if err != nil {
			slog.Error("failed to load snapshot", "path", restorePath, "error", err)
			os.Exit(1)
		}
		if err := g.RestoreSnapshot(s); err != nil {
			slog.Error("failed to restore snapshot", "path", restorePath, "error", err)
			os.Exit(1)
		}
	}

	if genomePath != "" {
		genome, err := genetics.LoadFile(genomePath)
		if err != nil {
			slog.Error("failed to load genome", "path", genomePath, "error", err)
			os.Exit(1)
		}
		if _, err := g.AddTree(genome, nil); err != nil {
			slog.Warn("genome not planted", "path", genomePath, "error", err)
		} else {
			slog.Info("genome loaded", "path", genomePath)
		}
	}
	return g
}
