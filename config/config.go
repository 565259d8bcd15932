// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned when a loaded configuration cannot describe a world.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Energy     EnergyConfig     `yaml:"energy"`
	Lifespan   LifespanConfig   `yaml:"lifespan"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle"`
	Sun        SunConfig        `yaml:"sun"`
	Tick       TickConfig       `yaml:"tick"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	UI         UIConfig         `yaml:"ui"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	TargetFPS   int `yaml:"target_fps"`
	CellSize    int `yaml:"cell_size"`    // Pixels per lattice cell at zoom 1
	PanelHeight int `yaml:"panel_height"` // Control strip below the grid
}

// GridConfig holds lattice dimensions.
// Row 0 is the top of the sky, row Height-1 is the ground.
type GridConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	CanopyRow int `yaml:"canopy_row"` // Highest row a cell may grow into
}

// EnergyConfig holds light and upkeep economics.
type EnergyConfig struct {
	Initial       int `yaml:"initial"`         // Balance of a newly seeded tree
	GrowthCost    int `yaml:"growth_cost"`     // Banked cell energy spent per growing cell per tick
	UpkeepPerCell int `yaml:"upkeep_per_cell"` // Waste charged per cell per tick
	MaxLight      int `yaml:"max_light"`       // Light level cap
	ShadeLimit    int `yaml:"shade_limit"`     // Cells above at which light income drops to zero
}

// LifespanConfig holds per-tree lifespan parameters.
type LifespanConfig struct {
	Min         int     `yaml:"min"`
	Max         int     `yaml:"max"`
	DriftChance float64 `yaml:"drift_chance"` // Chance a child lifespan differs by one tick
}

// MutationConfig holds adaptive mutation parameters.
type MutationConfig struct {
	MinChance float64 `yaml:"min_chance"` // Chance at or above MaxEnergy
	MaxChance float64 `yaml:"max_chance"` // Chance at zero balance
	MaxEnergy float64 `yaml:"max_energy"` // Balance normalization constant
}

// LifecycleConfig holds death and culling parameters.
type LifecycleConfig struct {
	SeedlingCullAge int `yaml:"seedling_cull_age"` // 0 disables culling of single-cell trees
}

// SunConfig holds ambient light parameters.
type SunConfig struct {
	Level int `yaml:"level"`
	Min   int `yaml:"min"`
	Max   int `yaml:"max"`
}

// TickConfig holds step cadence parameters for the windowed loop.
type TickConfig struct {
	DurationMS int `yaml:"duration_ms"`
	MinMS      int `yaml:"min_ms"`
	MaxMS      int `yaml:"max_ms"`
	StepMS     int `yaml:"step_ms"`
}

// PopulationConfig holds seeding parameters.
type PopulationConfig struct {
	Initial     int `yaml:"initial"`
	ReseedBelow int `yaml:"reseed_below"` // 0 disables reseeding from the hall of fame
	ReseedCount int `yaml:"reseed_count"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow    int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow     int `yaml:"perf_window"`
	HallOfFameSize int `yaml:"hall_of_fame_size"`
	SnapshotEvery  int `yaml:"snapshot_every"` // Ticks between snapshots when a snapshot dir is set
}

// UIConfig holds presentation settings.
type UIConfig struct {
	SavesDir string `yaml:"saves_dir"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GroundRow   int     // Grid.Height - 1
	GridPixelW  int     // Grid.Width * Screen.CellSize
	GridPixelH  int     // Grid.Height * Screen.CellSize
	CellSize32  float32 // Screen.CellSize as float32
	ScreenW32   float32
	ScreenH32   float32
	ViewportH32 float32 // Screen height left for the grid above the panel
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the values the engine cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width < 1 || c.Grid.Height < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	case c.Grid.CanopyRow < 0 || c.Grid.CanopyRow >= c.Grid.Height:
		return fmt.Errorf("%w: canopy_row %d outside grid", ErrInvalid, c.Grid.CanopyRow)
	case c.Lifespan.Min > c.Lifespan.Max:
		return fmt.Errorf("%w: lifespan min %d > max %d", ErrInvalid, c.Lifespan.Min, c.Lifespan.Max)
	case c.Mutation.MaxEnergy <= 0:
		return fmt.Errorf("%w: mutation max_energy must be positive", ErrInvalid)
	case c.Sun.Min > c.Sun.Max:
		return fmt.Errorf("%w: sun min %d > max %d", ErrInvalid, c.Sun.Min, c.Sun.Max)
	case c.Tick.MinMS > c.Tick.MaxMS:
		return fmt.Errorf("%w: tick min_ms %d > max_ms %d", ErrInvalid, c.Tick.MinMS, c.Tick.MaxMS)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.GroundRow = c.Grid.Height - 1
	c.Derived.GridPixelW = c.Grid.Width * c.Screen.CellSize
	c.Derived.GridPixelH = c.Grid.Height * c.Screen.CellSize
	c.Derived.CellSize32 = float32(c.Screen.CellSize)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.ViewportH32 = float32(c.Screen.Height - c.Screen.PanelHeight)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
