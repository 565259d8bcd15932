package main

import (
	"math"

	"github.com/pthm-cable/grove/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy
			{Name: "growth_cost", Path: "energy.growth_cost", Min: 4, Max: 40, Default: 18, Integer: true},
			{Name: "upkeep_per_cell", Path: "energy.upkeep_per_cell", Min: 4, Max: 24, Default: 13, Integer: true},
			{Name: "max_light", Path: "energy.max_light", Min: 8, Max: 32, Default: 16, Integer: true},
			{Name: "shade_limit", Path: "energy.shade_limit", Min: 1, Max: 8, Default: 3, Integer: true},
			// Mutation
			{Name: "mutation_min", Path: "mutation.min_chance", Min: 0.01, Max: 0.30, Default: 0.10},
			{Name: "mutation_max", Path: "mutation.max_chance", Min: 0.10, Max: 0.60, Default: 0.30},
			// Environment
			{Name: "sun_level", Path: "sun.level", Min: 0, Max: 16, Default: 6, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		v[i] = ps.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		out[i] = (raw[i] - ps.Min) / (ps.Max - ps.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		out[i] = ps.Min + normalized[i]*(ps.Max-ps.Min)
	}
	return out
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, ps := range pv.Specs {
		val := math.Min(math.Max(v[i], ps.Min), ps.Max)
		if ps.Integer {
			val = math.Round(val)
		}
		out[i] = val
	}
	return out
}

// ApplyToConfig writes parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)

	cfg.Energy.GrowthCost = int(v[0])
	cfg.Energy.UpkeepPerCell = int(v[1])
	cfg.Energy.MaxLight = int(v[2])
	cfg.Energy.ShadeLimit = int(v[3])

	// The chance at full balance may not exceed the chance at zero.
	cfg.Mutation.MinChance = math.Min(v[4], v[5])
	cfg.Mutation.MaxChance = v[5]

	cfg.Sun.Level = min(max(int(v[6]), cfg.Sun.Min), cfg.Sun.Max)
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Energy.GrowthCost),
		float64(cfg.Energy.UpkeepPerCell),
		float64(cfg.Energy.MaxLight),
		float64(cfg.Energy.ShadeLimit),
		cfg.Mutation.MinChance,
		cfg.Mutation.MaxChance,
		float64(cfg.Sun.Level),
	}
}
