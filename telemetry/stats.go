package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Trees       int `csv:"trees"`
	Decaying    int `csv:"decaying"`
	Cells       int `csv:"cells"`
	MatureCells int `csv:"mature_cells"`

	// Events during window
	Births        int `csv:"births"`
	MutatedBirths int `csv:"mutated_births"`
	Starved       int `csv:"starved"`
	OldAge        int `csv:"old_age"`
	Culled        int `csv:"culled"`
	Removed       int `csv:"removed"`
	Branches      int `csv:"branches"`
	Escaped       int `csv:"escaped"`
	Reseeded      int `csv:"reseeded"`

	// Balance distribution of living trees (sampled at window end)
	BalanceMean float64 `csv:"balance_mean"`
	BalanceStd  float64 `csv:"balance_std"`
	BalanceP10  float64 `csv:"balance_p10"`
	BalanceP50  float64 `csv:"balance_p50"`
	BalanceP90  float64 `csv:"balance_p90"`

	// Shape
	AgeMean      float64 `csv:"age_mean"`
	SizeMean     float64 `csv:"size_mean"`
	SizeMax      float64 `csv:"size_max"`
	LifespanMean float64 `csv:"lifespan_mean"`

	// Lineages
	ActiveLineages int `csv:"active_lineages"`
	Generation     int `csv:"generation"`
	SunLevel       int `csv:"sun_level"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Describe computes mean, standard deviation and deciles of values.
// Returns the zero Distribution for an empty sample.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(sorted, nil)
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Max returns the largest value, or 0 for an empty sample.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("trees", s.Trees),
		slog.Int("decaying", s.Decaying),
		slog.Int("cells", s.Cells),
		slog.Int("births", s.Births),
		slog.Int("mutated_births", s.MutatedBirths),
		slog.Int("starved", s.Starved),
		slog.Int("old_age", s.OldAge),
		slog.Int("culled", s.Culled),
		slog.Float64("balance_mean", s.BalanceMean),
		slog.Float64("balance_p50", s.BalanceP50),
		slog.Float64("size_mean", s.SizeMean),
		slog.Int("active_lineages", s.ActiveLineages),
		slog.Int("generation", s.Generation),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"trees", s.Trees,
		"decaying", s.Decaying,
		"cells", s.Cells,
		"mature_cells", s.MatureCells,
		"births", s.Births,
		"mutated_births", s.MutatedBirths,
		"starved", s.Starved,
		"old_age", s.OldAge,
		"culled", s.Culled,
		"removed", s.Removed,
		"branches", s.Branches,
		"escaped", s.Escaped,
		"reseeded", s.Reseeded,
		"balance_mean", s.BalanceMean,
		"balance_std", s.BalanceStd,
		"balance_p10", s.BalanceP10,
		"balance_p50", s.BalanceP50,
		"balance_p90", s.BalanceP90,
		"age_mean", s.AgeMean,
		"size_mean", s.SizeMean,
		"size_max", s.SizeMax,
		"lifespan_mean", s.LifespanMean,
		"active_lineages", s.ActiveLineages,
		"generation", s.Generation,
		"sun_level", s.SunLevel,
	)
}
