package telemetry

import "github.com/pthm-cable/grove/systems"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births        int
	mutatedBirths int
	starved       int
	oldAge        int
	culled        int
	removed       int
	branches      int
	escaped       int
	reseeded      int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBirth records a reproduction event.
func (c *Collector) RecordBirth(mutated bool) {
	c.births++
	if mutated {
		c.mutatedBirths++
	}
}

// RecordDecay records a tree entering the decaying state.
func (c *Collector) RecordDecay(reason systems.DecayReason) {
	switch reason {
	case systems.Starved:
		c.starved++
	case systems.OldAge:
		c.oldAge++
	}
}

// RecordCull records a seedling removed without decaying.
func (c *Collector) RecordCull() {
	c.culled++
}

// RecordRemoval records a tree leaving the world.
func (c *Collector) RecordRemoval() {
	c.removed++
}

// RecordGrowth records new cells placed in a growth pass.
func (c *Collector) RecordGrowth(branches int) {
	c.branches += branches
}

// RecordEscape records falling debris that dispersed.
func (c *Collector) RecordEscape(n int) {
	c.escaped += n
}

// RecordReseed records trees planted from the hall of fame.
func (c *Collector) RecordReseed(n int) {
	c.reseeded += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// PopulationSample holds the state of the world at window end.
type PopulationSample struct {
	Trees       int
	Decaying    int
	Cells       int
	MatureCells int
	Balances    []float64 // Living trees only
	Ages        []float64
	Sizes       []float64
	Lifespans   []float64
	Lineages    int
	Generation  int
	SunLevel    int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	balance := Describe(sample.Balances)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Trees:       sample.Trees,
		Decaying:    sample.Decaying,
		Cells:       sample.Cells,
		MatureCells: sample.MatureCells,

		Births:        c.births,
		MutatedBirths: c.mutatedBirths,
		Starved:       c.starved,
		OldAge:        c.oldAge,
		Culled:        c.culled,
		Removed:       c.removed,
		Branches:      c.branches,
		Escaped:       c.escaped,
		Reseeded:      c.reseeded,

		BalanceMean: balance.Mean,
		BalanceStd:  balance.Std,
		BalanceP10:  balance.P10,
		BalanceP50:  balance.P50,
		BalanceP90:  balance.P90,

		AgeMean:      Mean(sample.Ages),
		SizeMean:     Mean(sample.Sizes),
		SizeMax:      Max(sample.Sizes),
		LifespanMean: Mean(sample.Lifespans),

		ActiveLineages: sample.Lineages,
		Generation:     sample.Generation,
		SunLevel:       sample.SunLevel,
	}

	c.windowStartTick = currentTick
	c.births = 0
	c.mutatedBirths = 0
	c.starved = 0
	c.oldAge = 0
	c.culled = 0
	c.removed = 0
	c.branches = 0
	c.escaped = 0
	c.reseeded = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowTicks
}
