package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/grove/systems"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{5}, Distribution{Mean: 5, Std: 0, P10: 5, P50: 5, P90: 5}},
		{"ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, Distribution{Mean: 5.5, Std: math.Sqrt(8.25), P10: 1, P50: 5, P90: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.values)
			check := func(field string, got, want float64) {
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", field, got, want)
				}
			}
			check("mean", got.Mean, tt.want.Mean)
			check("std", got.Std, tt.want.Std)
			check("p10", got.P10, tt.want.P10)
			check("p50", got.P50, tt.want.P50)
			check("p90", got.P90, tt.want.P90)
		})
	}
}

func TestDescribe_DoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Describe(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestMeanMax_Empty(t *testing.T) {
	if Mean(nil) != 0 || Max(nil) != 0 {
		t.Error("expected zero for empty sample")
	}
	if got := Max([]float64{2, 7, 3}); got != 7 {
		t.Errorf("Max = %v, want 7", got)
	}
}

func TestCollector_FlushResetsCounters(t *testing.T) {
	c := NewCollector(10)

	c.RecordBirth(true)
	c.RecordBirth(false)
	c.RecordDecay(systems.Starved)
	c.RecordDecay(systems.OldAge)
	c.RecordDecay(systems.OldAge)
	c.RecordCull()
	c.RecordRemoval()
	c.RecordGrowth(4)
	c.RecordEscape(2)
	c.RecordReseed(3)

	if c.ShouldFlush(9) {
		t.Error("flushed before window end")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("expected flush at window end")
	}

	stats := c.Flush(10, PopulationSample{
		Trees:    2,
		Cells:    7,
		Balances: []float64{100, 300},
		Sizes:    []float64{3, 4},
		Lineages: 2,
	})

	if stats.Births != 2 || stats.MutatedBirths != 1 {
		t.Errorf("births = %d/%d, want 2/1", stats.Births, stats.MutatedBirths)
	}
	if stats.Starved != 1 || stats.OldAge != 2 || stats.Culled != 1 || stats.Removed != 1 {
		t.Errorf("decay counters wrong: %+v", stats)
	}
	if stats.Branches != 4 || stats.Escaped != 2 || stats.Reseeded != 3 {
		t.Errorf("event counters wrong: %+v", stats)
	}
	if stats.BalanceMean != 200 || stats.SizeMax != 4 {
		t.Errorf("balance mean %v size max %v", stats.BalanceMean, stats.SizeMax)
	}

	next := c.Flush(20, PopulationSample{})
	if next.WindowStartTick != 10 || next.Births != 0 || next.Escaped != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
