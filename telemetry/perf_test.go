package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_PhaseTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrid)
		time.Sleep(20 * time.Microsecond)
		pc.StartPhase(PhaseGrowth)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Fatal("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseGrid]; !ok {
		t.Error("grid phase not tracked")
	}
	if stats.PhasePct[PhaseGrowth] <= stats.PhasePct[PhaseGrid] {
		t.Errorf("growth %.1f%% should exceed grid %.1f%%", stats.PhasePct[PhaseGrowth], stats.PhasePct[PhaseGrid])
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v <= avg %v <= max %v violated", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseLifecycle)
		pc.EndTick()
	}

	if pc.filled != 3 {
		t.Errorf("filled = %d, want window size 3", pc.filled)
	}
	if pc.Stats().TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero average for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil maps")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseGrowth:    40,
			PhaseLifecycle: 25,
		},
	}

	row := s.ToCSV(600)

	if row.WindowEnd != 600 || row.AvgTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.GrowthPct != 40 || row.LifecyclePct != 25 || row.GridPct != 0 {
		t.Errorf("phase percentages not mapped: %+v", row)
	}
}
