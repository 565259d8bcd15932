package telemetry

import "github.com/pthm-cable/grove/genetics"

// LifetimeStats tracks per-tree statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	ParentID   uint32 // 0 for founders and reseeds
	Lineage    genetics.Color
	Generation int
	Mutated    bool // Born from a mutated copy of its parent

	Children    int
	PeakCells   int
	PeakBalance int
	Lifespan    int
	DeathAge    int
}

// LifetimeTracker manages per-tree lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new tree.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, parentID uint32, lineage genetics.Color, generation int, mutated bool, lifespan int) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		ParentID:   parentID,
		Lineage:    lineage,
		Generation: generation,
		Mutated:    mutated,
		Lifespan:   lifespan,
	}
}

// Restore puts previously saved stats back under id.
func (lt *LifetimeTracker) Restore(id uint32, stats *LifetimeStats) {
	lt.stats[id] = stats
}

// Reset forgets every tracked tree.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
}

// Get returns the lifetime stats for a tree, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a tree's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	s := lt.stats[id]
	delete(lt.stats, id)
	return s
}

// RecordChild increments the parent's children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// Update tracks peak size and balance, and the latest age.
func (lt *LifetimeTracker) Update(id uint32, cells, balance, age int) {
	if s := lt.stats[id]; s != nil {
		s.PeakCells = max(s.PeakCells, cells)
		s.PeakBalance = max(s.PeakBalance, balance)
		s.DeathAge = age
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked trees.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of distinct lineages among tracked trees.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[genetics.Color]struct{})
	for _, s := range lt.stats {
		seen[s.Lineage] = struct{}{}
	}
	return len(seen)
}

// DominantLineage returns the most common lineage and its share of tracked trees.
func (lt *LifetimeTracker) DominantLineage() (genetics.Color, float64) {
	if len(lt.stats) == 0 {
		return genetics.Color{}, 0
	}
	counts := make(map[genetics.Color]int)
	var best genetics.Color
	bestN := 0
	for _, s := range lt.stats {
		counts[s.Lineage]++
		n := counts[s.Lineage]
		if n > bestN || (n == bestN && colorLess(s.Lineage, best)) {
			best, bestN = s.Lineage, n
		}
	}
	return best, float64(bestN) / float64(len(lt.stats))
}

func colorLess(a, b genetics.Color) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	if a.G != b.G {
		return a.G < b.G
	}
	return a.B < b.B
}
