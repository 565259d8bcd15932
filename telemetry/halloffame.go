package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/pthm-cable/grove/genetics"
)

// HallEntry records a successful genome and how it did.
type HallEntry struct {
	Genome     *genetics.Genome
	Fitness    float64
	TreeID     uint32
	Children   int
	PeakCells  int
	Lifespan   int
	Generation int
}

// Fitness weights: reproduction dominates, size breaks ties.
const (
	childrenWeight  = 10.0
	peakCellsWeight = 1.0
)

// HallOfFame keeps the best genomes seen so far for reseeding.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
	rng     *rand.Rand
}

// NewHallOfFame creates a hall holding at most maxSize genomes.
func NewHallOfFame(maxSize int, rng *rand.Rand) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		rng:     rng,
	}
}

// Consider evaluates a removed tree for entry. Only trees that reproduced
// qualify. Returns true if the genome was added.
func (hof *HallOfFame) Consider(genome *genetics.Genome, stats *LifetimeStats, treeID uint32) bool {
	if stats == nil || stats.Children < 1 {
		return false
	}

	entry := HallEntry{
		Genome:     genome.Clone(),
		Fitness:    float64(stats.Children)*childrenWeight + float64(stats.PeakCells)*peakCellsWeight,
		TreeID:     treeID,
		Children:   stats.Children,
		PeakCells:  stats.PeakCells,
		Lifespan:   stats.Lifespan,
		Generation: stats.Generation,
	}

	// Sorted descending by fitness
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})
	if idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Sample picks a genome by tournament selection over three draws and
// returns a copy with its lifespan. Returns nil if the hall is empty.
func (hof *HallOfFame) Sample() (*genetics.Genome, int) {
	if len(hof.entries) == 0 {
		return nil, 0
	}

	const tournamentSize = 3
	var best *HallEntry
	for i := 0; i < tournamentSize; i++ {
		candidate := &hof.entries[hof.rng.IntN(len(hof.entries))]
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Genome.Clone(), best.Lifespan
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the best fitness, or 0 if the hall is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// Entries returns the entries in rank order.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

type hallEntryJSON struct {
	Rank       int              `json:"rank"`
	TreeID     uint32           `json:"tree_id"`
	Fitness    float64          `json:"fitness"`
	Children   int              `json:"children"`
	PeakCells  int              `json:"peak_cells"`
	Lifespan   int              `json:"lifespan"`
	Generation int              `json:"generation"`
	Genome     *genetics.Genome `json:"genome"`
}

// MarshalJSON serializes the hall in rank order.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	out := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		out[i] = hallEntryJSON{
			Rank:       i + 1,
			TreeID:     e.TreeID,
			Fitness:    e.Fitness,
			Children:   e.Children,
			PeakCells:  e.PeakCells,
			Lifespan:   e.Lifespan,
			Generation: e.Generation,
			Genome:     e.Genome,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteGenomes saves every entry as a genome file named by rank, so the best
// trees can be loaded back into a running world.
func (hof *HallOfFame) WriteGenomes(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating hall of fame dir: %w", err)
	}
	for i, e := range hof.entries {
		path := filepath.Join(dir, fmt.Sprintf("rank_%02d_tree_%d.txt", i+1, e.TreeID))
		if err := genetics.SaveFile(path, e.Genome); err != nil {
			return err
		}
	}
	return nil
}
