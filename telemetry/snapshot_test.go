package telemetry

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()

	genome := &genetics.Genome{Color: genetics.Color{R: 10, G: 20, B: 30}}
	for i := range genome.Genes {
		genome.Genes[i] = genetics.Gene{1, genetics.Blocked, 2, genetics.Blocked}
	}
	genome.Lineage = genome.Color

	body := components.Body{Cells: []components.Cell{
		{Pos: components.Position{Col: 5, Row: 89}, Energy: 7, LastEnergy: 7},
		{Pos: components.Position{Col: 5, Row: 88}, Gene: 1, LastEnergy: 42, Maturity: components.Mature},
	}}

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		GridWidth:  220,
		GridHeight: 90,
		Tick:       1000,
		SunLevel:   6,
		NextID:     9,
		Trees: []TreeState{{
			ID:       3,
			State:    components.StateDecaying,
			Balance:  120,
			Age:      14,
			Lifespan: 90,
			Genome:   genome,
			Cells:    CellStates(&body),
			Lifetime: (&LifetimeStats{BirthTick: 986, Children: 2, Lineage: genome.Lineage}).ToJSON(),
		}},
		Bookmark: &Bookmark{Type: BookmarkLineageSweep, Tick: 1000, Description: "test"},
	}

	path, err := SaveSnapshot(snapshot, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_1000_lineage_sweep.json") {
		t.Errorf("unexpected path %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if loaded.Tick != 1000 || loaded.SunLevel != 6 || loaded.NextID != 9 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Trees) != 1 {
		t.Fatalf("trees = %d, want 1", len(loaded.Trees))
	}
	tree := loaded.Trees[0]
	if tree.State != components.StateDecaying || tree.Balance != 120 {
		t.Errorf("tree ledger mismatch: %+v", tree)
	}
	if !tree.Genome.Equal(genome) || tree.Genome.Lineage != genome.Lineage {
		t.Error("genome did not survive round trip")
	}

	restored := tree.Body()
	if restored.Len() != 2 || restored.CountMature() != 1 {
		t.Fatalf("restored body: %+v", restored)
	}
	if restored.Cells[1].LastEnergy != 42 || restored.Cells[1].Gene != 1 {
		t.Errorf("cell fields lost: %+v", restored.Cells[1])
	}
	if tree.Lifetime.FromJSON().Children != 2 {
		t.Error("lifetime stats lost")
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
