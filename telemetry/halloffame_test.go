package telemetry

import (
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/grove/genetics"
)

func testHall(size int) *HallOfFame {
	return NewHallOfFame(size, rand.New(rand.NewPCG(1, 2)))
}

func genomeWithColor(r uint8) *genetics.Genome {
	g := &genetics.Genome{Color: genetics.Color{R: r}}
	g.Lineage = g.Color
	return g
}

func TestHallOfFame_RequiresChildren(t *testing.T) {
	hof := testHall(5)
	if hof.Consider(genomeWithColor(1), &LifetimeStats{PeakCells: 50}, 1) {
		t.Error("childless tree admitted")
	}
	if hof.Consider(genomeWithColor(1), nil, 1) {
		t.Error("nil stats admitted")
	}
	if hof.Size() != 0 {
		t.Errorf("size = %d, want 0", hof.Size())
	}
}

func TestHallOfFame_KeepsBestSorted(t *testing.T) {
	hof := testHall(3)
	for i, children := range []int{1, 5, 3, 2, 4} {
		hof.Consider(genomeWithColor(uint8(i)), &LifetimeStats{Children: children}, uint32(i+1))
	}

	if hof.Size() != 3 {
		t.Fatalf("size = %d, want 3", hof.Size())
	}
	want := []int{5, 4, 3}
	for i, e := range hof.Entries() {
		if e.Children != want[i] {
			t.Errorf("rank %d children = %d, want %d", i+1, e.Children, want[i])
		}
	}
	if hof.TopFitness() != 50 {
		t.Errorf("top fitness = %v, want 50", hof.TopFitness())
	}
}

func TestHallOfFame_SampleReturnsCopy(t *testing.T) {
	hof := testHall(3)
	if g, _ := hof.Sample(); g != nil {
		t.Error("empty hall should sample nil")
	}

	hof.Consider(genomeWithColor(7), &LifetimeStats{Children: 1, Lifespan: 89}, 1)
	g, lifespan := hof.Sample()
	if g == nil || lifespan != 89 {
		t.Fatalf("sample = %v, %d", g, lifespan)
	}
	g.Genes[0][0] = 0
	g.Color.R = 99
	if hof.Entries()[0].Genome.Color.R != 7 {
		t.Error("sample aliases the stored genome")
	}
}

func TestHallOfFame_MarshalAndWriteGenomes(t *testing.T) {
	hof := testHall(3)
	hof.Consider(genomeWithColor(7), &LifetimeStats{Children: 2}, 11)

	data, err := json.Marshal(hof)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []hallEntryJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Rank != 1 || decoded[0].TreeID != 11 {
		t.Errorf("decoded = %+v", decoded)
	}

	dir := t.TempDir()
	if err := hof.WriteGenomes(dir); err != nil {
		t.Fatalf("WriteGenomes: %v", err)
	}
	path := filepath.Join(dir, "rank_01_tree_11.txt")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("genome file missing: %v", err)
	}
	g, err := genetics.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !g.Equal(hof.Entries()[0].Genome) {
		t.Error("written genome differs")
	}
}

func TestLifetimeTracker_Lineages(t *testing.T) {
	lt := NewLifetimeTracker()
	red := genetics.Color{R: 255}
	blue := genetics.Color{B: 255}

	lt.Register(1, 0, 0, red, 0, false, 90)
	lt.Register(2, 5, 1, red, 0, false, 90)
	lt.Register(3, 0, 0, blue, 0, false, 90)
	lt.RecordChild(1)
	lt.Update(1, 12, 400, 20)
	lt.Update(1, 8, 200, 21)

	if lt.ActiveLineageCount() != 2 {
		t.Errorf("lineages = %d, want 2", lt.ActiveLineageCount())
	}
	color, share := lt.DominantLineage()
	if color != red || share < 0.66 || share > 0.67 {
		t.Errorf("dominant = %v %.2f", color, share)
	}

	s := lt.Remove(1)
	if s.Children != 1 || s.PeakCells != 12 || s.PeakBalance != 400 || s.DeathAge != 21 {
		t.Errorf("stats = %+v", s)
	}
	if lt.Count() != 2 || lt.Get(1) != nil {
		t.Error("remove did not drop the tree")
	}
}
