package systems

import (
	"testing"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

const blk = genetics.Blocked

// genomeWith returns a genome whose unset genes are all blocked.
func genomeWith(genes map[int]genetics.Gene) *genetics.Genome {
	g := &genetics.Genome{}
	for i := range g.Genes {
		g.Genes[i] = genetics.Gene{blk, blk, blk, blk}
	}
	for i, gene := range genes {
		g.Genes[i] = gene
	}
	return g
}

func seedBody(p components.Position, energy int) *components.Body {
	return &components.Body{Cells: []components.Cell{{Pos: p, Energy: energy}}}
}

var testGrowth = GrowthParams{Cost: 18, CanopyRow: 2}

func TestGrow_BranchesInAllFreeDirections(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 5), 18)
	idx.Place(pos(5, 5), owners[0])
	genome := genomeWith(map[int]genetics.Gene{0: {1, 2, 3, 4}})

	res := Grow(owners[0], body, genome, idx, testGrowth)

	if res.Branches != 4 || res.Grown != 1 {
		t.Fatalf("result = %+v, want 4 branches from 1 cell", res)
	}
	if body.Len() != 5 {
		t.Fatalf("body has %d cells, want 5", body.Len())
	}
	seed := body.Cells[0]
	if seed.Maturity != components.Mature {
		t.Error("grown cell should be Mature")
	}
	if seed.Energy != 0 {
		t.Errorf("cost charged once per tick: energy = %d, want 0", seed.Energy)
	}

	want := map[components.Position]uint8{
		pos(5, 4): 1,
		pos(4, 5): 2,
		pos(6, 5): 3,
		pos(5, 6): 4,
	}
	for _, c := range body.Cells[1:] {
		gene, ok := want[c.Pos]
		if !ok {
			t.Errorf("unexpected child at %v", c.Pos)
			continue
		}
		if c.Gene != gene {
			t.Errorf("child at %v has gene %d, want %d", c.Pos, c.Gene, gene)
		}
		if c.Maturity != components.Immature {
			t.Errorf("child at %v should be Immature", c.Pos)
		}
		if !idx.Occupied(c.Pos) {
			t.Errorf("child at %v not claimed in index", c.Pos)
		}
	}
}

func TestGrow_NotEnoughEnergyWaits(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 9), 17)
	genome := genomeWith(map[int]genetics.Gene{0: {0, blk, blk, blk}})

	res := Grow(owners[0], body, genome, idx, testGrowth)

	if res.Branches != 0 || body.Len() != 1 {
		t.Fatalf("grew without enough energy: %+v", res)
	}
	if body.Cells[0].Maturity != components.Immature {
		t.Error("cell that can grow later should stay Immature")
	}
	if body.Cells[0].Energy != 17 {
		t.Errorf("energy = %d, want 17 untouched", body.Cells[0].Energy)
	}
}

func TestGrow_DeadEndMatures(t *testing.T) {
	owners := newOwners(t, 2)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 9), 100)
	idx.Place(pos(5, 9), owners[0])
	idx.Place(pos(5, 8), owners[1])
	// Only up is allowed and it is taken; down is off the lattice anyway
	genome := genomeWith(map[int]genetics.Gene{0: {0, blk, blk, 0}})

	res := Grow(owners[0], body, genome, idx, testGrowth)

	if res.DeadEnds != 1 {
		t.Fatalf("DeadEnds = %d, want 1", res.DeadEnds)
	}
	if body.Cells[0].Maturity != components.Mature {
		t.Error("dead end should mature")
	}
	if body.Cells[0].Energy != 100 {
		t.Error("dead end should not pay growth cost")
	}
}

func TestGrow_DormantGeneStaysImmature(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 9), 1000)
	genome := genomeWith(nil)

	for i := 0; i < 10; i++ {
		Grow(owners[0], body, genome, idx, testGrowth)
	}

	if body.Len() != 1 {
		t.Fatalf("dormant seed grew to %d cells", body.Len())
	}
	if body.Cells[0].Maturity != components.Immature {
		t.Error("dormant seed should stay Immature")
	}
}

func TestGrow_CanopyLimit(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 2), 50)
	genome := genomeWith(map[int]genetics.Gene{0: {0, blk, blk, blk}})

	res := Grow(owners[0], body, genome, idx, testGrowth)

	if res.Branches != 0 {
		t.Error("grew above the canopy row")
	}
	if body.Cells[0].Maturity != components.Mature {
		t.Error("cell blocked by canopy should mature as dead end")
	}
}

func TestGrow_ColumnWraps(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(0, 9), 18)
	genome := genomeWith(map[int]genetics.Gene{0: {blk, 0, blk, blk}})

	Grow(owners[0], body, genome, idx, testGrowth)

	if body.Len() != 2 || body.Cells[1].Pos != pos(9, 9) {
		t.Fatalf("left of column 0 should wrap to column 9, got %+v", body.Cells)
	}
}

func TestGrow_NewCellsWaitForNextPass(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 9), 18)
	idx.Place(pos(5, 9), owners[0])
	genome := genomeWith(map[int]genetics.Gene{
		0: {1, blk, blk, blk},
		1: {1, blk, blk, blk},
	})

	Grow(owners[0], body, genome, idx, testGrowth)
	if body.Len() != 2 {
		t.Fatalf("first pass: %d cells, want 2", body.Len())
	}
	if body.Cells[1].Maturity != components.Immature {
		t.Error("new cell should not be evaluated in the pass that created it")
	}

	body.Cells[1].Energy = 18
	Grow(owners[0], body, genome, idx, testGrowth)
	if body.Len() != 3 || body.Cells[2].Pos != pos(5, 7) {
		t.Errorf("second pass should extend the stem, got %+v", body.Cells)
	}
}

func TestGrow_ContestedTarget(t *testing.T) {
	owners := newOwners(t, 2)
	idx := NewGridIndex(10, 10)

	// Two seeds with one free column between them, both wanting it.
	left := seedBody(pos(3, 9), 18)
	right := seedBody(pos(5, 9), 18)
	idx.Place(pos(3, 9), owners[0])
	idx.Place(pos(5, 9), owners[1])
	leftGenome := genomeWith(map[int]genetics.Gene{0: {1, blk, 1, blk}})
	rightGenome := genomeWith(map[int]genetics.Gene{0: {1, 1, blk, blk}})

	first := Grow(owners[0], left, leftGenome, idx, testGrowth)
	second := Grow(owners[1], right, rightGenome, idx, testGrowth)

	if first.Branches != 2 {
		t.Errorf("first tree branches = %d, want 2", first.Branches)
	}
	if second.Branches != 1 {
		t.Errorf("second tree branches = %d, want 1 (up only)", second.Branches)
	}
	owner, _ := idx.At(pos(4, 9))
	if owner != owners[0] {
		t.Error("contested position should belong to the first tree evaluated")
	}
	for _, c := range right.Cells {
		if c.Pos == pos(4, 9) {
			t.Error("second tree also claimed the contested position")
		}
	}
	if right.Cells[0].Maturity != components.Mature {
		t.Error("second seed grew up and should be Mature")
	}
}

func TestGrow_DormantChildGeneStaysImmature(t *testing.T) {
	owners := newOwners(t, 1)
	idx := NewGridIndex(10, 10)
	body := seedBody(pos(5, 5), 18)
	idx.Place(pos(5, 5), owners[0])
	// Gene 0 grows up into gene 7, which is all blocked.
	genome := genomeWith(map[int]genetics.Gene{0: {7, blk, blk, blk}})

	Grow(owners[0], body, genome, idx, testGrowth)
	if body.Len() != 2 {
		t.Fatalf("body has %d cells, want 2", body.Len())
	}
	body.Cells[1].Energy = 100

	res := Grow(owners[0], body, genome, idx, testGrowth)
	if res.Branches != 0 || res.DeadEnds != 0 {
		t.Errorf("result = %+v, want no growth and no dead end", res)
	}
	if body.Cells[1].Maturity != components.Immature {
		t.Error("cell running a dormant gene should stay Immature")
	}
	if body.Cells[1].Energy != 100 {
		t.Errorf("dormant cell energy = %d, want 100 untouched", body.Cells[1].Energy)
	}
}
