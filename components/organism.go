package components

import "github.com/pthm-cable/grove/genetics"

// Tree holds the energy ledger and lifecycle of one organism.
type Tree struct {
	ID         uint32    `inspect:"label"`
	ParentID   uint32    `inspect:"skip"` // 0 for founders
	State      LifeState `inspect:"label"`
	Balance    int       `inspect:"bar,max:1500"`
	Income     int       `inspect:"label"` // Harvest of the last settlement
	Waste      int       `inspect:"label"` // Upkeep of the last settlement
	Age        int       `inspect:"bar,max:100"`
	Lifespan   int       `inspect:"label"`
	Generation int       `inspect:"label"` // Mutated ancestors since the founder
	BirthTick  int32     `inspect:"skip"`
}

// Heredity holds the genome a tree grows from.
type Heredity struct {
	Genome *genetics.Genome
}
