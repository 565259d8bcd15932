package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete world state for replay.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	Tick       int32  `json:"tick"`
	SunLevel   int    `json:"sun_level"`
	NextID     uint32 `json:"next_id"`
	Generation int    `json:"generation"`

	Trees []TreeState `json:"trees"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// TreeState holds one tree's complete state.
type TreeState struct {
	ID         uint32               `json:"id"`
	ParentID   uint32               `json:"parent_id"`
	State      components.LifeState `json:"state"`
	Balance    int                  `json:"balance"`
	Income     int                  `json:"income"`
	Waste      int                  `json:"waste"`
	Age        int                  `json:"age"`
	Lifespan   int                  `json:"lifespan"`
	Generation int                  `json:"generation"`
	BirthTick  int32                `json:"birth_tick"`

	Genome *genetics.Genome `json:"genome"`
	Cells  []CellState      `json:"cells"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// CellState is the serialized form of a cell.
type CellState struct {
	Col        int   `json:"col"`
	Row        int   `json:"row"`
	Gene       uint8 `json:"gene"`
	Energy     int   `json:"energy"`
	LastEnergy int   `json:"last_energy"`
	Mature     bool  `json:"mature"`
}

// CellStates converts a body to its serialized form.
func CellStates(body *components.Body) []CellState {
	out := make([]CellState, len(body.Cells))
	for i, c := range body.Cells {
		out[i] = CellState{
			Col:        c.Pos.Col,
			Row:        c.Pos.Row,
			Gene:       c.Gene,
			Energy:     c.Energy,
			LastEnergy: c.LastEnergy,
			Mature:     c.Maturity == components.Mature,
		}
	}
	return out
}

// Body rebuilds a body from serialized cells.
func (ts *TreeState) Body() components.Body {
	cells := make([]components.Cell, len(ts.Cells))
	for i, c := range ts.Cells {
		m := components.Immature
		if c.Mature {
			m = components.Mature
		}
		cells[i] = components.Cell{
			Pos:        components.Position{Col: c.Col, Row: c.Row},
			Gene:       c.Gene,
			Energy:     c.Energy,
			LastEnergy: c.LastEnergy,
			Maturity:   m,
		}
	}
	return components.Body{Cells: cells}
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	BirthTick   int32          `json:"birth_tick"`
	ParentID    uint32         `json:"parent_id"`
	Lineage     genetics.Color `json:"lineage"`
	Generation  int            `json:"generation"`
	Mutated     bool           `json:"mutated"`
	Children    int            `json:"children"`
	PeakCells   int            `json:"peak_cells"`
	PeakBalance int            `json:"peak_balance"`
	Lifespan    int            `json:"lifespan"`
	DeathAge    int            `json:"death_age"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	j := LifetimeStatsJSON(*ls)
	return &j
}

// FromJSON converts the JSON form back to LifetimeStats.
func (lsj *LifetimeStatsJSON) FromJSON() *LifetimeStats {
	if lsj == nil {
		return nil
	}
	s := LifetimeStats(*lsj)
	return &s
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
