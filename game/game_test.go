package game

import (
	"errors"
	"testing"
	"time"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

func TestAddTree_Errors(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg)

	if _, err := g.AddTree(nil, ground(g, 3)); err != nil {
		t.Fatalf("AddTree: %v", err)
	}

	tests := []struct {
		name string
		pos  components.Position
		want error
	}{
		{"occupied", *ground(g, 3), ErrOccupied},
		{"below ground", components.Position{Col: 1, Row: cfg.Grid.Height}, ErrOutOfBounds},
		{"above sky", components.Position{Col: 1, Row: -1}, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := tt.pos
			if _, err := g.AddTree(nil, &pos); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if g.Population() != 1 {
		t.Errorf("population = %d, want 1 after rejected seeds", g.Population())
	}
}

func TestAddTree_NoRoom(t *testing.T) {
	cfg := testConfig(t)
	cfg.Grid.Width = 3
	g := newTestGame(t, cfg)

	for i := 0; i < 3; i++ {
		if _, err := g.AddTree(nil, nil); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	if _, err := g.AddTree(nil, nil); !errors.Is(err, ErrNoRoom) {
		t.Errorf("err = %v, want ErrNoRoom", err)
	}
}

func TestAddTree_CopiesGenome(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	genome := dormantGenome()

	e, err := g.AddTree(genome, ground(g, 0))
	if err != nil {
		t.Fatal(err)
	}
	genome.Genes[0][genetics.Up] = 4

	stored, ok := g.Genome(e)
	if !ok {
		t.Fatal("tree missing")
	}
	if !stored.Genes[0].Dormant() {
		t.Error("caller's edit leaked into the planted genome")
	}

	info, _ := g.TreeInfo(e)
	if info.Age != 0 || info.Balance != g.Config().Energy.Initial || info.State != components.StateAlive {
		t.Errorf("new tree = %+v", info)
	}
}

func TestSettlePosition(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg)
	groundRow := cfg.Grid.Height - 1

	got, err := g.SettlePosition(components.Position{Col: 4, Row: 2})
	if err != nil || got.Row != groundRow {
		t.Fatalf("empty column: got %v, %v; want ground row", got, err)
	}

	if _, err := g.AddTree(nil, ground(g, 4)); err != nil {
		t.Fatal(err)
	}
	got, err = g.SettlePosition(components.Position{Col: 4, Row: 2})
	if err != nil || got.Row != groundRow-1 {
		t.Errorf("supported column: got %v, %v; want row %d", got, err, groundRow-1)
	}

	if _, err := g.SettlePosition(*ground(g, 4)); !errors.Is(err, ErrOccupied) {
		t.Errorf("occupied: err = %v, want ErrOccupied", err)
	}
	if _, err := g.SettlePosition(components.Position{Col: 4, Row: 500}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("off lattice: err = %v, want ErrOutOfBounds", err)
	}
}

func TestSetters_Clamp(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg)

	tests := []struct {
		sun, want int
	}{
		{-5, cfg.Sun.Min},
		{3, 3},
		{cfg.Sun.Max + 10, cfg.Sun.Max},
	}
	for _, tt := range tests {
		g.SetSunLevel(tt.sun)
		if g.SunLevel() != tt.want {
			t.Errorf("SetSunLevel(%d) -> %d, want %d", tt.sun, g.SunLevel(), tt.want)
		}
	}

	g.SetTickDuration(time.Hour)
	if want := time.Duration(cfg.Tick.MaxMS) * time.Millisecond; g.TickDuration() != want {
		t.Errorf("tick duration = %v, want %v", g.TickDuration(), want)
	}
	g.SetTickDuration(-time.Second)
	if want := time.Duration(cfg.Tick.MinMS) * time.Millisecond; g.TickDuration() != want {
		t.Errorf("tick duration = %v, want %v", g.TickDuration(), want)
	}
}

func TestCommandQueue_DropsWhenFull(t *testing.T) {
	q := NewCommandQueue(2)
	if !q.Enqueue(Command{Kind: CmdStep}) || !q.Enqueue(Command{Kind: CmdStep}) {
		t.Fatal("enqueue below capacity failed")
	}
	if q.Enqueue(Command{Kind: CmdStep}) {
		t.Error("enqueue on a full queue should drop")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	for i := 0; i < 2; i++ {
		if _, ok := q.Dequeue(); !ok {
			t.Fatalf("dequeue %d failed", i)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("dequeue on an empty queue should report false")
	}
}

func TestUpdate_Commands(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg)
	cmds := g.Commands()

	g.Update()
	if g.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", g.Tick())
	}

	cmds.Enqueue(Command{Kind: CmdTogglePause})
	g.Update()
	if !g.Paused() || g.Tick() != 1 {
		t.Fatalf("paused=%v tick=%d, want paused at 1", g.Paused(), g.Tick())
	}

	cmds.Enqueue(Command{Kind: CmdStep})
	cmds.Enqueue(Command{Kind: CmdStep})
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("tick = %d, want 3 after two steps while paused", g.Tick())
	}

	pos := ground(g, 9)
	cmds.Enqueue(Command{Kind: CmdAddTree, Genome: dormantGenome(), Position: pos})
	cmds.Enqueue(Command{Kind: CmdAddTree, Position: pos}) // rejected: occupied
	cmds.Enqueue(Command{Kind: CmdSetSunLevel, Sun: 99})
	cmds.Enqueue(Command{Kind: CmdSetTickDuration, Duration: 20 * time.Millisecond})
	g.Update()
	if g.Population() != 1 {
		t.Errorf("population = %d, want 1", g.Population())
	}
	if g.SunLevel() != cfg.Sun.Max {
		t.Errorf("sun = %d, want clamp to %d", g.SunLevel(), cfg.Sun.Max)
	}
	if g.TickDuration() != 20*time.Millisecond {
		t.Errorf("tick duration = %v", g.TickDuration())
	}
	if g.Tick() != 3 {
		t.Errorf("paused world advanced to %d", g.Tick())
	}
}

func TestAdvance_PacesByTickDuration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tick.MinMS, cfg.Tick.MaxMS = 0, 400
	g := newTestGame(t, cfg)
	g.SetTickDuration(100 * time.Millisecond)

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{250 * time.Millisecond, 2},
		{60 * time.Millisecond, 1}, // 50ms carried over
		{10 * time.Millisecond, 0},
		{10 * time.Second, maxStepsPerFrame},
	}
	for _, tt := range tests {
		if got := g.Advance(tt.elapsed); got != tt.want {
			t.Errorf("Advance(%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}

	g.SetPaused(true)
	if got := g.Advance(time.Second); got != 0 {
		t.Errorf("paused Advance ran %d ticks", got)
	}
}

func TestUpdateHeadless_StepsPerUpdate(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 3, Config: testConfig(t), StepsPerUpdate: 5})
	defer g.Unload()

	g.UpdateHeadless()
	if g.Tick() != 5 {
		t.Errorf("tick = %d, want 5", g.Tick())
	}
}
