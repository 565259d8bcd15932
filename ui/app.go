package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/camera"
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/genetics"
	"github.com/pthm-cable/grove/inspector"
	"github.com/pthm-cable/grove/ui/palette"
)

const (
	panSpeed    = 600 // Screen pixels per second
	statusTTL   = 3 * time.Second
	zoomPerStep = 0.1
	keyLegend   = "[Space] pause  [,/.] speed  [N] tree  [M] view  [P] perf  [Arrows/Wheel] camera  [Home] reset"
)

// App is the windowed front end of one world.
type App struct {
	game *game.Game
	cfg  *config.Config
	cam  *camera.Camera

	renderer  *Renderer
	hud       *HUD
	perf      *PerfPanel
	controls  *ControlBar
	inspector *inspector.Inspector
	store     *genetics.Store

	genomePath string
	mode       palette.Mode
	placing    *genetics.Genome // Loaded genome waiting for a grid click
	showPerf   bool

	status      string
	statusUntil time.Time

	cells []game.CellView
}

// NewApp builds the front end for g. genomePath, if set, is the file the
// load button reads; otherwise it loads the newest save.
func NewApp(g *game.Game, genomePath string) *App {
	cfg := g.Config()
	d := cfg.Derived

	a := &App{
		game:       g,
		cfg:        cfg,
		cam:        camera.New(d.ScreenW32, d.ViewportH32, float32(d.GridPixelW), float32(d.GridPixelH)),
		renderer:   NewRenderer(),
		hud:        NewHUD(),
		perf:       NewPerfPanel(10, 10),
		inspector:  inspector.NewInspector(int32(d.ScreenW32), int32(d.ViewportH32)),
		store:      genetics.NewStore(cfg.UI.SavesDir),
		genomePath: genomePath,
	}
	a.controls = NewControlBar(float32(a.renderer.Theme.Padding), d.ViewportH32+6)
	return a
}

// Frame handles input, advances the world by the frame time and draws.
func (a *App) Frame(dt time.Duration) {
	a.handleInput(float32(dt.Seconds()))
	a.game.Advance(dt)
	a.game.Perf().RecordFrame()

	if sel, ok := a.inspector.Selected(); ok && !a.game.Alive(sel) {
		a.inspector.Deselect()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.drawGrid()
	a.drawInspector()
	a.drawPanel()
	if a.showPerf {
		a.perf.Draw(a.game.Perf().Stats())
	}
	rl.EndDrawing()
}

func (a *App) handleInput(dt float32) {
	cmds := a.game.Commands()

	if rl.IsKeyPressed(rl.KeySpace) {
		cmds.Enqueue(game.Command{Kind: game.CmdTogglePause})
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		a.changeSpeed(+1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		a.changeSpeed(-1)
	}
	if rl.IsKeyPressed(rl.KeyN) {
		cmds.Enqueue(game.Command{Kind: game.CmdAddTree})
	}
	if rl.IsKeyPressed(rl.KeyM) {
		a.mode = a.mode.Next()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.showPerf = !a.showPerf
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.placing != nil {
			a.placing = nil
		} else {
			a.inspector.Deselect()
		}
	}

	a.handleCamera(dt)

	mouse := rl.GetMousePosition()
	if mouse.Y >= a.cfg.Derived.ViewportH32 {
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		a.placing = nil
		a.inspector.Deselect()
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		a.handleClick(mouse)
	}
}

func (a *App) handleCamera(dt float32) {
	step := panSpeed * dt / a.cam.Zoom
	if rl.IsKeyDown(rl.KeyLeft) {
		a.cam.Pan(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.cam.Pan(step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.cam.Pan(0, -step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.cam.Pan(0, step)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.ZoomBy(1 + wheel*zoomPerStep)
	}
}

// handleClick plants an armed genome, or toggles selection of the tree
// under the cursor.
func (a *App) handleClick(mouse rl.Vector2) {
	if a.inspector.HandleClick(int32(mouse.X), int32(mouse.Y)) {
		return
	}
	col, row, ok := a.cam.CellAt(mouse.X, mouse.Y, a.cfg.Derived.CellSize32)
	if !ok {
		return
	}
	pos := components.Position{Col: col, Row: row}

	if a.placing != nil {
		a.plant(pos)
		return
	}

	entity, found := a.game.TreeAt(pos)
	if !found {
		a.inspector.Deselect()
		return
	}
	if sel, ok := a.inspector.Selected(); ok && sel == entity {
		a.inspector.Deselect()
		return
	}
	a.inspector.Select(entity)
}

// plant drops the armed genome down the clicked column and queues it.
func (a *App) plant(pos components.Position) {
	settled, err := a.game.SettlePosition(pos)
	if err != nil {
		a.setStatus(fmt.Sprintf("Cannot plant at (%d,%d)", pos.Col, pos.Row))
		slog.Warn("plant rejected", "col", pos.Col, "row", pos.Row, "error", err)
		return
	}
	a.game.Commands().Enqueue(game.Command{
		Kind:     game.CmdAddTree,
		Genome:   a.placing,
		Position: &settled,
	})
	a.placing = nil
}

// changeSpeed lengthens (dir > 0) or shortens the tick duration by one step.
func (a *App) changeSpeed(dir int) {
	d := a.game.TickDuration() + time.Duration(dir*a.cfg.Tick.StepMS)*time.Millisecond
	a.game.Commands().Enqueue(game.Command{Kind: game.CmdSetTickDuration, Duration: d})
}

// saveSelected writes the selected tree's genome to the saves directory.
func (a *App) saveSelected() {
	sel, ok := a.inspector.Selected()
	if !ok {
		return
	}
	genome, ok := a.game.Genome(sel)
	if !ok {
		return
	}
	path, err := a.store.Save(genome)
	if err != nil {
		a.setStatus("Save failed")
		slog.Error("failed to save genome", "error", err)
		return
	}
	a.setStatus("Saved " + path)
	slog.Info("genome saved", "path", path)
}

// loadGenome arms placement of the -genome file or the newest save.
func (a *App) loadGenome() {
	var (
		genome *genetics.Genome
		path   string
		err    error
	)
	if a.genomePath != "" {
		path = a.genomePath
		genome, err = genetics.LoadFile(path)
	} else {
		genome, path, err = a.store.Latest()
	}

	switch {
	case errors.Is(err, genetics.ErrNoSavedGenome):
		a.setStatus("No saved genome in " + a.store.Dir)
		return
	case err != nil:
		a.setStatus("Load failed")
		slog.Error("failed to load genome", "path", path, "error", err)
		return
	}
	a.placing = genome
	slog.Info("genome loaded", "path", path)
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusUntil = time.Now().Add(statusTTL)
}

func (a *App) currentStatus() string {
	if time.Now().After(a.statusUntil) {
		return ""
	}
	return a.status
}

// drawGrid draws the sky and ground bands, then every visible cell.
func (a *App) drawGrid() {
	d := a.cfg.Derived
	cell := d.CellSize32
	screenW := int32(d.ScreenW32)

	rl.BeginScissorMode(0, 0, screenW, int32(d.ViewportH32))
	defer rl.EndScissorMode()

	canopy := a.cfg.Grid.CanopyRow
	_, top := a.cam.WorldToScreen(0, 0)
	_, mid := a.cam.WorldToScreen(0, float32(canopy)*cell)
	_, bottom := a.cam.WorldToScreen(0, a.cam.WorldH)
	rl.DrawRectangle(0, int32(top), screenW, int32(mid-top), toRL(palette.Background(0, canopy)))
	rl.DrawRectangle(0, int32(mid), screenW, int32(bottom-mid)+1, toRL(palette.Background(canopy, canopy)))

	sel, hasSel := a.inspector.Selected()
	size := cell * a.cam.Zoom
	a.cells = a.game.AppendCells(a.cells[:0])
	for _, c := range a.cells {
		wx, wy := float32(c.Pos.Col)*cell, float32(c.Pos.Row)*cell
		if !a.cam.IsVisible(wx, wy, cell) {
			continue
		}
		sx, sy := a.cam.WorldToScreen(wx, wy)
		rect := rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}
		rl.DrawRectangleRec(rect, toRL(palette.CellColor(c, a.mode)))
		if hasSel && c.Entity == sel {
			rl.DrawRectangleLinesEx(rect, 1, a.renderer.Theme.SelectColor)
		}
	}
}

func (a *App) drawInspector() {
	sel, ok := a.inspector.Selected()
	if !ok {
		return
	}
	info, ok := a.game.TreeInfo(sel)
	if !ok {
		return
	}
	genome, _ := a.game.Genome(sel)
	a.inspector.Draw(info, genome)
}

// drawPanel draws the control strip and applies what was clicked.
func (a *App) drawPanel() {
	d := a.cfg.Derived
	th := a.renderer.Theme
	top := int32(d.ViewportH32)
	a.renderer.DrawPanel(0, top, int32(d.ScreenW32), int32(d.ScreenH32)-top)

	_, hasSel := a.inspector.Selected()
	act := a.controls.Draw(ControlState{
		Paused:  a.game.Paused(),
		Mode:    a.mode,
		Sun:     a.game.SunLevel(),
		SunMin:  a.cfg.Sun.Min,
		SunMax:  a.cfg.Sun.Max,
		CanSave: hasSel,
	})
	a.apply(act)

	y := top + a.controls.Height() + 6
	a.hud.Draw(th.Padding, y, HUDData{
		Tick:         a.game.Tick(),
		Trees:        a.game.Population(),
		Cells:        len(a.cells),
		Generation:   a.game.Generation(),
		Sun:          a.game.SunLevel(),
		TickDuration: a.game.TickDuration(),
		FPS:          rl.GetFPS(),
		Mode:         a.mode,
		Paused:       a.game.Paused(),
		Placing:      a.placing != nil,
		Status:       a.currentStatus(),
	})
	a.hud.DrawControls(int32(d.ScreenW32)-th.Padding, int32(d.ScreenH32)-18, keyLegend)
}

func (a *App) apply(act ControlActions) {
	cmds := a.game.Commands()
	if act.TogglePause {
		cmds.Enqueue(game.Command{Kind: game.CmdTogglePause})
	}
	if act.Step {
		cmds.Enqueue(game.Command{Kind: game.CmdStep})
	}
	if act.Slower {
		a.changeSpeed(+1)
	}
	if act.Faster {
		a.changeSpeed(-1)
	}
	if act.Save {
		a.saveSelected()
	}
	if act.Load {
		a.loadGenome()
	}
	a.mode = act.Mode
	if act.Sun != a.game.SunLevel() {
		cmds.Enqueue(game.Command{Kind: game.CmdSetSunLevel, Sun: act.Sun})
	}
}
