package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/ui/palette"
)

// ControlState is what the control strip shows this frame.
type ControlState struct {
	Paused  bool
	Mode    palette.Mode
	Sun     int
	SunMin  int
	SunMax  int
	CanSave bool // A tree is selected
}

// ControlActions is what the user pressed this frame.
type ControlActions struct {
	TogglePause bool
	Step        bool
	Slower      bool
	Faster      bool
	Save        bool
	Load        bool
	Mode        palette.Mode
	Sun         int
}

// ControlBar is the row of raygui buttons across the top of the strip.
type ControlBar struct {
	renderer *Renderer
	x, y     float32
}

// NewControlBar creates a control bar at (x, y).
func NewControlBar(x, y float32) *ControlBar {
	return &ControlBar{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the bar position.
func (c *ControlBar) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Height returns the height taken by the bar.
func (c *ControlBar) Height() int32 {
	return int32(c.renderer.Theme.ButtonH + c.renderer.Theme.ButtonGap)
}

// Draw renders the buttons and returns the actions taken.
func (c *ControlBar) Draw(state ControlState) ControlActions {
	th := c.renderer.Theme
	act := ControlActions{Mode: state.Mode, Sun: state.Sun}

	x := c.x
	button := func(label string) bool {
		r := rl.Rectangle{X: x, Y: c.y, Width: th.ButtonW, Height: th.ButtonH}
		x += th.ButtonW + th.ButtonGap
		return gui.Button(r, label)
	}

	act.TogglePause = button(toggleText(state.Paused, "Play", "Pause"))
	act.Step = button("Step")
	act.Slower = button("Speed -")
	act.Faster = button("Speed +")

	if !state.CanSave {
		gui.Disable()
	}
	act.Save = button("Save")
	gui.Enable()
	act.Load = button("Load")

	x += th.ButtonGap
	toggleW := th.ButtonW * 0.8
	active := gui.ToggleGroup(
		rl.Rectangle{X: x, Y: c.y, Width: toggleW, Height: th.ButtonH},
		palette.ToggleText(),
		int32(state.Mode),
	)
	act.Mode = palette.Mode(active)
	x += toggleW*float32(palette.ModeCount()) + th.ButtonGap*2

	rl.DrawText("Sun", int32(x), int32(c.y)+7, th.FontSize, th.LabelColor)
	x += 56
	sun := gui.SliderBar(
		rl.Rectangle{X: x, Y: c.y + 4, Width: 140, Height: th.ButtonH - 8},
		fmt.Sprint(state.SunMin), fmt.Sprint(state.SunMax),
		float32(state.Sun), float32(state.SunMin), float32(state.SunMax),
	)
	act.Sun = int(sun + 0.5)

	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
