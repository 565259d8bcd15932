// Package camera maps the lattice onto the window. The world wraps around
// horizontally like the lattice columns do; vertically the view is clamped
// between the sky and the ground.
package camera

import "math"

// Camera controls the viewport into the lattice, in world pixels.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions: columns × cell size by rows × cell size
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   6.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the smallest zoom at which the view stays inside the world.
func (c *Camera) fitZoom() float32 {
	return max(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates, taking
// the shorter way around the horizontal wrap.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wrapDelta(wx, c.X, c.WorldW)
	dy := wy - c.Y
	return c.ViewportW/2 + dx*c.Zoom, c.ViewportH/2 + dy*c.Zoom
}

// ScreenToWorld converts screen coordinates to world coordinates.
// X is wrapped into the world; Y is not.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom
	return mod(c.X+dx, c.WorldW), c.Y + dy
}

// CellAt returns the lattice cell under a screen point for the given cell
// size in world pixels. ok is false above or below the lattice.
func (c *Camera) CellAt(sx, sy, cellSize float32) (col, row int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wy < 0 || wy >= c.WorldH {
		return 0, 0, false
	}
	col = int(wx / cellSize)
	row = int(wy / cellSize)
	cols := int(c.WorldW / cellSize)
	if col >= cols {
		col = cols - 1
	}
	return col, row, true
}

// IsVisible returns true if a square at (wx, wy) with the given size could
// be on screen.
func (c *Camera) IsVisible(wx, wy, size float32) bool {
	dx := wrapDelta(wx, c.X, c.WorldW)
	dy := wy - c.Y
	halfW := c.ViewportW/(2*c.Zoom) + size
	halfH := c.ViewportH/(2*c.Zoom) + size
	return absf(dx) <= halfW && absf(dy) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by a delta in screen pixels. X wraps, Y stays
// within the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.WorldW)
	c.Y += dy / c.Zoom
	c.clampY()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampY()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset shows the whole lattice.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = max(1.0, c.MinZoom)
	c.clampY()
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// minX may be greater than maxX when the view straddles the wrap.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return mod(c.X-halfW, c.WorldW), c.Y - halfH, mod(c.X+halfW, c.WorldW), c.Y + halfH
}

func (c *Camera) clampY() {
	halfH := c.ViewportH / (2 * c.Zoom)
	if halfH*2 >= c.WorldH {
		c.Y = c.WorldH / 2
		return
	}
	c.Y = clamp(c.Y, halfH, c.WorldH-halfH)
}

// wrapDelta returns the shortest signed distance from 'from' to 'to' on a
// circle of the given size.
func wrapDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
