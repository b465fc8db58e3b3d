// Package camera maps between world and screen coordinates.
package camera

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Zoom limits used when none are configured.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0
)

// Camera looks at a world point that is kept at the centre of the viewport.
//
// The transform is a pure function of the camera fields: translate by the
// negated position, rotate by the negated rotation, scale by zoom, then move
// the origin to the viewport centre.
type Camera struct {
	X, Y     float64 // World point at the viewport centre
	Zoom     float64 // Screen pixels per world unit
	Rotation float64 // Radians, counter-clockwise in world space

	ViewportW float64
	ViewportH float64

	MinZoom float64
	MaxZoom float64
}

// New creates a camera for a viewport of the given size, centred on the
// origin at zoom 1.
func New(viewportW, viewportH int) *Camera {
	return &Camera{
		Zoom:      1,
		ViewportW: float64(viewportW),
		ViewportH: float64(viewportH),
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
	}
}

// SetZoomLimits sets the zoom range and re-clamps the current zoom.
func (c *Camera) SetZoomLimits(minZoom, maxZoom float64) {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	c.MinZoom = minZoom
	c.MaxZoom = maxZoom
	c.SetZoom(c.Zoom)
}

// SetZoom sets the zoom, clamped to the configured range.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomBy multiplies the zoom by factor.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetZoom(c.Zoom * factor)
}

// Rotate adds delta radians to the rotation, normalised to (-pi, pi].
func (c *Camera) Rotate(delta float64) {
	r := math.Mod(c.Rotation+delta, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	} else if r > math.Pi {
		r -= 2 * math.Pi
	}
	c.Rotation = r
}

// Follow moves the camera a fraction t (0..1) of the way toward (x, y).
// t = 1 snaps to the target.
func (c *Camera) Follow(x, y, t float64) {
	t = math.Max(0, math.Min(1, t))
	c.X += (x - c.X) * t
	c.Y += (y - c.Y) * t
}

// ClampTo keeps the visible area inside a world of size w x h.
// Rotation is ignored; if the world is smaller than the view on an axis,
// the camera centres on that axis.
func (c *Camera) ClampTo(w, h float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	c.X = clampAxis(c.X, halfW, w)
	c.Y = clampAxis(c.Y, halfH, h)
}

func clampAxis(pos, half, size float64) float64 {
	if size <= 2*half {
		return size / 2
	}
	if pos < half {
		return half
	}
	if pos > size-half {
		return size - half
	}
	return pos
}

// GeoM returns the world-to-screen matrix.
func (c *Camera) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-c.X, -c.Y)
	g.Rotate(-c.Rotation)
	g.Scale(c.Zoom, c.Zoom)
	g.Translate(c.ViewportW/2, c.ViewportH/2)
	return g
}

// WorldToScreen maps a world point to screen pixels.
func (c *Camera) WorldToScreen(x, y float64) (float64, float64) {
	g := c.GeoM()
	return g.Apply(x, y)
}

// ScreenToWorld maps a screen point to world coordinates.
// It is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(x, y float64) (float64, float64) {
	g := c.GeoM()
	g.Invert()
	return g.Apply(x, y)
}

// Apply appends the camera transform to op so that an image positioned in
// world space is drawn in screen space.
func (c *Camera) Apply(op *ebiten.DrawImageOptions) {
	op.GeoM.Concat(c.GeoM())
}
