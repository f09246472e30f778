// Package raster is a software Sink that draws into an in-memory image.
// It backs the headless backend and offline rendering.
package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/Faultbox/melencholia/pkg/math"
)

// PresentFunc receives every presented frame. img is only valid during
// the call.
type PresentFunc func(img *image.NRGBA, frame uint64) error

// Canvas draws into a back buffer; Present copies it to the front buffer.
type Canvas struct {
	back       *image.NRGBA
	front      *image.NRGBA
	background *image.NRGBA
	clear      color.NRGBA
	frames     uint64

	// OnPresent, when set, is called after each Present.
	OnPresent PresentFunc
}

// New creates a width x height canvas. background may be nil, in which case
// DrawBackground fills with the clear colour. A background of another size
// is drawn at the top-left corner.
func New(width, height int, background *image.NRGBA, clear color.NRGBA) *Canvas {
	r := image.Rect(0, 0, width, height)
	c := &Canvas{
		back:       image.NewNRGBA(r),
		front:      image.NewNRGBA(r),
		background: background,
		clear:      clear,
	}
	c.fill(c.back, clear)
	c.fill(c.front, clear)
	return c
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.back.Rect
}

// Frame returns the last presented frame.
func (c *Canvas) Frame() *image.NRGBA {
	return c.front
}

// Frames returns how many frames were presented.
func (c *Canvas) Frames() uint64 {
	return c.frames
}

// DrawBackground blits the background image.
func (c *Canvas) DrawBackground() error {
	if c.background == nil {
		c.fill(c.back, c.clear)
		return nil
	}
	if c.background.Rect == c.back.Rect {
		copy(c.back.Pix, c.background.Pix)
		return nil
	}
	c.fill(c.back, c.clear)
	draw.Draw(c.back, c.back.Rect, c.background, c.background.Rect.Min, draw.Src)
	return nil
}

// DrawTriangleOutline draws the three edges with 1-pixel lines.
func (c *Canvas) DrawTriangleOutline(p0, p1, p2 math.Vec2, col color.NRGBA) error {
	c.line(p0, p1, col)
	c.line(p1, p2, col)
	c.line(p2, p0, col)
	return nil
}

// FillTriangle fills pixels whose centres lie inside the triangle, with
// either winding, blending the interpolated vertex colour at alpha.
func (c *Canvas) FillTriangle(p0, p1, p2 math.Vec2, colors [3]color.NRGBA, alpha uint8) error {
	area := edge(p0, p1, p2)
	if area == 0 || !finite(p0, p1, p2) {
		return nil
	}
	inv := 1 / area

	b := c.back.Rect
	minX := clamp(int(math32.Floor(math32.Min(p0.X, math32.Min(p1.X, p2.X)))), b.Min.X, b.Max.X)
	maxX := clamp(int(math32.Ceil(math32.Max(p0.X, math32.Max(p1.X, p2.X)))), b.Min.X, b.Max.X)
	minY := clamp(int(math32.Floor(math32.Min(p0.Y, math32.Min(p1.Y, p2.Y)))), b.Min.Y, b.Max.Y)
	maxY := clamp(int(math32.Ceil(math32.Max(p0.Y, math32.Max(p1.Y, p2.Y)))), b.Min.Y, b.Max.Y)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p := math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}
			w0 := edge(p1, p2, p) * inv
			w1 := edge(p2, p0, p) * inv
			w2 := edge(p0, p1, p) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			src := color.NRGBA{
				R: mix(colors, w0, w1, w2, func(c color.NRGBA) uint8 { return c.R }),
				G: mix(colors, w0, w1, w2, func(c color.NRGBA) uint8 { return c.G }),
				B: mix(colors, w0, w1, w2, func(c color.NRGBA) uint8 { return c.B }),
				A: alpha,
			}
			c.blend(x, y, src)
		}
	}
	return nil
}

// Present publishes the back buffer.
func (c *Canvas) Present() error {
	copy(c.front.Pix, c.back.Pix)
	c.frames++
	if c.OnPresent != nil {
		return c.OnPresent(c.front, c.frames)
	}
	return nil
}

// Clear resets the back buffer to the clear colour.
func (c *Canvas) Clear() error {
	c.fill(c.back, c.clear)
	return nil
}

func (c *Canvas) fill(img *image.NRGBA, col color.NRGBA) {
	px := [4]uint8{col.R, col.G, col.B, col.A}
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], px[:])
	}
}

// blend composites src over the pixel at (x, y).
func (c *Canvas) blend(x, y int, src color.NRGBA) {
	i := c.back.PixOffset(x, y)
	d := c.back.Pix[i : i+4 : i+4]
	a := uint32(src.A)
	ia := 255 - a
	d[0] = uint8((uint32(src.R)*a + uint32(d[0])*ia + 127) / 255)
	d[1] = uint8((uint32(src.G)*a + uint32(d[1])*ia + 127) / 255)
	d[2] = uint8((uint32(src.B)*a + uint32(d[2])*ia + 127) / 255)
	d[3] = uint8(a + (uint32(d[3])*ia+127)/255)
}

// edge is twice the signed area of (a, b, p).
func edge(a, b, p math.Vec2) float32 {
	return b.Sub(a).Cross(p.Sub(a))
}

func mix(colors [3]color.NRGBA, w0, w1, w2 float32, ch func(color.NRGBA) uint8) uint8 {
	v := w0*float32(ch(colors[0])) + w1*float32(ch(colors[1])) + w2*float32(ch(colors[2]))
	return uint8(math32.Min(255, math32.Max(0, v+0.5)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(ps ...math.Vec2) bool {
	for _, p := range ps {
		if math32.IsNaN(p.X) || math32.IsNaN(p.Y) || math32.IsInf(p.X, 0) || math32.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
