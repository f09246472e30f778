package raster

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/melencholia/pkg/math"
)

// line draws a Bresenham line from a to b, clipped to the canvas.
func (c *Canvas) line(a, b math.Vec2, col color.NRGBA) {
	if !finite(a, b) {
		return
	}
	r := c.back.Rect
	a, b, ok := clipLine(a, b, float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X-1), float32(r.Max.Y-1))
	if !ok {
		return
	}

	x0 := clamp(int(math32.Round(a.X)), r.Min.X, r.Max.X-1)
	y0 := clamp(int(math32.Round(a.Y)), r.Min.Y, r.Max.Y-1)
	x1 := clamp(int(math32.Round(b.X)), r.Min.X, r.Max.X-1)
	y1 := clamp(int(math32.Round(b.Y)), r.Min.Y, r.Max.Y-1)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.blend(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine clips segment ab to the rectangle [minX, maxX] x [minY, maxY]
// (Liang-Barsky). ok is false when nothing is left.
func clipLine(a, b math.Vec2, minX, minY, maxX, maxY float32) (math.Vec2, math.Vec2, bool) {
	t0, t1 := float32(0), float32(1)
	d := b.Sub(a)

	clip := func(p, q float32) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if !clip(-d.X, a.X-minX) || !clip(d.X, maxX-a.X) ||
		!clip(-d.Y, a.Y-minY) || !clip(d.Y, maxY-a.Y) {
		return a, b, false
	}
	return a.Lerp(b, t0), a.Lerp(b, t1), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
