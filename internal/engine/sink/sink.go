// Package sink defines the drawing surface the frame scheduler renders to.
package sink

import (
	"image/color"

	"github.com/Faultbox/melencholia/pkg/math"
)

// Sink is a 2D drawing surface. Coordinates are pixels with the origin at
// the top-left corner.
type Sink interface {
	// DrawBackground blits the background image. It is called once per
	// frame before any triangle.
	DrawBackground() error
	// DrawTriangleOutline draws the three edges of a triangle.
	DrawTriangleOutline(p0, p1, p2 math.Vec2, c color.NRGBA) error
	// FillTriangle fills a triangle, interpolating one colour per vertex,
	// blended over the frame with the given alpha.
	FillTriangle(p0, p1, p2 math.Vec2, colors [3]color.NRGBA, alpha uint8) error
	// Present shows the finished frame.
	Present() error
	// Clear resets the frame buffer for the next frame.
	Clear() error
}

// Style is the fixed look of every drawn triangle.
type Style struct {
	Outline color.NRGBA
	Vertex  [3]color.NRGBA
	Alpha   uint8
}

// DefaultStyle is a black outline over a red, green and blue fill at 80%
// opacity.
func DefaultStyle() Style {
	return Style{
		Outline: color.NRGBA{A: 255},
		Vertex: [3]color.NRGBA{
			{R: 255, A: 255},
			{G: 255, A: 255},
			{B: 255, A: 255},
		},
		Alpha: Alpha(0.8),
	}
}

// Alpha converts an opacity in [0, 1] to an 8-bit alpha, truncating.
func Alpha(opacity float32) uint8 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return 255
	}
	return uint8(opacity * 255)
}

// DrawTriangle draws the outline and then the translucent fill of a
// projected triangle.
func DrawTriangle(s Sink, st Style, p [3]math.Vec2) error {
	if err := s.DrawTriangleOutline(p[0], p[1], p[2], st.Outline); err != nil {
		return err
	}
	return s.FillTriangle(p[0], p[1], p[2], st.Vertex, st.Alpha)
}
