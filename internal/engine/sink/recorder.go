package sink

import (
	"image/color"

	"github.com/Faultbox/melencholia/pkg/math"
)

// Call is one recorded triangle draw.
type Call struct {
	Outline bool
	P       [3]math.Vec2
	Colors  [3]color.NRGBA
	Alpha   uint8
}

// Recorder is a Sink that keeps every call in memory. It draws nothing.
type Recorder struct {
	Frames      [][]Call // presented frames
	Pending     []Call   // calls since the last Present
	Backgrounds int
	Clears      int

	// Fail, when set, is returned by triangle draws and Present.
	Fail error
}

// DrawBackground counts the blit.
func (r *Recorder) DrawBackground() error {
	r.Backgrounds++
	return nil
}

// DrawTriangleOutline records the outline.
func (r *Recorder) DrawTriangleOutline(p0, p1, p2 math.Vec2, c color.NRGBA) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.Pending = append(r.Pending, Call{
		Outline: true,
		P:       [3]math.Vec2{p0, p1, p2},
		Colors:  [3]color.NRGBA{c, c, c},
		Alpha:   c.A,
	})
	return nil
}

// FillTriangle records the fill.
func (r *Recorder) FillTriangle(p0, p1, p2 math.Vec2, colors [3]color.NRGBA, alpha uint8) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.Pending = append(r.Pending, Call{
		P:      [3]math.Vec2{p0, p1, p2},
		Colors: colors,
		Alpha:  alpha,
	})
	return nil
}

// Present moves the pending calls into a new frame.
func (r *Recorder) Present() error {
	if r.Fail != nil {
		return r.Fail
	}
	r.Frames = append(r.Frames, r.Pending)
	r.Pending = nil
	return nil
}

// Clear drops any calls that were not presented.
func (r *Recorder) Clear() error {
	r.Clears++
	r.Pending = nil
	return nil
}

// Fills returns the filled triangles of a presented frame.
func (r *Recorder) Fills(frame int) []Call {
	var out []Call
	for _, c := range r.Frames[frame] {
		if !c.Outline {
			out = append(out, c)
		}
	}
	return out
}
