// Package mesh loads triangle meshes for the renderer.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/melencholia/pkg/math"
)

// Load errors.
var (
	ErrOpen              = errors.New("cannot open mesh")
	ErrSyntax            = errors.New("malformed mesh line")
	ErrMalformedGeometry = errors.New("malformed geometry")
)

// LoadError describes why a mesh could not be loaded.
// Line is 1-based and zero when the error is not tied to a line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("mesh %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("mesh %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Triangle is three vertices in winding order. The winding decides the
// direction of the face normal.
type Triangle struct {
	P [3]math.Vec3
}

// Mesh is an ordered list of triangles. It is not modified after loading.
type Mesh struct {
	Source    string
	Vertices  int // vertices declared by the source
	Triangles []Triangle
}

// Len returns the number of triangles.
func (m *Mesh) Len() int {
	return len(m.Triangles)
}

// Bounds returns the axis-aligned box around every triangle vertex.
// ok is false for an empty mesh.
func (m *Mesh) Bounds() (lo, hi math.Vec3, ok bool) {
	if len(m.Triangles) == 0 {
		return lo, hi, false
	}
	lo, hi = m.Triangles[0].P[0], m.Triangles[0].P[0]
	for _, tri := range m.Triangles {
		for _, p := range tri.P {
			lo = lo.Min(p)
			hi = hi.Max(p)
		}
	}
	return lo, hi, true
}

// triangleFrom copies three vertices out of verts. idx is zero-based; base
// is only used to report the index the way the source wrote it.
func triangleFrom(verts []math.Vec3, idx [3]int, base int) (Triangle, error) {
	for _, i := range idx {
		if i < 0 || i >= len(verts) {
			return Triangle{}, fmt.Errorf("%w: vertex index %d out of range (have %d vertices)",
				ErrMalformedGeometry, i+base, len(verts))
		}
	}
	return Triangle{P: [3]math.Vec3{verts[idx[0]], verts[idx[1]], verts[idx[2]]}}, nil
}
