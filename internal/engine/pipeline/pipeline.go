package pipeline

import (
	"sort"

	"github.com/Faultbox/melencholia/pkg/math"
	"github.com/Faultbox/melencholia/pkg/mesh"
)

// DefaultOffset pushes the rotated mesh in front of the camera.
var DefaultOffset = math.Vec3{Z: 3}

// Pipeline holds the parts of the transform chain that do not change
// between frames.
type Pipeline struct {
	Camera     math.Vec3
	Projection math.Mat4
	Viewport   Viewport
	Offset     math.Vec3
	Axes       []Axis

	// DepthSort draws farther triangles first. When false triangles are
	// emitted in mesh order and later ones overdraw earlier ones.
	DepthSort bool
}

// Stats counts what happened to the triangles of one frame.
type Stats struct {
	Total      int
	Visible    int
	Culled     int
	Degenerate []int // mesh indices of triangles without a normal
}

// Frame runs every triangle of m through rotation by theta, translation,
// culling and projection. Visible triangles are appended to dst, which may
// be a reused buffer.
func (p *Pipeline) Frame(m *mesh.Mesh, theta float32, dst []Projected) ([]Projected, Stats) {
	dst = dst[:0]
	stats := Stats{Total: m.Len()}
	rot := BuildRotation(theta, p.Axes...)

	for i, tri := range m.Triangles {
		viewTri := TranslateTriangle(ApplyToTriangle(tri, rot), p.Offset)

		proj, visible, err := Project(viewTri, p.Camera, p.Projection, p.Viewport)
		if err != nil {
			stats.Degenerate = append(stats.Degenerate, i)
			continue
		}
		if !visible {
			stats.Culled++
			continue
		}
		proj.Index = i
		dst = append(dst, proj)
	}
	stats.Visible = len(dst)

	if p.DepthSort {
		sort.SliceStable(dst, func(a, b int) bool {
			return dst[a].Depth > dst[b].Depth
		})
	}
	return dst, stats
}
