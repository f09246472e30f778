package pipeline

import (
	"errors"

	"github.com/Faultbox/melencholia/pkg/math"
	"github.com/Faultbox/melencholia/pkg/mesh"
)

// ErrDegenerateTriangle is returned for triangles whose vertices are
// collinear or coincident and therefore have no face normal.
var ErrDegenerateTriangle = errors.New("degenerate triangle: zero-length normal")

// Viewport is the pixel size of the drawing surface.
type Viewport struct {
	Width, Height float32
}

// ToPixels maps normalized device coordinates to pixels: x and y are shifted
// from [-1, 1] to [0, 2] and scaled by half the viewport size.
func (v Viewport) ToPixels(p math.Vec3) math.Vec2 {
	return math.Vec2{
		X: (p.X + 1) * 0.5 * v.Width,
		Y: (p.Y + 1) * 0.5 * v.Height,
	}
}

// Projected is a visible triangle in pixel space.
type Projected struct {
	P     [3]math.Vec2
	Depth float32 // mean view-space z, larger is farther
	Index int     // position of the source triangle in the mesh
}

// FaceNormal returns the unit normal (p1-p0) x (p2-p0).
func FaceNormal(tri mesh.Triangle) (math.Vec3, error) {
	line1 := tri.P[1].Sub(tri.P[0])
	line2 := tri.P[2].Sub(tri.P[0])

	n, ok := line1.Cross(line2).TryNormalize()
	if !ok || !n.IsFinite() {
		return math.Vec3{}, ErrDegenerateTriangle
	}
	return n, nil
}

// Visible reports whether a triangle with the given normal faces the camera:
// the normal must point against the ray from the camera to p0.
func Visible(tri mesh.Triangle, normal, camera math.Vec3) bool {
	return normal.Dot(tri.P[0].Sub(camera)) < 0
}

// Project culls and projects a triangle that is already in view space.
// It returns false when the triangle faces away from the camera.
func Project(tri mesh.Triangle, camera math.Vec3, proj math.Mat4, vp Viewport) (Projected, bool, error) {
	normal, err := FaceNormal(tri)
	if err != nil {
		return Projected{}, false, err
	}
	if !Visible(tri, normal, camera) {
		return Projected{}, false, nil
	}

	var out Projected
	for i, p := range tri.P {
		out.P[i] = vp.ToPixels(proj.TransformPoint(p))
	}
	out.Depth = (tri.P[0].Z + tri.P[1].Z + tri.P[2].Z) / 3
	return out, true, nil
}
