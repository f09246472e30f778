// Package pipeline turns mesh triangles into projected screen triangles:
// rotation, translation into view, backface culling, projection and the
// viewport transform.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/Faultbox/melencholia/pkg/math"
	"github.com/Faultbox/melencholia/pkg/mesh"
)

// Axis selects one of the per-frame rotations.
type Axis int

const (
	AxisY Axis = iota // vertical axis, half rate
	AxisX             // half rate
	AxisZ             // full rate
)

// String returns the lowercase axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis parses "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown rotation axis %q", s)
}

// BuildRotation returns the rotation for accumulated angle theta. The X and
// Y rotations turn by theta/2 and Z by theta. With several axes the
// rotations apply in the order given. No axes means AxisY.
func BuildRotation(theta float32, axes ...Axis) math.Mat4 {
	if len(axes) == 0 {
		return math.RotateY(theta * 0.5)
	}

	m := math.Identity()
	for _, a := range axes {
		switch a {
		case AxisX:
			m = m.Mul(math.RotateX(theta * 0.5))
		case AxisY:
			m = m.Mul(math.RotateY(theta * 0.5))
		case AxisZ:
			m = m.Mul(math.RotateZ(theta))
		}
	}
	return m
}

// ApplyToTriangle transforms every vertex by each matrix in turn.
func ApplyToTriangle(tri mesh.Triangle, transforms ...math.Mat4) mesh.Triangle {
	for _, m := range transforms {
		for i := range tri.P {
			tri.P[i] = m.TransformPoint(tri.P[i])
		}
	}
	return tri
}

// TranslateTriangle moves every vertex by offset.
func TranslateTriangle(tri mesh.Triangle, offset math.Vec3) mesh.Triangle {
	for i := range tri.P {
		tri.P[i] = tri.P[i].Add(offset)
	}
	return tri
}
