package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 homogeneous transform for row vectors.
// Element (row i, column j) lives at index i*4+j:
//
//	[m0  m1  m2  m3 ]
//	[m4  m5  m6  m7 ]
//	[m8  m9  m10 m11]
//	[m12 m13 m14 m15]
//
// A point is transformed as [x y z 1] * M, so the translation sits in the
// fourth row and the projective w term comes from the fourth column.
type Mat4 [16]float32

// At returns the element at row i, column j.
func (m Mat4) At(i, j int) float32 {
	return m[i*4+j]
}

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the vertical axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Projection returns a perspective projection that maps camera space
// (looking down +Z) to normalized device coordinates.
// fovDegrees is the vertical field of view and aspect is height/width.
// The fourth column carries z into w so TransformPoint performs the
// perspective divide.
func Projection(fovDegrees, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovDegrees*0.5/180*math32.Pi)
	q := far / (far - near)

	return Mat4{
		aspect * f, 0, 0, 0,
		0, f, 0, 0,
		0, 0, q, 1,
		0, 0, -near * q, 0,
	}
}

// Ortho returns an orthographic projection matrix.
// left, right, bottom, top define the view volume boundaries.
// near and far define the depth range.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Mul returns m * other. Transforming by the result equals transforming by
// m first and other second.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			result[i*4+j] =
				m[i*4+0]*other[0*4+j] +
					m[i*4+1]*other[1*4+j] +
					m[i*4+2]*other[2*4+j] +
					m[i*4+3]*other[3*4+j]
		}
	}
	return result
}

// TransformPoint multiplies [p 1] by m and divides by the resulting w.
// When w is exactly zero the divide is skipped and the raw values are
// returned.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := p.X*m[0] + p.Y*m[4] + p.Z*m[8] + m[12]
	y := p.X*m[1] + p.Y*m[5] + p.Z*m[9] + m[13]
	z := p.X*m[2] + p.Y*m[6] + p.Z*m[10] + m[14]
	w := p.X*m[3] + p.Y*m[7] + p.Z*m[11] + m[15]
	if w != 0 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
