// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import "math"

// Translation sets m to a translation matrix by t.
func (m *M4) Translation(t *V3) {
	m.I()
	m[3][0] = t[0]
	m[3][1] = t[1]
	m[3][2] = t[2]
}

// Scaling sets m to a scaling matrix by s.
func (m *M4) Scaling(s *V3) {
	*m = M4{}
	m[0][0] = s[0]
	m[1][1] = s[1]
	m[2][2] = s[2]
	m[3][3] = 1
}

// Rotation sets m to the 4x4 extension of the 3x3 rotation r.
func (m *M4) Rotation(r *M3) {
	*m = M4{}
	for i := range r {
		for j := range r {
			m[i][j] = r[i][j]
		}
	}
	m[3][3] = 1
}

// TransformPoint returns m ⋅ [p, 1], dropping the homogeneous
// component.
func TransformPoint(m *M4, p *V3) (r V3) {
	var h, v4 V4
	v4 = V4{p[0], p[1], p[2], 1}
	h.Mul(m, &v4)
	r = V3{h[0], h[1], h[2]}
	return
}

// TransformVector returns m ⋅ [v, 0], dropping the homogeneous
// component.
func TransformVector(m *M4, v *V3) (r V3) {
	var h, v4 V4
	v4 = V4{v[0], v[1], v[2], 0}
	h.Mul(m, &v4)
	r = V3{h[0], h[1], h[2]}
	return
}

// TransformNormal returns minv ⋅ [n, 0] using minv transposed, i.e.,
// the matrix that should be passed is the inverse of the model
// transform (not the inverse-transpose) — this function performs
// the transpose itself.
func TransformNormal(minv *M4, n *V3) (r V3) {
	var t M4
	t.Transpose(minv)
	return TransformVector(&t, n)
}

const epsRotation = 1e-6

// RotationBetweenVectors returns the rotation matrix that aligns
// unit(a) with unit(b).
// If a and b point in the same direction, it returns the identity.
// If they are antiparallel, it rotates 180° about an axis
// orthogonal to a (preferring a×X, falling back to a×Y when a is
// parallel to X).
func RotationBetweenVectors(a, b *V3) (m M3) {
	var ua, ub V3
	ua.Norm(a)
	ub.Norm(b)
	d := ua.Dot(&ub)
	switch {
	case d >= 1-epsRotation:
		m.I()
		return
	case d <= -1+epsRotation:
		x := V3{1, 0, 0}
		var axis V3
		axis.Cross(&ua, &x)
		if axis.Len() < epsRotation {
			y := V3{0, 1, 0}
			axis.Cross(&ua, &y)
		}
		axis.Norm(&axis)
		rotationAboutAxis(&m, &axis, math.Pi)
		return
	}
	var axis V3
	axis.Cross(&ua, &ub)
	s := axis.Len()
	axis.Norm(&axis)
	rotationAboutAxis(&m, &axis, float32(math.Atan2(float64(s), float64(d))))
	return
}

// rotationAboutAxis sets m to the Rodrigues rotation of angle
// radians about the unit axis.
func rotationAboutAxis(m *M3, axis *V3, angle float32) {
	s := float32(math.Sin(float64(angle)))
	c := float32(math.Cos(float64(angle)))
	t := 1 - c
	x, y, z := axis[0], axis[1], axis[2]
	m[0] = V3{t*x*x + c, t*x*y + s*z, t*x*z - s*y}
	m[1] = V3{t*x*y - s*z, t*y*y + c, t*y*z + s*x}
	m[2] = V3{t*x*z + s*y, t*y*z - s*x, t*z*z + c}
}

// SphereTexCoord returns the (u, v) texture coordinate of a unit
// sphere normal, per the longitude/latitude parameterization.
func SphereTexCoord(n *V3) (u, v float32) {
	u = (float32(math.Atan2(float64(-n[2]), float64(n[0]))) + math.Pi) / (2 * math.Pi)
	v = float32(math.Acos(float64(-n[1]))) / math.Pi
	return
}
