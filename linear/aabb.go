// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// AABB is an axis-aligned bounding box.
// The zero value is degenerate (Min == Max == origin); callers that
// build up an AABB incrementally should seed Min/Max from the first
// point rather than relying on the zero value.
type AABB struct {
	Min V3
	Max V3
}

// Extend grows a to contain p.
func (a *AABB) Extend(p *V3) {
	for i := range a.Min {
		if p[i] < a.Min[i] {
			a.Min[i] = p[i]
		}
		if p[i] > a.Max[i] {
			a.Max[i] = p[i]
		}
	}
}

// Union sets a to contain the union of b and c.
func (a *AABB) Union(b, c *AABB) {
	for i := range a.Min {
		if b.Min[i] < c.Min[i] {
			a.Min[i] = b.Min[i]
		} else {
			a.Min[i] = c.Min[i]
		}
		if b.Max[i] > c.Max[i] {
			a.Max[i] = b.Max[i]
		} else {
			a.Max[i] = c.Max[i]
		}
	}
}

// Center returns the midpoint of a.
func (a *AABB) Center() (c V3) {
	var sum V3
	sum.Add(&a.Min, &a.Max)
	c.Scale(0.5, &sum)
	return
}

// AxisMin returns the minimum extent of a along the given axis
// (0 = x, 1 = y, 2 = z).
func (a *AABB) AxisMin(axis int) float32 { return a.Min[axis] }

// Transform sets a to the AABB of the eight corners of b mapped
// through m.
func (a *AABB) Transform(m *M4, b *AABB) {
	var corners [8]V3
	for i := 0; i < 8; i++ {
		var p V3
		if i&1 == 0 {
			p[0] = b.Min[0]
		} else {
			p[0] = b.Max[0]
		}
		if i&2 == 0 {
			p[1] = b.Min[1]
		} else {
			p[1] = b.Max[1]
		}
		if i&4 == 0 {
			p[2] = b.Min[2]
		} else {
			p[2] = b.Max[2]
		}
		corners[i] = TransformPoint(m, &p)
	}
	*a = AABB{Min: corners[0], Max: corners[0]}
	for i := 1; i < 8; i++ {
		a.Extend(&corners[i])
	}
}
