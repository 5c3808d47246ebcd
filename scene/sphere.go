// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"

	"github.com/gviegas/ornament/linear"
)

const sphPrefix = "sphere: "

func newSphErr(reason string) error { return errors.New(sphPrefix + reason) }

// Sphere is a unit sphere placed in world space by an affine
// transform (scale = radius, translation = center).
type Sphere struct {
	material *Material
	transform linear.M4
	aabb      linear.AABB
}

// NewSphere creates a sphere of the given center and radius.
func NewSphere(center linear.V3, radius float32, material *Material) (*Sphere, error) {
	if radius <= 0 {
		return nil, newSphErr("non-positive radius")
	}
	if material == nil {
		return nil, newSphErr("nil material")
	}
	var scale, xlate linear.M4
	r := linear.V3{radius, radius, radius}
	scale.Scaling(&r)
	xlate.Translation(&center)
	var m linear.M4
	m.Mul(&xlate, &scale)
	rv := linear.V3{radius, radius, radius}
	return &Sphere{
		material:  material,
		transform: m,
		aabb: linear.AABB{
			Min: sub3(center, rv),
			Max: add3(center, rv),
		},
	}, nil
}

func add3(a, b linear.V3) (r linear.V3) {
	r.Add(&a, &b)
	return
}

func sub3(a, b linear.V3) (r linear.V3) {
	r.Sub(&a, &b)
	return
}

// Material returns the sphere's material.
func (s *Sphere) Material() *Material { return s.material }

// Transform returns the sphere's world transform
// (T(center)·S(radius)).
func (s *Sphere) Transform() linear.M4 { return s.transform }

// AABB returns the sphere's world-space bounding box.
func (s *Sphere) AABB() linear.AABB { return s.aabb }
