// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"math"

	"github.com/gviegas/ornament/linear"
)

// Camera is a thin-lens pinhole camera. Its derived fields
// (origin, lowerLeftCorner, horizontal, vertical, u, v, w,
// lensRadius) are recomputed by derive whenever a setter changes
// one of the source parameters, and dirty is set so the dispatch
// controller knows to restart accumulation.
type Camera struct {
	lookFrom    linear.V3
	lookAt      linear.V3
	vup         linear.V3
	aspectRatio float32
	vfov        float32
	aperture    float32
	focusDist   float32

	origin          linear.V3
	lowerLeftCorner linear.V3
	horizontal      linear.V3
	vertical        linear.V3
	u, v, w         linear.V3
	lensRadius      float32

	dirty bool
}

// NewCamera creates a Camera from the given thin-lens parameters.
// vfov is the vertical field of view, in degrees.
func NewCamera(lookFrom, lookAt, vup linear.V3, aspectRatio, vfov, aperture, focusDist float32) *Camera {
	c := &Camera{
		lookFrom:    lookFrom,
		lookAt:      lookAt,
		vup:         vup,
		aspectRatio: aspectRatio,
		vfov:        vfov,
		aperture:    aperture,
		focusDist:   focusDist,
	}
	c.derive()
	c.dirty = true
	return c
}

// derive recomputes the camera's basis and viewport from its
// source parameters.
func (c *Camera) derive() {
	h := float32(math.Tan(float64(c.vfov) * math.Pi / 180 / 2))
	viewportH := 2 * h
	viewportW := c.aspectRatio * viewportH

	var wv linear.V3
	wv.Sub(&c.lookFrom, &c.lookAt)
	wv.Norm(&wv)
	var uv linear.V3
	uv.Cross(&c.vup, &wv)
	uv.Norm(&uv)
	var vv linear.V3
	vv.Cross(&wv, &uv)

	c.w, c.u, c.v = wv, uv, vv
	c.origin = c.lookFrom

	var horiz, vert linear.V3
	horiz.Scale(c.focusDist*viewportW, &c.u)
	vert.Scale(c.focusDist*viewportH, &c.v)
	c.horizontal = horiz
	c.vertical = vert

	var half1, half2, llc linear.V3
	half1.Scale(0.5, &horiz)
	half2.Scale(0.5, &vert)
	llc.Sub(&c.origin, &half1)
	llc.Sub(&llc, &half2)
	var focusW linear.V3
	focusW.Scale(c.focusDist, &c.w)
	llc.Sub(&llc, &focusW)
	c.lowerLeftCorner = llc

	c.lensRadius = c.aperture / 2
}

// Origin returns the camera's ray origin.
func (c *Camera) Origin() linear.V3 { return c.origin }

// LowerLeftCorner returns the viewport's lower-left corner.
func (c *Camera) LowerLeftCorner() linear.V3 { return c.lowerLeftCorner }

// Horizontal returns the viewport's horizontal basis vector.
func (c *Camera) Horizontal() linear.V3 { return c.horizontal }

// Vertical returns the viewport's vertical basis vector.
func (c *Camera) Vertical() linear.V3 { return c.vertical }

// U returns the camera's right basis vector.
func (c *Camera) U() linear.V3 { return c.u }

// V returns the camera's up basis vector.
func (c *Camera) V() linear.V3 { return c.v }

// W returns the camera's back basis vector (lookFrom−lookAt,
// normalized).
func (c *Camera) W() linear.V3 { return c.w }

// LensRadius returns half the aperture.
func (c *Camera) LensRadius() float32 { return c.lensRadius }

// Dirty reports whether the camera has changed since the dispatch
// controller last cleared the flag.
func (c *Camera) Dirty() bool { return c.dirty }

// ClearDirty clears the dirty flag.
// It is called by the dispatch controller once per iteration.
func (c *Camera) ClearDirty() { c.dirty = false }

// SetLookFrom updates the camera's eye position and re-derives.
func (c *Camera) SetLookFrom(lookFrom linear.V3) {
	c.lookFrom = lookFrom
	c.derive()
	c.dirty = true
}

// SetLookAt updates the camera's target and re-derives.
func (c *Camera) SetLookAt(lookAt linear.V3) {
	c.lookAt = lookAt
	c.derive()
	c.dirty = true
}

// SetVup updates the camera's up vector and re-derives.
func (c *Camera) SetVup(vup linear.V3) {
	c.vup = vup
	c.derive()
	c.dirty = true
}

// SetAspectRatio updates the camera's aspect ratio and re-derives.
func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.aspectRatio = aspectRatio
	c.derive()
	c.dirty = true
}

// SetVfov updates the camera's vertical field of view (degrees)
// and re-derives.
func (c *Camera) SetVfov(vfov float32) {
	c.vfov = vfov
	c.derive()
	c.dirty = true
}

// SetAperture updates the camera's aperture and re-derives.
func (c *Camera) SetAperture(aperture float32) {
	c.aperture = aperture
	c.derive()
	c.dirty = true
}

// SetFocusDist updates the camera's focus distance and re-derives.
func (c *Camera) SetFocusDist(focusDist float32) {
	c.focusDist = focusDist
	c.derive()
	c.dirty = true
}
