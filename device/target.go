// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package device

import "github.com/gviegas/ornament/driver"

// WorkgroupSize is W in spec.md §4.5/§4.6: the fixed per-pixel
// dispatch block size both kernels use.
const WorkgroupSize = 256

// Target owns the three per-pixel device arrays the kernels read and
// write every iteration: framebuffer, accumulation (both vec4 per
// pixel) and rngSeed (u32 per pixel, seeded 0..pixelCount-1).
type Target struct {
	gpu    driver.GPU
	width  int
	height int

	framebuffer  driver.Buffer
	accumulation driver.Buffer
	rngSeed      driver.Buffer
}

// NewTarget allocates the three per-pixel arrays for a width x height
// frame and seeds rngSeed with the sequence 0, 1, ..., pixelCount-1.
func NewTarget(gpu driver.GPU, width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, newDevErr("non-positive target dimensions")
	}
	n := width * height

	fb, err := gpu.NewBuffer(int64(n)*16, false, driver.UShaderWrite)
	if err != nil {
		return nil, err
	}
	acc, err := gpu.NewBuffer(int64(n)*16, false, driver.UShaderRead|driver.UShaderWrite)
	if err != nil {
		fb.Destroy()
		return nil, err
	}
	seed, err := gpu.NewBuffer(int64(n)*4, false, driver.UShaderRead|driver.UShaderWrite)
	if err != nil {
		fb.Destroy()
		acc.Destroy()
		return nil, err
	}

	t := &Target{gpu: gpu, width: width, height: height, framebuffer: fb, accumulation: acc, rngSeed: seed}
	if err := t.ResetRNG(); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// ResetRNG re-seeds rngSeed with 0, 1, ..., pixelCount-1. Called once
// at construction; the dispatch controller never needs to reseed it
// again (a dirty restart only needs currentIteration reset, per
// spec.md's dirty-bit protocol — the RNG sequence keeps advancing
// from wherever it left off).
func (t *Target) ResetRNG() error {
	n := t.width * t.height
	seeds := make([]uint32, n)
	for i := range seeds {
		seeds[i] = uint32(i)
	}
	return t.gpu.WriteBuffer(t.rngSeed, 0, bytesOf(seeds))
}

// PixelCount returns width*height.
func (t *Target) PixelCount() int { return t.width * t.height }

// Workgroups returns ceil(pixelCount / WorkgroupSize), the grid X
// dimension both kernels dispatch with.
func (t *Target) Workgroups() int {
	n := t.PixelCount()
	return (n + WorkgroupSize - 1) / WorkgroupSize
}

// Framebuffer returns the post-processed output array.
func (t *Target) Framebuffer() driver.Buffer { return t.framebuffer }

// Accumulation returns the running accumulation array.
func (t *Target) Accumulation() driver.Buffer { return t.accumulation }

// RNGSeed returns the per-pixel RNG state array.
func (t *Target) RNGSeed() driver.Buffer { return t.rngSeed }

// FramebufferSize returns the exact byte count of the framebuffer
// array (width*height*16), the value spec.md's getFrameBuffer
// null-probe query reports.
func (t *Target) FramebufferSize() int64 { return int64(t.PixelCount()) * 16 }

// Destroy releases the three device arrays.
func (t *Target) Destroy() {
	if t.framebuffer != nil {
		t.framebuffer.Destroy()
		t.framebuffer = nil
	}
	if t.accumulation != nil {
		t.accumulation.Destroy()
		t.accumulation = nil
	}
	if t.rngSeed != nil {
		t.rngSeed.Destroy()
		t.rngSeed = nil
	}
}
