// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import "errors"

const statePrefix = "state: "

func newStateErr(reason string) error { return errors.New(statePrefix + reason) }

// State holds the renderer-wide parameters that are not part of
// the camera: resolution, recursion depth, iteration count, gamma,
// the flipY flag, and the ray-cast epsilon. All setters other than
// NextIteration and ResetIterations set the dirty flag.
type State struct {
	width, height    int
	depth            int
	iterations       int
	gamma            float32
	flipY            bool
	rayCastEpsilon   float32
	currentIteration int

	dirty bool
}

// NewState creates a State with the given parameters.
func NewState(width, height, depth, iterations int, gamma float32, flipY bool, rayCastEpsilon float32) (*State, error) {
	if width <= 0 || height <= 0 {
		return nil, newStateErr("non-positive width or height")
	}
	if depth < 0 {
		return nil, newStateErr("negative depth")
	}
	if iterations < 0 {
		return nil, newStateErr("negative iterations")
	}
	if gamma <= 0 {
		return nil, newStateErr("non-positive gamma")
	}
	return &State{
		width:          width,
		height:         height,
		depth:          depth,
		iterations:     iterations,
		gamma:          gamma,
		flipY:          flipY,
		rayCastEpsilon: rayCastEpsilon,
		dirty:          true,
	}, nil
}

// Resolution returns the framebuffer's width and height, in pixels.
func (s *State) Resolution() (width, height int) { return s.width, s.height }

// Depth returns the maximum path depth.
func (s *State) Depth() int { return s.depth }

// Iterations returns the number of path-tracing launches a single
// Render performs.
func (s *State) Iterations() int { return s.iterations }

// Gamma returns the post-processing gamma.
func (s *State) Gamma() float32 { return s.gamma }

// InvertedGamma returns 1/Gamma(), as consumed by the constants
// block.
func (s *State) InvertedGamma() float32 { return 1 / s.gamma }

// FlipY reports whether post-processing writes the vertically
// flipped layout.
func (s *State) FlipY() bool { return s.flipY }

// RayCastEpsilon returns the minimum hit distance used to avoid
// self-intersection.
func (s *State) RayCastEpsilon() float32 { return s.rayCastEpsilon }

// CurrentIteration returns the 1-based index of the iteration in
// progress (0 before the first call to NextIteration).
func (s *State) CurrentIteration() int { return s.currentIteration }

// Dirty reports whether the state has changed since the dispatch
// controller last cleared the flag.
func (s *State) Dirty() bool { return s.dirty }

// ClearDirty clears the dirty flag.
// It is called by the dispatch controller once per iteration.
func (s *State) ClearDirty() { s.dirty = false }

// ResetIterations sets CurrentIteration back to 0 without setting
// dirty; it is invoked by the dispatch controller itself when the
// dirty-bit protocol requires an accumulation restart, not by user
// code.
func (s *State) ResetIterations() { s.currentIteration = 0 }

// NextIteration advances CurrentIteration by one. It does not set
// dirty, matching spec.md's dirty-bit protocol (only user mutation
// restarts accumulation, not the controller's own bookkeeping).
func (s *State) NextIteration() { s.currentIteration++ }

// SetResolution updates the framebuffer resolution.
func (s *State) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return newStateErr("non-positive width or height")
	}
	s.width, s.height = width, height
	s.dirty = true
	return nil
}

// SetDepth updates the maximum path depth.
func (s *State) SetDepth(depth int) error {
	if depth < 0 {
		return newStateErr("negative depth")
	}
	s.depth = depth
	s.dirty = true
	return nil
}

// SetIterations updates the number of path-tracing launches a
// single Render performs.
func (s *State) SetIterations(iterations int) error {
	if iterations < 0 {
		return newStateErr("negative iterations")
	}
	s.iterations = iterations
	s.dirty = true
	return nil
}

// SetGamma updates the post-processing gamma.
func (s *State) SetGamma(gamma float32) error {
	if gamma <= 0 {
		return newStateErr("non-positive gamma")
	}
	s.gamma = gamma
	s.dirty = true
	return nil
}

// SetFlipY updates the vertical-flip flag.
func (s *State) SetFlipY(flipY bool) {
	s.flipY = flipY
	s.dirty = true
}

// SetRayCastEpsilon updates the minimum hit distance.
func (s *State) SetRayCastEpsilon(rayCastEpsilon float32) {
	s.rayCastEpsilon = rayCastEpsilon
	s.dirty = true
}
