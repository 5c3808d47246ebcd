// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package bvh

import "errors"

const bvhPrefix = "bvh: "

func newBVHErr(reason string) error { return errors.New(bvhPrefix + reason) }

// BuildError is a fatal error raised while building the BVH from
// an attached scene. Per spec.md §7, it is always fatal and is
// raised at construction of the dispatch controller; render cannot
// proceed.
var (
	// ErrEmptyScene is returned when the scene has no attached
	// shapes.
	ErrEmptyScene = newBVHErr("empty attached scene")

	// ErrZeroTriangleMesh is returned when an attached or
	// instanced mesh has zero triangles.
	ErrZeroTriangleMesh = newBVHErr("mesh with zero triangles")

	// ErrCountMismatch is returned when the post-build node-count
	// invariants (spec.md §4.4's "correctness post-conditions")
	// do not hold. This should never happen for a correctly
	// implemented builder; it exists as a defensive, always-fatal
	// check.
	ErrCountMismatch = newBVHErr("node count invariant violated")
)
