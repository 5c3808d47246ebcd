// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package bvh builds the two-level bounding-volume hierarchy (a
// TLAS over attached shapes, a BLAS per unique mesh) that the
// device kernel traverses, flattening every entity referenced by
// an attached scene.Scene into the indexed arrays package
// kernel's layouts describe.
package bvh

import "github.com/gviegas/ornament/linear"

// NodeKind tags the 92-byte payload union of a Node.
type NodeKind uint32

// Node kinds, matching spec.md's tag values exactly (the device
// reads this as a plain u32).
const (
	Internal NodeKind = iota
	SphereNode
	MeshNode
	TriangleNode
)

// Node is the tagged BVH record shared by both the TLAS and every
// BLAS: a kind tag followed by the payload fields of each kind.
// Exactly one of the payload views below is meaningful, selected by
// Kind.
//
// This type is the host's working representation; it does not have
// the device layout. The 96-byte device record (a 4-byte kind tag
// followed by a 92-byte payload union) is kernel.BVHNode, and render
// converts each Node with kernel.EncodeNodes at upload time, before
// handing the result to device.NewLinearArray.
type Node struct {
	Kind NodeKind

	// Internal.
	LeftAABBMin  linear.V3
	LeftChild    uint32
	LeftAABBMax  linear.V3
	RightChild   uint32
	RightAABBMin linear.V3
	RightAABBMax linear.V3

	// Sphere / Mesh.
	MaterialID  uint32
	TransformID uint32
	BLASRootID  uint32 // Mesh only

	// Triangle.
	V0, V1, V2 linear.V3
	TriangleID uint32
}
