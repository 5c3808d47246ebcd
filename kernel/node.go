// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package kernel holds only layout: Go types whose memory layout
// matches, bit-for-bit, what the device kernel module
// (ornament_kernels.co, §4.7) expects to read. No ray-tracing math
// runs here; this package is the shared vocabulary between bvh and
// device (the writers) and the kernel module (the reader). The WGSL
// source under shaders/ documents the same layout from the reader's
// side, byte offset for byte offset.
package kernel

import (
	"math"

	"github.com/gviegas/ornament/bvh"
)

// BVHNode is the 96-byte wire form of bvh.Node: six 16-byte slots,
// the first holding the kind tag, the remaining five reinterpreted
// per bvh.NodeKind. Go has no union type, so the payload fields are
// named after the Internal variant (the one using the most slots);
// Encode packs the other variants into the same byte ranges.
//
//	slot 0 (bytes  0:16): kind, _pad
//	slot 1 (bytes 16:32): leftAabbMin+leftChild   | v0+triangleId        | materialId+transformId(+blasRootId)
//	slot 2 (bytes 32:48): leftAabbMax+rightChild  | v1+_pad
//	slot 3 (bytes 48:64): rightAabbMin+_pad       | v2+_pad
//	slot 4 (bytes 64:80): rightAabbMax+_pad
//	slot 5 (bytes 80:96): reserved
type BVHNode struct {
	Kind uint32
	_    [3]uint32

	Slot1 [4]uint32
	Slot2 [4]uint32
	Slot3 [4]uint32
	Slot4 [4]uint32
	_     [4]uint32
}

func f32bits(f float32) uint32 { return math.Float32bits(f) }

// EncodeNode packs n into its device wire form.
func EncodeNode(n *bvh.Node) BVHNode {
	var w BVHNode
	w.Kind = uint32(n.Kind)
	switch n.Kind {
	case bvh.Internal:
		w.Slot1 = [4]uint32{f32bits(n.LeftAABBMin[0]), f32bits(n.LeftAABBMin[1]), f32bits(n.LeftAABBMin[2]), n.LeftChild}
		w.Slot2 = [4]uint32{f32bits(n.LeftAABBMax[0]), f32bits(n.LeftAABBMax[1]), f32bits(n.LeftAABBMax[2]), n.RightChild}
		w.Slot3 = [4]uint32{f32bits(n.RightAABBMin[0]), f32bits(n.RightAABBMin[1]), f32bits(n.RightAABBMin[2]), 0}
		w.Slot4 = [4]uint32{f32bits(n.RightAABBMax[0]), f32bits(n.RightAABBMax[1]), f32bits(n.RightAABBMax[2]), 0}
	case bvh.SphereNode:
		w.Slot1 = [4]uint32{n.MaterialID, n.TransformID, 0, 0}
	case bvh.MeshNode:
		w.Slot1 = [4]uint32{n.MaterialID, n.TransformID, n.BLASRootID, 0}
	case bvh.TriangleNode:
		w.Slot1 = [4]uint32{f32bits(n.V0[0]), f32bits(n.V0[1]), f32bits(n.V0[2]), n.TriangleID}
		w.Slot2 = [4]uint32{f32bits(n.V1[0]), f32bits(n.V1[1]), f32bits(n.V1[2]), 0}
		w.Slot3 = [4]uint32{f32bits(n.V2[0]), f32bits(n.V2[1]), f32bits(n.V2[2]), 0}
	}
	return w
}

// EncodeNodes packs an entire node array (a TLAS or one mesh's BLAS).
func EncodeNodes(nodes []bvh.Node) []BVHNode {
	out := make([]BVHNode, len(nodes))
	for i := range nodes {
		out[i] = EncodeNode(&nodes[i])
	}
	return out
}
