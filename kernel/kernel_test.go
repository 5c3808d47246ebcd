// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package kernel

import (
	"testing"
	"unsafe"

	"github.com/gviegas/ornament/bvh"
	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

func TestWireSizes(t *testing.T) {
	if n := unsafe.Sizeof(BVHNode{}); n != 96 {
		t.Fatalf("sizeof(BVHNode)\nhave %d\nwant 96", n)
	}
	if n := unsafe.Sizeof(Material{}); n != 32 {
		t.Fatalf("sizeof(Material)\nhave %d\nwant 32", n)
	}
	if n := unsafe.Sizeof(CameraBlock{}); n != 112 {
		t.Fatalf("sizeof(CameraBlock)\nhave %d\nwant 112", n)
	}
	if n := unsafe.Sizeof(Constants{}); n != 144 {
		t.Fatalf("sizeof(Constants)\nhave %d\nwant 144", n)
	}
}

func TestEncodeNodeInternal(t *testing.T) {
	n := bvh.Node{
		Kind:         bvh.Internal,
		LeftAABBMin:  linear.V3{-1, -2, -3},
		LeftChild:    1,
		LeftAABBMax:  linear.V3{1, 2, 3},
		RightChild:   2,
		RightAABBMin: linear.V3{-4, -5, -6},
		RightAABBMax: linear.V3{4, 5, 6},
	}
	w := EncodeNode(&n)
	if w.Kind != uint32(bvh.Internal) {
		t.Fatalf("Kind\nhave %d\nwant %d", w.Kind, bvh.Internal)
	}
	if w.Slot1 != [4]uint32{f32bits(-1), f32bits(-2), f32bits(-3), 1} {
		t.Fatalf("Slot1 (leftAabbMin+leftChild) mismatch: %v", w.Slot1)
	}
	if w.Slot2 != [4]uint32{f32bits(1), f32bits(2), f32bits(3), 2} {
		t.Fatalf("Slot2 (leftAabbMax+rightChild) mismatch: %v", w.Slot2)
	}
	if w.Slot3 != [4]uint32{f32bits(-4), f32bits(-5), f32bits(-6), 0} {
		t.Fatalf("Slot3 (rightAabbMin) mismatch: %v", w.Slot3)
	}
	if w.Slot4 != [4]uint32{f32bits(4), f32bits(5), f32bits(6), 0} {
		t.Fatalf("Slot4 (rightAabbMax) mismatch: %v", w.Slot4)
	}
}

func TestEncodeNodeSphere(t *testing.T) {
	n := bvh.Node{Kind: bvh.SphereNode, MaterialID: 7, TransformID: 9}
	w := EncodeNode(&n)
	if w.Kind != uint32(bvh.SphereNode) {
		t.Fatalf("Kind\nhave %d\nwant %d", w.Kind, bvh.SphereNode)
	}
	if w.Slot1 != [4]uint32{7, 9, 0, 0} {
		t.Fatalf("Slot1 (materialId+transformId)\nhave %v\nwant {7 9 0 0}", w.Slot1)
	}
}

func TestEncodeNodeMesh(t *testing.T) {
	n := bvh.Node{Kind: bvh.MeshNode, MaterialID: 1, TransformID: 2, BLASRootID: 3}
	w := EncodeNode(&n)
	if w.Slot1 != [4]uint32{1, 2, 3, 0} {
		t.Fatalf("Slot1 (materialId+transformId+blasRootId)\nhave %v\nwant {1 2 3 0}", w.Slot1)
	}
}

func TestEncodeNodeTriangle(t *testing.T) {
	n := bvh.Node{
		Kind:       bvh.TriangleNode,
		V0:         linear.V3{1, 2, 3},
		V1:         linear.V3{4, 5, 6},
		V2:         linear.V3{7, 8, 9},
		TriangleID: 42,
	}
	w := EncodeNode(&n)
	if w.Slot1 != [4]uint32{f32bits(1), f32bits(2), f32bits(3), 42} {
		t.Fatalf("Slot1 (v0+triangleId)\nhave %v", w.Slot1)
	}
	if w.Slot2 != [4]uint32{f32bits(4), f32bits(5), f32bits(6), 0} {
		t.Fatalf("Slot2 (v1)\nhave %v", w.Slot2)
	}
	if w.Slot3 != [4]uint32{f32bits(7), f32bits(8), f32bits(9), 0} {
		t.Fatalf("Slot3 (v2)\nhave %v", w.Slot3)
	}
}

func TestEncodeNodesPreservesOrder(t *testing.T) {
	nodes := []bvh.Node{
		{Kind: bvh.SphereNode, MaterialID: 1},
		{Kind: bvh.MeshNode, MaterialID: 2},
	}
	out := EncodeNodes(nodes)
	if len(out) != 2 {
		t.Fatalf("len(out)\nhave %d\nwant 2", len(out))
	}
	if out[0].Kind != uint32(bvh.SphereNode) || out[1].Kind != uint32(bvh.MeshNode) {
		t.Fatalf("order not preserved: %v", out)
	}
}

func TestEncodeMaterialLiteral(t *testing.T) {
	m := bvh.FlatMaterial{
		Kind:   scene.Lambertian,
		Albedo: bvh.ColorRef{IsTexture: false, Literal: [3]float32{0.1, 0.2, 0.3}},
		Fuzz:   0,
		IOR:    0,
	}
	w := EncodeMaterial(&m)
	if w.IsTexture != 0 {
		t.Fatalf("IsTexture\nhave %d\nwant 0", w.IsTexture)
	}
	if w.Albedo != [3]float32{0.1, 0.2, 0.3} {
		t.Fatalf("Albedo\nhave %v\nwant {0.1 0.2 0.3}", w.Albedo)
	}
}

func TestEncodeMaterialTextured(t *testing.T) {
	m := bvh.FlatMaterial{
		Kind:   scene.Lambertian,
		Albedo: bvh.ColorRef{IsTexture: true, TextureID: 5},
	}
	w := EncodeMaterial(&m)
	if w.IsTexture != 1 {
		t.Fatalf("IsTexture\nhave %d\nwant 1", w.IsTexture)
	}
	if w.TextureID != 5 {
		t.Fatalf("TextureID\nhave %d\nwant 5", w.TextureID)
	}
	if w.Albedo != ([3]float32{}) {
		t.Fatalf("Albedo must be zero when textured, have %v", w.Albedo)
	}
}

func TestEncodeConstants(t *testing.T) {
	cam := scene.NewCamera(linear.V3{0, 0, 3}, linear.V3{}, linear.V3{0, 1, 0}, 1, 60, 0, 3)
	st, err := scene.NewState(4, 4, 5, 1, 1, true, 1e-4)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	c := EncodeConstants(cam, st, 3)
	if c.Camera.Origin != [3]float32(cam.Origin()) {
		t.Fatalf("Camera.Origin\nhave %v\nwant %v", c.Camera.Origin, cam.Origin())
	}
	if c.Camera.LensRadius != cam.LensRadius() {
		t.Fatalf("Camera.LensRadius\nhave %v\nwant %v", c.Camera.LensRadius, cam.LensRadius())
	}
	if c.Depth != 5 {
		t.Fatalf("Depth\nhave %d\nwant 5", c.Depth)
	}
	if c.Width != 4 || c.Height != 4 {
		t.Fatalf("Resolution\nhave (%d %d)\nwant (4 4)", c.Width, c.Height)
	}
	if c.FlipY != 1 {
		t.Fatalf("FlipY\nhave %d\nwant 1", c.FlipY)
	}
	if c.TexturesCount != 3 {
		t.Fatalf("TexturesCount\nhave %d\nwant 3", c.TexturesCount)
	}
	if c.RayCastEpsilon != 1e-4 {
		t.Fatalf("RayCastEpsilon\nhave %v\nwant 1e-4", c.RayCastEpsilon)
	}
}
