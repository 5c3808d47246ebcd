// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package bvh

import (
	"testing"

	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

func newTestScene(t *testing.T) *scene.Scene {
	t.Helper()
	cam := scene.NewCamera(linear.V3{0, 0, 3}, linear.V3{}, linear.V3{0, 1, 0}, 1, 60, 0, 3)
	st, err := scene.NewState(4, 4, 1, 1, 1, false, 1e-4)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	sc, err := scene.NewScene(cam, st)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return sc
}

// TestBuildEmptyScene is S2: an empty attached scene is a fatal
// BuildError.
func TestBuildEmptyScene(t *testing.T) {
	sc := newTestScene(t)
	if _, err := Build(sc); err != ErrEmptyScene {
		t.Fatalf("Build on empty scene\nhave %v\nwant %v", err, ErrEmptyScene)
	}
}

// TestBuildTwoSpheres is invariant 1: |tlasNodes| = 2S-1 for a
// scene of only spheres (no BLAS involved).
func TestBuildTwoSpheres(t *testing.T) {
	sc := newTestScene(t)
	mat := sc.Lambertian(scene.RGB(1, 0, 0))
	s1, err := sc.Sphere(linear.V3{-2, 0, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	s2, err := sc.Sphere(linear.V3{2, 0, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	if err := sc.Attach(s1); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := sc.Attach(s2); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	b, err := BuildSeeded(sc, 1)
	if err != nil {
		t.Fatalf("BuildSeeded: %v", err)
	}
	if n := len(b.TLASNodes); n != 2*2-1 {
		t.Fatalf("len(TLASNodes)\nhave %d\nwant %d", n, 2*2-1)
	}
	if n := b.MaterialSlotCount(); n != 1 {
		t.Fatalf("MaterialSlotCount\nhave %d\nwant 1", n)
	}
	if n := len(b.Materials); n != 1 {
		t.Fatalf("len(Materials)\nhave %d\nwant 1", n)
	}
}

// TestBuildScenario4 is S4: 2 spheres + 1 mesh of 12 triangles,
// instanced 3 times (1 direct mesh attachment + 2 instances), gives
// |tlas| = 2*5-1 = 9 and |blas| = 2*12-1 = 23 (the mesh is built
// once and shared by every reference).
func TestBuildScenario4(t *testing.T) {
	sc := newTestScene(t)
	mat := sc.Lambertian(scene.RGB(1, 1, 1))

	s1, err := sc.Sphere(linear.V3{-3, 0, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	s2, err := sc.Sphere(linear.V3{3, 0, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}

	// A mesh with 12 triangles: a unit cube (6 quads * 2 tris).
	verts := []linear.V3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	idx := []uint32{
		0, 1, 2, 0, 2, 3, // back
		4, 6, 5, 4, 7, 6, // front
		0, 4, 5, 0, 5, 1, // bottom
		3, 2, 6, 3, 6, 7, // top
		0, 3, 7, 0, 7, 4, // left
		1, 5, 6, 1, 6, 2, // right
	}
	norms := []linear.V3{{0, 0, -1}}
	normIdx := make([]uint32, len(idx))

	var identity linear.M4
	identity.I()

	mesh, err := sc.Mesh(verts, idx, norms, normIdx, nil, nil, identity, mat)
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	if n := mesh.TriangleCount(); n != 12 {
		t.Fatalf("TriangleCount\nhave %d\nwant 12", n)
	}

	inst1, err := sc.MeshInstance(mesh, identity, mat)
	if err != nil {
		t.Fatalf("MeshInstance: %v", err)
	}
	inst2, err := sc.MeshInstance(mesh, identity, mat)
	if err != nil {
		t.Fatalf("MeshInstance: %v", err)
	}

	for _, shape := range []any{s1, s2, mesh, inst1, inst2} {
		if err := sc.Attach(shape); err != nil {
			t.Fatalf("Attach: %v", err)
		}
	}

	b, err := BuildSeeded(sc, 7)
	if err != nil {
		t.Fatalf("BuildSeeded: %v", err)
	}
	if n := len(b.TLASNodes); n != 2*5-1 {
		t.Fatalf("len(TLASNodes)\nhave %d\nwant %d", n, 2*5-1)
	}
	if n := len(b.BLASNodes); n != 2*12-1 {
		t.Fatalf("len(BLASNodes)\nhave %d\nwant %d", n, 2*12-1)
	}
}

// TestZeroTriangleMeshRejectedAtConstruction checks that scene.Mesh
// rejects a mesh with no triangles, so one cannot reach the device.
func TestZeroTriangleMeshRejectedAtConstruction(t *testing.T) {
	sc := newTestScene(t)
	mat := sc.Lambertian(scene.RGB(1, 1, 1))
	var identity linear.M4
	identity.I()
	// NewMesh itself rejects empty index slices (invariant 1 requires
	// indices divisible by 3 and non-empty triangle data), so a
	// zero-triangle mesh cannot be constructed through the scene
	// package; ErrZeroTriangleMesh exists purely as build.go's own
	// defensive check on m.TriangleCount().
	if _, err := sc.Mesh(nil, nil, nil, nil, nil, nil, identity, mat); err == nil {
		t.Fatal("Mesh with no vertices/indices: want error")
	}
}

// TestMaterialTextureDeduplication is invariants 4 and 5: a material
// and its texture are registered exactly once even when referenced
// by multiple attached shapes.
func TestMaterialTextureDeduplication(t *testing.T) {
	sc := newTestScene(t)
	pixels := make([]byte, 4*2*2)
	tex, err := sc.Texture(pixels, 2, 2, 4, 1, false, 2.2)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	mat := sc.Lambertian(scene.FromTexture(tex))

	s1, err := sc.Sphere(linear.V3{-2, 0, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	s2, err := sc.Sphere(linear.V3{2, 0, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	s3, err := sc.Sphere(linear.V3{0, 2, 0}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	for _, s := range []any{s1, s2, s3} {
		if err := sc.Attach(s); err != nil {
			t.Fatalf("Attach: %v", err)
		}
	}

	b, err := BuildSeeded(sc, 42)
	if err != nil {
		t.Fatalf("BuildSeeded: %v", err)
	}
	if n := b.MaterialSlotCount(); n != 1 {
		t.Fatalf("MaterialSlotCount\nhave %d\nwant 1", n)
	}
	if n := b.TextureSlotCount(); n != 1 {
		t.Fatalf("TextureSlotCount\nhave %d\nwant 1", n)
	}
	if n := len(b.Textures); n != 1 {
		t.Fatalf("len(Textures)\nhave %d\nwant 1", n)
	}
}

// TestTransformPairing checks pushTransform's [inverse, forward]
// pairing and transformId arithmetic directly.
func TestTransformPairing(t *testing.T) {
	b := &BVH{}
	var m1, m2 linear.M4
	m1.I()
	m2.Translation(&linear.V3{1, 2, 3})

	id1 := b.pushTransform(&m1)
	id2 := b.pushTransform(&m2)
	if id1 != 0 {
		t.Fatalf("first transformId\nhave %d\nwant 0", id1)
	}
	if id2 != 1 {
		t.Fatalf("second transformId\nhave %d\nwant 1", id2)
	}
	if n := len(b.Transforms); n != 4 {
		t.Fatalf("len(Transforms)\nhave %d\nwant 4", n)
	}
}
