// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"testing"

	"github.com/gviegas/ornament/linear"
)

// TestSphereMeshTopology is S6: sphereMesh(center, 1, mat)
// produces 60·29 + 2 = 1742 vertices and
// 60·2 + 28·60·2 = 3480 triangles.
func TestSphereMeshTopology(t *testing.T) {
	mat := NewLambertian(RGB(1, 1, 1))
	m, err := NewSphereMesh(linear.V3{}, 1, mat)
	if err != nil {
		t.Fatalf("NewSphereMesh: %v", err)
	}
	if n := len(m.Vertices()); n != 1742 {
		t.Fatalf("len(Vertices)\nhave %d\nwant 1742", n)
	}
	if n := m.TriangleCount(); n != 3480 {
		t.Fatalf("TriangleCount\nhave %d\nwant 3480", n)
	}
	for _, idx := range m.VertexIndices() {
		if int(idx) >= len(m.Vertices()) {
			t.Fatalf("VertexIndices out of range: %d", idx)
		}
	}
}

func TestMeshInvariants(t *testing.T) {
	mat := NewLambertian(RGB(1, 1, 1))
	verts := []linear.V3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	idx := []uint32{0, 1, 2, 1, 3, 2}
	norms := []linear.V3{{0, 0, 1}}
	normIdx := []uint32{0, 0, 0, 0, 0, 0}

	var identity linear.M4
	identity.I()

	m, err := NewMesh(verts, idx, norms, normIdx, nil, nil, identity, mat)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	if len(m.UVs()) != len(verts) {
		t.Fatalf("empty uvs must be filled per-vertex: len(UVs) = %d, want %d", len(m.UVs()), len(verts))
	}
	for _, uv := range m.UVs() {
		if uv != [2]float32{0.5, 0.5} {
			t.Fatalf("filled uv\nhave %v\nwant [0.5 0.5]", uv)
		}
	}
	for i, u := range m.UVIndices() {
		if u != idx[i] {
			t.Fatalf("uvIndices must reuse vertexIndices when uvs is empty")
		}
	}

	// Invariant 1: index slice lengths equal and divisible by 3.
	if len(m.VertexIndices()) != len(m.NormalIndices()) || len(m.VertexIndices())%3 != 0 {
		t.Fatal("invariant 1 violated")
	}

	// Invariant 3 / 7: world AABB equals the 8-corner transform of
	// the local AABB (here identity, so they're equal).
	local := m.LocalAABB()
	world := m.AABB()
	if local.Min != world.Min || local.Max != world.Max {
		t.Fatalf("world AABB under identity transform\nhave %+v\nwant %+v", world, local)
	}
}

func TestMeshRejectsBadIndices(t *testing.T) {
	mat := NewLambertian(RGB(1, 1, 1))
	verts := []linear.V3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	idx := []uint32{0, 1, 5} // out of range
	norms := []linear.V3{{0, 0, 1}}
	normIdx := []uint32{0, 0, 0}
	var identity linear.M4
	identity.I()
	if _, err := NewMesh(verts, idx, norms, normIdx, nil, nil, identity, mat); err == nil {
		t.Fatal("NewMesh: want error for out-of-range vertexIndices")
	}
}

func TestPlaneMesh(t *testing.T) {
	mat := NewLambertian(RGB(1, 1, 1))
	up := linear.V3{0, 1, 0}
	m, err := NewPlaneMesh(linear.V3{}, 2, 3, up, mat)
	if err != nil {
		t.Fatalf("NewPlaneMesh: %v", err)
	}
	if n := len(m.Vertices()); n != 4 {
		t.Fatalf("len(Vertices)\nhave %d\nwant 4", n)
	}
	if n := m.TriangleCount(); n != 2 {
		t.Fatalf("TriangleCount\nhave %d\nwant 2", n)
	}
}
