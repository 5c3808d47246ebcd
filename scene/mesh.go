// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"
	"math"

	"github.com/gviegas/ornament/linear"
)

const meshPrefix = "mesh: "

func newMeshErr(reason string) error { return errors.New(meshPrefix + reason) }

// Mesh owns a triangle soup plus the material and world transform
// every triangle in it shares. It acquires a stable bvhId (the
// index of its BLAS root in the flat bvh.Node array) on first use
// during BVH build; until then id is -1.
type Mesh struct {
	vertices      []linear.V3
	vertexIndices []uint32
	normals       []linear.V3
	normalIndices []uint32
	uvs           [][2]float32
	uvIndices     []uint32

	transform linear.M4
	material  *Material

	localAABB linear.AABB
	worldAABB linear.AABB

	id int
}

// NewMesh creates a Mesh from the given vertex/normal/UV soup.
// vertexIndices, normalIndices and uvIndices must each have equal,
// non-zero length divisible by 3 (invariant 1), and must each index
// within their respective attribute array (invariant 2). If uvs is
// empty, it is filled with the constant (0.5, 0.5) and uvIndices is
// set to vertexIndices, per spec.
func NewMesh(
	vertices []linear.V3, vertexIndices []uint32,
	normals []linear.V3, normalIndices []uint32,
	uvs [][2]float32, uvIndices []uint32,
	transform linear.M4, material *Material,
) (*Mesh, error) {
	if material == nil {
		return nil, newMeshErr("nil material")
	}
	n := len(vertexIndices)
	if n == 0 || n%3 != 0 {
		return nil, newMeshErr("vertexIndices length is zero or not divisible by 3")
	}
	if len(normalIndices) != n {
		return nil, newMeshErr("normalIndices length does not match vertexIndices")
	}
	if len(uvs) == 0 {
		uvs = make([][2]float32, len(vertices))
		for i := range uvs {
			uvs[i] = [2]float32{0.5, 0.5}
		}
		uvIndices = append([]uint32(nil), vertexIndices...)
	} else if len(uvIndices) != n {
		return nil, newMeshErr("uvIndices length does not match vertexIndices")
	}
	for _, idx := range vertexIndices {
		if int(idx) >= len(vertices) {
			return nil, newMeshErr("vertexIndices out of range")
		}
	}
	for _, idx := range normalIndices {
		if int(idx) >= len(normals) {
			return nil, newMeshErr("normalIndices out of range")
		}
	}
	for _, idx := range uvIndices {
		if int(idx) >= len(uvs) {
			return nil, newMeshErr("uvIndices out of range")
		}
	}

	local := localAABBOf(vertices, vertexIndices)
	var world linear.AABB
	world.Transform(&transform, &local)

	return &Mesh{
		vertices:      vertices,
		vertexIndices: vertexIndices,
		normals:       normals,
		normalIndices: normalIndices,
		uvs:           uvs,
		uvIndices:     uvIndices,
		transform:     transform,
		material:      material,
		localAABB:     local,
		worldAABB:     world,
		id:            -1,
	}, nil
}

// localAABBOf scans every referenced vertex (not the whole array,
// which may contain unused entries) to compute the local AABB.
func localAABBOf(vertices []linear.V3, indices []uint32) linear.AABB {
	if len(indices) == 0 {
		return linear.AABB{}
	}
	box := linear.AABB{Min: vertices[indices[0]], Max: vertices[indices[0]]}
	for _, idx := range indices[1:] {
		p := vertices[idx]
		box.Extend(&p)
	}
	return box
}

// Vertices returns the mesh's vertex array.
func (m *Mesh) Vertices() []linear.V3 { return m.vertices }

// VertexIndices returns the mesh's triangle vertex indices.
func (m *Mesh) VertexIndices() []uint32 { return m.vertexIndices }

// Normals returns the mesh's normal array.
func (m *Mesh) Normals() []linear.V3 { return m.normals }

// NormalIndices returns the mesh's triangle normal indices.
func (m *Mesh) NormalIndices() []uint32 { return m.normalIndices }

// UVs returns the mesh's texture coordinate array.
func (m *Mesh) UVs() [][2]float32 { return m.uvs }

// UVIndices returns the mesh's triangle UV indices.
func (m *Mesh) UVIndices() []uint32 { return m.uvIndices }

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.vertexIndices) / 3 }

// Transform returns the mesh's world transform.
func (m *Mesh) Transform() linear.M4 { return m.transform }

// Material returns the mesh's material.
func (m *Mesh) Material() *Material { return m.material }

// LocalAABB returns the mesh's untransformed bounding box.
func (m *Mesh) LocalAABB() linear.AABB { return m.localAABB }

// AABB returns the mesh's world-space bounding box.
func (m *Mesh) AABB() linear.AABB { return m.worldAABB }

// ID returns the mesh's stable bvhId, or -1 if it has not yet been
// used as a BVH leaf.
func (m *Mesh) ID() int { return m.id }

// SetID assigns the mesh's stable bvhId.
// It is called exactly once, by the BVH builder.
func (m *Mesh) SetID(id int) { m.id = id }

const (
	sphereMeshLongSegs = 60
	sphereMeshLatSegs  = 30
)

// NewSphereMesh generates a UV-sphere mesh of 60 longitude segments
// and 30 latitude segments (one top pole, 29 intermediate rings of
// 60 vertices, one bottom pole), matching invariant S6:
// 60·29 + 2 = 1742 vertices and 60·2 + 28·60·2 = 3480 triangles.
func NewSphereMesh(center linear.V3, radius float32, material *Material) (*Mesh, error) {
	if radius <= 0 {
		return nil, newSphErr("non-positive radius")
	}
	if material == nil {
		return nil, newSphErr("nil material")
	}

	const long, lat = sphereMeshLongSegs, sphereMeshLatSegs
	rings := lat - 1 // 29 intermediate rings

	verts := make([]linear.V3, 0, long*rings+2)
	norms := make([]linear.V3, 0, long*rings+2)
	uvs := make([][2]float32, 0, long*rings+2)

	addVertex := func(n linear.V3) {
		verts = append(verts, n)
		norms = append(norms, n)
		u, v := linear.SphereTexCoord(&n)
		uvs = append(uvs, [2]float32{u, v})
	}

	// Top pole (index 0).
	addVertex(linear.V3{0, 1, 0})
	// Intermediate rings, from just below the top pole to just
	// above the bottom pole.
	for ring := 1; ring < lat; ring++ {
		phi := math.Pi * float64(ring) / float64(lat) // (0, pi)
		y := float32(math.Cos(phi))
		r := float32(math.Sin(phi))
		for seg := 0; seg < long; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(long)
			x := r * float32(math.Cos(theta))
			z := r * float32(math.Sin(theta))
			addVertex(linear.V3{x, y, z})
		}
	}
	// Bottom pole (last index).
	addVertex(linear.V3{0, -1, 0})
	bottomPole := uint32(len(verts) - 1)

	ringStart := func(ring int) uint32 { return uint32(1 + (ring-1)*long) }

	var idx []uint32
	// Top fan: pole(0) to first ring.
	for seg := 0; seg < long; seg++ {
		a := ringStart(1) + uint32(seg)
		b := ringStart(1) + uint32((seg+1)%long)
		idx = append(idx, 0, a, b)
	}
	// Quad strips between consecutive intermediate rings.
	for ring := 1; ring < rings; ring++ {
		r0 := ringStart(ring)
		r1 := ringStart(ring + 1)
		for seg := 0; seg < long; seg++ {
			a0 := r0 + uint32(seg)
			a1 := r0 + uint32((seg+1)%long)
			b0 := r1 + uint32(seg)
			b1 := r1 + uint32((seg+1)%long)
			idx = append(idx, a0, b0, b1)
			idx = append(idx, a0, b1, a1)
		}
	}
	// Bottom fan: last ring to pole.
	lastRing := ringStart(rings)
	for seg := 0; seg < long; seg++ {
		a := lastRing + uint32(seg)
		b := lastRing + uint32((seg+1)%long)
		idx = append(idx, bottomPole, b, a)
	}

	var scale, xlate, transform linear.M4
	rv := linear.V3{radius, radius, radius}
	scale.Scaling(&rv)
	xlate.Translation(&center)
	transform.Mul(&xlate, &scale)

	return NewMesh(verts, idx, norms, idx, uvs, idx, transform, material)
}

// NewPlaneMesh generates a unit quad in the XZ-plane
// ([±0.5, 0, ±0.5]) with up-normal (0,1,0), scaled by side1/side2
// and rotated by linear.RotationBetweenVectors(normal, +Y), the
// rotation that takes normal onto +Y.
func NewPlaneMesh(center linear.V3, side1, side2 float32, normal linear.V3, material *Material) (*Mesh, error) {
	if material == nil {
		return nil, newMeshErr("nil material")
	}
	verts := []linear.V3{
		{-0.5, 0, -0.5},
		{0.5, 0, -0.5},
		{0.5, 0, 0.5},
		{-0.5, 0, 0.5},
	}
	up := linear.V3{0, 1, 0}
	norms := []linear.V3{up, up, up, up}
	uvs := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	idx := []uint32{3, 1, 0, 2, 1, 3}

	rot := linear.RotationBetweenVectors(&normal, &up)

	var rotM4, scaleM4, xlateM4, tmp, transform linear.M4
	rotM4.Rotation(&rot)
	s := linear.V3{side1, 1, side2}
	scaleM4.Scaling(&s)
	xlateM4.Translation(&center)
	tmp.Mul(&xlateM4, &rotM4)
	transform.Mul(&tmp, &scaleM4)

	return NewMesh(verts, idx, norms, idx, uvs, idx, transform, material)
}
