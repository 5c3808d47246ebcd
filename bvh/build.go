// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package bvh

import (
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gviegas/ornament/internal/bitm"
	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

// BVH is the flattened, two-level acceleration structure built
// from an attached scene.Scene, plus the material/texture/transform
// tables referenced by its nodes. Field order matches the build
// order spec.md §4.4 enumerates.
type BVH struct {
	TLASNodes []Node
	BLASNodes []Node

	Normals       []linear.V3
	NormalIndices []uint32
	UVs           [][2]float32
	UVIndices     []uint32

	// Transforms is a paired [inverse, forward] array, both
	// entries transposed to row-major device convention. Shape k's
	// transformId indexes entry 2k (inverse) and 2k+1 (forward).
	Transforms []linear.M4

	Materials []FlatMaterial
	Textures  []*scene.Texture

	materialSlots bitm.Bitm[uint32]
	textureSlots  bitm.Bitm[uint32]
}

// Build constructs a BVH from sc's attached shapes, using an
// auto-seeded random axis selection for every internal-node split
// (spec.md's determinism note: tree shape is allowed to vary
// between builds, intersection semantics are not).
func Build(sc *scene.Scene) (*BVH, error) {
	return build(sc, rand.Uint64())
}

// BuildSeeded is identical to Build but seeds axis selection
// deterministically, for reproducible tests and reproducible scene
// snapshots.
func BuildSeeded(sc *scene.Scene, seed uint64) (*BVH, error) {
	return build(sc, seed)
}

func build(sc *scene.Scene, seed uint64) (*BVH, error) {
	shapeCount := sc.AttachedShapeCount()
	if shapeCount == 0 {
		return nil, ErrEmptyScene
	}

	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)

	b := &BVH{}

	uniqueMeshes, meshOrder := collectUniqueMeshes(sc)
	if err := b.buildAllBLAS(uniqueMeshes, meshOrder, rng); err != nil {
		return nil, err
	}
	if err := b.buildTLAS(sc, rng); err != nil {
		return nil, err
	}

	if err := b.checkInvariants(shapeCount, uniqueMeshes); err != nil {
		return nil, err
	}
	return b, nil
}

// collectUniqueMeshes gathers every distinct *scene.Mesh referenced
// by an attached mesh or mesh instance, in first-appearance order
// (attached meshes first, then the meshes referenced by attached
// instances). This order is what the sequential merge pass in
// buildAllBLAS uses to keep array layout deterministic.
func collectUniqueMeshes(sc *scene.Scene) (set map[*scene.Mesh]bool, order []*scene.Mesh) {
	set = make(map[*scene.Mesh]bool)
	add := func(m *scene.Mesh) {
		if !set[m] {
			set[m] = true
			order = append(order, m)
		}
	}
	for _, m := range sc.AttachedMeshes() {
		add(m)
	}
	for _, inst := range sc.AttachedInstances() {
		add(inst.Mesh())
	}
	return
}

// meshBuildResult is the concurrently-computed, not-yet-rebased
// local BLAS of one mesh.
type meshBuildResult struct {
	mesh  *scene.Mesh
	nodes []Node // node-internal child indices are local to this slice
	// Triangle nodes' TriangleID fields hold local triangle indices
	// (0..T-1), rebased to a global running count during merge.
}

// buildAllBLAS builds the BLAS of every unique mesh concurrently,
// then merges the results into b's flat arrays in a strictly
// sequential pass (order), so bvhId/globalTriangleIndex stay
// deterministic even though intra-tree axis selection is
// per-goroutine randomized.
func (b *BVH) buildAllBLAS(set map[*scene.Mesh]bool, order []*scene.Mesh, rng *rand.Rand) error {
	results := make([]meshBuildResult, len(order))

	var g errgroup.Group
	for i, m := range order {
		i, m := i, m
		// Each mesh gets its own derived rand.Rand so concurrent
		// builds don't contend on a shared source.
		localSeed := rng.Uint64()
		g.Go(func() error {
			if m.TriangleCount() == 0 {
				return ErrZeroTriangleMesh
			}
			localRNG := rand.New(rand.NewPCG(localSeed, localSeed^0xabcdef0123456789))
			nodes, err := buildBLASLocal(m, localRNG)
			if err != nil {
				return err
			}
			results[i] = meshBuildResult{mesh: m, nodes: nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var triOffset uint32
	for _, r := range results {
		m := r.mesh
		nodeOffset := uint32(len(b.BLASNodes))
		normOffset := uint32(len(b.Normals))
		uvOffset := uint32(len(b.UVs))

		for i := range r.nodes {
			n := &r.nodes[i]
			switch n.Kind {
			case Internal:
				n.LeftChild += nodeOffset
				n.RightChild += nodeOffset
			case TriangleNode:
				n.TriangleID += triOffset
			}
		}
		b.BLASNodes = append(b.BLASNodes, r.nodes...)

		b.Normals = append(b.Normals, m.Normals()...)
		for _, idx := range m.NormalIndices() {
			b.NormalIndices = append(b.NormalIndices, idx+normOffset)
		}
		b.UVs = append(b.UVs, m.UVs()...)
		for _, idx := range m.UVIndices() {
			b.UVIndices = append(b.UVIndices, idx+uvOffset)
		}

		m.SetID(int(nodeOffset) + len(r.nodes) - 1)
		triOffset += uint32(m.TriangleCount())
	}
	return nil
}

// buildBLASLocal builds one mesh's BLAS in isolation: node indices
// are local to the returned slice, and Triangle nodes carry a
// local (0-based) triangle index in TriangleID.
func buildBLASLocal(m *scene.Mesh, rng *rand.Rand) ([]Node, error) {
	t := m.TriangleCount()
	vIdx := m.VertexIndices()
	verts := m.Vertices()

	leaves := make([]triLeaf, t)
	for i := 0; i < t; i++ {
		v0 := verts[vIdx[i*3+0]]
		v1 := verts[vIdx[i*3+1]]
		v2 := verts[vIdx[i*3+2]]
		box := linear.AABB{Min: v0, Max: v0}
		box.Extend(&v1)
		box.Extend(&v2)
		leaves[i] = triLeaf{v0: v0, v1: v1, v2: v2, triangleID: uint32(i), aabb: box}
	}

	var nodes []Node
	_, err := buildTriSubtree(leaves, &nodes, rng)
	return nodes, err
}

// triLeaf is a BLAS leaf candidate prior to node emission.
type triLeaf struct {
	v0, v1, v2 linear.V3
	triangleID uint32
	aabb       linear.AABB
}

// buildTriSubtree recursively emits Triangle/Internal nodes for
// leaves into nodes, returning the index of the subtree's root
// (which is always the last entry appended).
func buildTriSubtree(leaves []triLeaf, nodes *[]Node, rng *rand.Rand) (uint32, error) {
	if len(leaves) == 1 {
		l := leaves[0]
		*nodes = append(*nodes, Node{
			Kind:       TriangleNode,
			V0:         l.v0,
			V1:         l.v1,
			V2:         l.v2,
			TriangleID: l.triangleID,
		})
		return uint32(len(*nodes) - 1), nil
	}

	axis := rng.IntN(3)
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].aabb.AxisMin(axis) < leaves[j].aabb.AxisMin(axis)
	})
	mid := len(leaves) / 2

	leftIdx, err := buildTriSubtree(leaves[:mid], nodes, rng)
	if err != nil {
		return 0, err
	}
	rightIdx, err := buildTriSubtree(leaves[mid:], nodes, rng)
	if err != nil {
		return 0, err
	}

	var leftBox, rightBox linear.AABB
	leftBox = unionOfLeaves(leaves[:mid])
	rightBox = unionOfLeaves(leaves[mid:])

	*nodes = append(*nodes, Node{
		Kind:         Internal,
		LeftChild:    leftIdx,
		RightChild:   rightIdx,
		LeftAABBMin:  leftBox.Min,
		LeftAABBMax:  leftBox.Max,
		RightAABBMin: rightBox.Min,
		RightAABBMax: rightBox.Max,
	})
	return uint32(len(*nodes) - 1), nil
}

func unionOfLeaves(leaves []triLeaf) linear.AABB {
	box := leaves[0].aabb
	for _, l := range leaves[1:] {
		box.Union(&box, &l.aabb)
	}
	return box
}

// shapeLeaf is a TLAS leaf candidate prior to node emission.
type shapeLeaf struct {
	aabb linear.AABB // bounding box used purely for the split
	emit func() Node
}

// buildTLAS builds the single TLAS over every attached shape,
// registering materials/textures and pairing transforms as each
// leaf is emitted.
func (b *BVH) buildTLAS(sc *scene.Scene, rng *rand.Rand) error {
	var leaves []shapeLeaf

	for _, s := range sc.AttachedSpheres() {
		s := s
		leaves = append(leaves, shapeLeaf{
			aabb: s.AABB(),
			emit: func() Node {
				xform := s.Transform()
				tid := b.pushTransform(&xform)
				mid := b.registerMaterial(s.Material())
				return Node{Kind: SphereNode, MaterialID: mid, TransformID: tid}
			},
		})
	}
	for _, m := range sc.AttachedMeshes() {
		m := m
		leaves = append(leaves, shapeLeaf{
			aabb: m.AABB(),
			emit: func() Node {
				xform := m.Transform()
				tid := b.pushTransform(&xform)
				mid := b.registerMaterial(m.Material())
				return Node{Kind: MeshNode, MaterialID: mid, TransformID: tid, BLASRootID: uint32(m.ID())}
			},
		})
	}
	for _, inst := range sc.AttachedInstances() {
		inst := inst
		leaves = append(leaves, shapeLeaf{
			aabb: inst.AABB(),
			emit: func() Node {
				xform := inst.Transform()
				tid := b.pushTransform(&xform)
				mid := b.registerMaterial(inst.Material())
				return Node{Kind: MeshNode, MaterialID: mid, TransformID: tid, BLASRootID: uint32(inst.Mesh().ID())}
			},
		})
	}

	_, err := b.buildShapeSubtree(leaves, rng)
	return err
}

// buildShapeSubtree is the TLAS analogue of buildTriSubtree: it
// recurses over shape leaves, appending to b.TLASNodes, and emits
// leaf nodes (which register materials/transforms as a side effect
// of emit, so registration order matches leaf emission order).
func (b *BVH) buildShapeSubtree(leaves []shapeLeaf, rng *rand.Rand) (uint32, error) {
	if len(leaves) == 1 {
		b.TLASNodes = append(b.TLASNodes, leaves[0].emit())
		return uint32(len(b.TLASNodes) - 1), nil
	}

	axis := rng.IntN(3)
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].aabb.AxisMin(axis) < leaves[j].aabb.AxisMin(axis)
	})
	mid := len(leaves) / 2

	leftIdx, err := b.buildShapeSubtree(leaves[:mid], rng)
	if err != nil {
		return 0, err
	}
	rightIdx, err := b.buildShapeSubtree(leaves[mid:], rng)
	if err != nil {
		return 0, err
	}

	leftBox := unionOfShapeLeaves(leaves[:mid])
	rightBox := unionOfShapeLeaves(leaves[mid:])

	b.TLASNodes = append(b.TLASNodes, Node{
		Kind:         Internal,
		LeftChild:    leftIdx,
		RightChild:   rightIdx,
		LeftAABBMin:  leftBox.Min,
		LeftAABBMax:  leftBox.Max,
		RightAABBMin: rightBox.Min,
		RightAABBMax: rightBox.Max,
	})
	return uint32(len(b.TLASNodes) - 1), nil
}

func unionOfShapeLeaves(leaves []shapeLeaf) linear.AABB {
	box := leaves[0].aabb
	for _, l := range leaves[1:] {
		box.Union(&box, &l.aabb)
	}
	return box
}

// pushTransform appends the transposed [inverse, forward] pair for
// xform and returns the shape's transformId.
func (b *BVH) pushTransform(xform *linear.M4) uint32 {
	var inv, invT, fwdT linear.M4
	inv.Invert(xform)
	invT.Transpose(&inv)
	fwdT.Transpose(xform)
	id := uint32(len(b.Transforms) / 2)
	b.Transforms = append(b.Transforms, invT, fwdT)
	return id
}

// registerMaterial returns m's materialId, assigning one (and
// flattening m, and its texture if any) on first reference.
func (b *BVH) registerMaterial(m *scene.Material) uint32 {
	if id := m.ID(); id >= 0 {
		return uint32(id)
	}
	var albedo ColorRef
	switch m.Kind() {
	case scene.Lambertian, scene.Metal, scene.DiffuseLight:
		c := m.Albedo()
		if c.IsTexture() {
			albedo = ColorRef{IsTexture: true, TextureID: b.registerTexture(c.Texture())}
		} else {
			albedo = ColorRef{Literal: c.Literal()}
		}
	}
	flat := FlatMaterial{Kind: m.Kind(), Albedo: albedo, Fuzz: m.Fuzz(), IOR: m.IOR()}
	id := len(b.Materials)
	b.Materials = append(b.Materials, flat)
	if id >= b.materialSlots.Len() {
		b.materialSlots.Grow(1)
	}
	b.materialSlots.Set(id)
	m.SetID(id)
	return uint32(id)
}

// registerTexture returns tex's textureId, assigning one on first
// reference.
func (b *BVH) registerTexture(tex *scene.Texture) uint32 {
	if id := tex.ID(); id >= 0 {
		return uint32(id)
	}
	id := len(b.Textures)
	b.Textures = append(b.Textures, tex)
	if id >= b.textureSlots.Len() {
		b.textureSlots.Grow(1)
	}
	b.textureSlots.Set(id)
	tex.SetID(id)
	return uint32(id)
}

// MaterialSlotCount returns the number of occupied material slots,
// which must equal len(Materials) — invariant 4 ("every material
// appears exactly once") restated as a bitmap occupancy check.
func (b *BVH) MaterialSlotCount() int { return b.materialSlots.Len() - b.materialSlots.Rem() }

// TextureSlotCount returns the number of occupied texture slots,
// the invariant-5 analogue of MaterialSlotCount.
func (b *BVH) TextureSlotCount() int { return b.textureSlots.Len() - b.textureSlots.Rem() }

// checkInvariants enforces spec.md §4.4's post-build node-count
// invariants.
func (b *BVH) checkInvariants(shapeCount int, uniqueMeshes map[*scene.Mesh]bool) error {
	if len(b.TLASNodes) != 2*shapeCount-1 {
		return ErrCountMismatch
	}
	var wantBLAS int
	for m := range uniqueMeshes {
		wantBLAS += 2*m.TriangleCount() - 1
	}
	if len(b.BLASNodes) != wantBLAS {
		return ErrCountMismatch
	}
	return nil
}
