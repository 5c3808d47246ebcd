// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"

	"github.com/gviegas/ornament/linear"
)

const instPrefix = "mesh instance: "

func newInstErr(reason string) error { return errors.New(instPrefix + reason) }

// MeshInstance references a Mesh plus an overriding transform and
// material, carrying only its own world AABB (derived from the
// Mesh's local AABB). Because it shares the Mesh's geometry, it
// shares the Mesh's bvhId once that mesh's BLAS has been built.
type MeshInstance struct {
	mesh      *Mesh
	transform linear.M4
	material  *Material
	worldAABB linear.AABB
}

// NewMeshInstance creates a MeshInstance of mesh under transform,
// overriding its material.
func NewMeshInstance(mesh *Mesh, transform linear.M4, material *Material) (*MeshInstance, error) {
	if mesh == nil {
		return nil, newInstErr("nil mesh")
	}
	if material == nil {
		return nil, newInstErr("nil material")
	}
	local := mesh.LocalAABB()
	var world linear.AABB
	world.Transform(&transform, &local)
	return &MeshInstance{
		mesh:      mesh,
		transform: transform,
		material:  material,
		worldAABB: world,
	}, nil
}

// Mesh returns the instance's referenced mesh.
func (i *MeshInstance) Mesh() *Mesh { return i.mesh }

// Transform returns the instance's world transform.
func (i *MeshInstance) Transform() linear.M4 { return i.transform }

// Material returns the instance's material.
func (i *MeshInstance) Material() *Material { return i.material }

// AABB returns the instance's world-space bounding box.
func (i *MeshInstance) AABB() linear.AABB { return i.worldAABB }
