// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene implements the user-facing scene graph: materials,
// textures, spheres, meshes, mesh instances, the camera and the
// renderer state, plus the Scene type that retains ownership of
// every entity a caller constructs.
package scene

import (
	"errors"

	"github.com/gviegas/ornament/linear"
)

const scenePrefix = "scene: "

func newSceneErr(reason string) error { return errors.New(scenePrefix + reason) }

// ErrUnknownShape is returned by Attach when given a value that is
// not a *Sphere, *Mesh or *MeshInstance created by this Scene.
var ErrUnknownShape = newSceneErr("unknown shape type")

// Scene owns every entity a caller constructs (the "created" set)
// and tracks which of them are attached — the subset the BVH
// builder actually consumes. Constructors always append to the
// created set; Attach moves a handle into the attached set.
type Scene struct {
	camera *Camera
	state  *State

	createdMaterials []*Material
	createdTextures  []*Texture
	createdSpheres   []*Sphere
	createdMeshes    []*Mesh
	createdInstances []*MeshInstance

	attachedSpheres   []*Sphere
	attachedMeshes    []*Mesh
	attachedInstances []*MeshInstance
}

// NewScene creates an empty Scene with the given camera and state.
func NewScene(camera *Camera, state *State) (*Scene, error) {
	if camera == nil {
		return nil, newSceneErr("nil camera")
	}
	if state == nil {
		return nil, newSceneErr("nil state")
	}
	return &Scene{camera: camera, state: state}, nil
}

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// State returns the scene's renderer state.
func (s *Scene) State() *State { return s.state }

// Lambertian creates and retains a diffuse material.
func (s *Scene) Lambertian(albedo Color) *Material {
	m := NewLambertian(albedo)
	s.createdMaterials = append(s.createdMaterials, m)
	return m
}

// Metal creates and retains a glossy-reflective material.
func (s *Scene) Metal(albedo Color, fuzz float32) *Material {
	m := NewMetal(albedo, fuzz)
	s.createdMaterials = append(s.createdMaterials, m)
	return m
}

// Dielectric creates and retains a refractive material.
func (s *Scene) Dielectric(ior float32) (*Material, error) {
	m, err := NewDielectric(ior)
	if err != nil {
		return nil, err
	}
	s.createdMaterials = append(s.createdMaterials, m)
	return m, nil
}

// DiffuseLight creates and retains an emissive material.
func (s *Scene) DiffuseLight(albedo Color) *Material {
	m := NewDiffuseLight(albedo)
	s.createdMaterials = append(s.createdMaterials, m)
	return m
}

// Texture creates and retains a texture.
func (s *Scene) Texture(bytes []byte, width, height, components, bytesPerComponent int, isHdr bool, gamma float32) (*Texture, error) {
	t, err := NewTexture(bytes, width, height, components, bytesPerComponent, isHdr, gamma)
	if err != nil {
		return nil, err
	}
	s.createdTextures = append(s.createdTextures, t)
	return t, nil
}

// Sphere creates and retains a sphere.
func (s *Scene) Sphere(center linear.V3, radius float32, material *Material) (*Sphere, error) {
	sph, err := NewSphere(center, radius, material)
	if err != nil {
		return nil, err
	}
	s.createdSpheres = append(s.createdSpheres, sph)
	return sph, nil
}

// Mesh creates and retains a mesh.
func (s *Scene) Mesh(
	vertices []linear.V3, vertexIndices []uint32,
	normals []linear.V3, normalIndices []uint32,
	uvs [][2]float32, uvIndices []uint32,
	transform linear.M4, material *Material,
) (*Mesh, error) {
	m, err := NewMesh(vertices, vertexIndices, normals, normalIndices, uvs, uvIndices, transform, material)
	if err != nil {
		return nil, err
	}
	s.createdMeshes = append(s.createdMeshes, m)
	return m, nil
}

// SphereMesh creates and retains a UV-sphere mesh.
func (s *Scene) SphereMesh(center linear.V3, radius float32, material *Material) (*Mesh, error) {
	m, err := NewSphereMesh(center, radius, material)
	if err != nil {
		return nil, err
	}
	s.createdMeshes = append(s.createdMeshes, m)
	return m, nil
}

// PlaneMesh creates and retains a plane mesh.
func (s *Scene) PlaneMesh(center linear.V3, side1, side2 float32, normal linear.V3, material *Material) (*Mesh, error) {
	m, err := NewPlaneMesh(center, side1, side2, normal, material)
	if err != nil {
		return nil, err
	}
	s.createdMeshes = append(s.createdMeshes, m)
	return m, nil
}

// MeshInstance creates and retains a mesh instance.
func (s *Scene) MeshInstance(mesh *Mesh, transform linear.M4, material *Material) (*MeshInstance, error) {
	i, err := NewMeshInstance(mesh, transform, material)
	if err != nil {
		return nil, err
	}
	s.createdInstances = append(s.createdInstances, i)
	return i, nil
}

// Attach moves shape into the attached set, the subset the BVH
// builder consumes. shape must be a *Sphere, *Mesh or *MeshInstance
// previously returned by one of this Scene's constructors.
func (s *Scene) Attach(shape any) error {
	switch v := shape.(type) {
	case *Sphere:
		s.attachedSpheres = append(s.attachedSpheres, v)
	case *Mesh:
		s.attachedMeshes = append(s.attachedMeshes, v)
	case *MeshInstance:
		s.attachedInstances = append(s.attachedInstances, v)
	default:
		return ErrUnknownShape
	}
	return nil
}

// AttachedSpheres returns the attached spheres.
func (s *Scene) AttachedSpheres() []*Sphere { return s.attachedSpheres }

// AttachedMeshes returns the attached meshes (as direct leaves,
// not counting mesh instances).
func (s *Scene) AttachedMeshes() []*Mesh { return s.attachedMeshes }

// AttachedInstances returns the attached mesh instances.
func (s *Scene) AttachedInstances() []*MeshInstance { return s.attachedInstances }

// AttachedShapeCount returns the total number of attached leaves
// (spheres + meshes + instances), i.e. S in spec.md §4.4.
func (s *Scene) AttachedShapeCount() int {
	return len(s.attachedSpheres) + len(s.attachedMeshes) + len(s.attachedInstances)
}
