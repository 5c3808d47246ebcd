// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package kernel

import "github.com/gviegas/ornament/bvh"

// Material is the 32-byte wire form of bvh.FlatMaterial.
//
//	bytes  0: 4  kind
//	bytes  4: 8  isTexture
//	bytes  8:20  albedo (literal RGB; ignored when isTexture != 0)
//	bytes 20:24  textureId (ignored when isTexture == 0)
//	bytes 24:28  fuzz
//	bytes 28:32  ior
type Material struct {
	Kind      uint32
	IsTexture uint32
	Albedo    [3]float32
	TextureID uint32
	Fuzz      float32
	IOR       float32
}

// EncodeMaterial packs m into its device wire form.
func EncodeMaterial(m *bvh.FlatMaterial) Material {
	w := Material{Kind: uint32(m.Kind), Fuzz: m.Fuzz, IOR: m.IOR}
	if m.Albedo.IsTexture {
		w.IsTexture = 1
		w.TextureID = m.Albedo.TextureID
	} else {
		w.Albedo = m.Albedo.Literal
	}
	return w
}

// EncodeMaterials packs an entire materials array.
func EncodeMaterials(materials []bvh.FlatMaterial) []Material {
	out := make([]Material, len(materials))
	for i := range materials {
		out[i] = EncodeMaterial(&materials[i])
	}
	return out
}
