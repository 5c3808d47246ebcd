// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package bvh

import "github.com/gviegas/ornament/scene"

// ColorRef is the flattened form of scene.Color: either a literal
// RGB triple or a resolved textureId.
type ColorRef struct {
	IsTexture bool
	Literal   [3]float32
	TextureID uint32
}

// FlatMaterial is the flattened form of a scene.Material: the same
// tag the scene graph uses, plus a ColorRef in place of scene.Color
// (so the texture reference, if any, is a plain index rather than
// a pointer).
type FlatMaterial struct {
	Kind   scene.MaterialKind
	Albedo ColorRef
	Fuzz   float32
	IOR    float32
}
