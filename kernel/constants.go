// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package kernel

import (
	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

// CameraBlock is the 112-byte camera sub-block of Constants: seven
// 16-byte vec4 slots, each a basis vector paired with a scalar
// (mirroring BVHNode's own slot packing).
type CameraBlock struct {
	Origin          [3]float32
	LensRadius      float32
	LowerLeftCorner [3]float32
	_pad0           float32
	Horizontal      [3]float32
	_pad1           float32
	Vertical        [3]float32
	_pad2           float32
	U               [3]float32
	_pad3           float32
	V               [3]float32
	_pad4           float32
	W               [3]float32
	_pad5           float32
}

// Constants is the 144-byte module-global constants block (§6):
// the camera sub-block followed by the per-iteration scalars.
type Constants struct {
	Camera           CameraBlock
	Depth            uint32
	Width            uint32
	Height           uint32
	FlipY            uint32
	InvertedGamma    float32
	RayCastEpsilon   float32
	TexturesCount    uint32
	CurrentIteration float32
}

// EncodeConstants builds the constants block for one iteration from
// cam and st. texturesCount is the device texture-sampler array
// length (bvh.BVH.TextureSlotCount()).
func EncodeConstants(cam *scene.Camera, st *scene.State, texturesCount int) Constants {
	width, height := st.Resolution()
	var flipY uint32
	if st.FlipY() {
		flipY = 1
	}
	return Constants{
		Camera: CameraBlock{
			Origin:          v3(cam.Origin()),
			LensRadius:      cam.LensRadius(),
			LowerLeftCorner: v3(cam.LowerLeftCorner()),
			Horizontal:      v3(cam.Horizontal()),
			Vertical:        v3(cam.Vertical()),
			U:               v3(cam.U()),
			V:               v3(cam.V()),
			W:               v3(cam.W()),
		},
		Depth:            uint32(st.Depth()),
		Width:            uint32(width),
		Height:           uint32(height),
		FlipY:            flipY,
		InvertedGamma:    st.InvertedGamma(),
		RayCastEpsilon:   st.RayCastEpsilon(),
		TexturesCount:    uint32(texturesCount),
		CurrentIteration: float32(st.CurrentIteration()),
	}
}

func v3(v linear.V3) [3]float32 { return [3]float32(v) }
