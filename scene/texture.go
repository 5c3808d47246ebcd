// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import "errors"

const texPrefix = "texture: "

func newTexErr(reason string) error { return errors.New(texPrefix + reason) }

// Texture is raw CPU-side image data plus the parameters the BVH
// builder and device buffer manager need to register and upload it.
// It acquires a stable textureId on first reference by a material
// during BVH build (see package bvh); until then id is -1.
type Texture struct {
	bytes             []byte
	width, height     int
	components        int
	bytesPerComponent int
	isHdr             bool
	gamma             float32
	bytesPerRow       int

	id int
}

// NewTexture creates a Texture from raw, uncompressed image bytes.
// components must be in [1,4] and bytesPerComponent must be 1 or 4
// (matching an 8-bit-per-channel LDR texture or a 32-bit float HDR
// texture respectively).
func NewTexture(bytes []byte, width, height, components, bytesPerComponent int, isHdr bool, gamma float32) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, newTexErr("non-positive width or height")
	}
	if components < 1 || components > 4 {
		return nil, newTexErr("components outside [1,4]")
	}
	if bytesPerComponent != 1 && bytesPerComponent != 4 {
		return nil, newTexErr("bytesPerComponent must be 1 or 4")
	}
	bpr := width * components * bytesPerComponent
	if len(bytes) < bpr*height {
		return nil, newTexErr("bytes shorter than width*height*components*bytesPerComponent")
	}
	return &Texture{
		bytes:             bytes,
		width:             width,
		height:            height,
		components:        components,
		bytesPerComponent: bytesPerComponent,
		isHdr:             isHdr,
		gamma:             gamma,
		bytesPerRow:       bpr,
		id:                -1,
	}, nil
}

// Bytes returns the texture's raw pixel data.
func (t *Texture) Bytes() []byte { return t.bytes }

// Width returns the texture's width, in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture's height, in pixels.
func (t *Texture) Height() int { return t.height }

// Components returns the number of color components per pixel.
func (t *Texture) Components() int { return t.components }

// BytesPerComponent returns the byte size of a single component.
func (t *Texture) BytesPerComponent() int { return t.bytesPerComponent }

// IsHDR reports whether the texture stores floating-point data.
func (t *Texture) IsHDR() bool { return t.isHdr }

// Gamma returns the texture's encoding gamma.
func (t *Texture) Gamma() float32 { return t.gamma }

// BytesPerRow returns the unpadded row pitch of the CPU data.
func (t *Texture) BytesPerRow() int { return t.bytesPerRow }

// ID returns the texture's stable textureId, or -1 if it has not
// yet been referenced by a material during BVH build.
func (t *Texture) ID() int { return t.id }

// SetID assigns the texture's stable textureId.
// It is called exactly once, by the BVH builder.
func (t *Texture) SetID(id int) { t.id = id }
