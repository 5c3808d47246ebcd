// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package device

import (
	"math"

	"github.com/gviegas/ornament/driver"
	"github.com/gviegas/ornament/scene"
)

// TextureSet uploads every scene.Texture referenced by a built BVH
// into device-resident 2-D images plus one sampler per image, per
// spec.md §4.5: "wrap/wrap/wrap, point filter, normalized coords".
// Every image is stored as RGBA32f regardless of the source's
// component count or precision, so the kernel's sampling code never
// needs to special-case texture formats.
type TextureSet struct {
	gpu      driver.GPU
	images   []driver.Image
	views    []driver.ImageView
	samplers []driver.Sampler
}

// NewTextureSet builds one device image+sampler per entry in
// textures, in order (textures[i].ID() must equal i — bvh.BVH's
// Textures slice already guarantees this).
func NewTextureSet(gpu driver.GPU, textures []*scene.Texture) (*TextureSet, error) {
	ts := &TextureSet{gpu: gpu}
	for _, tex := range textures {
		if err := ts.upload(tex); err != nil {
			ts.Destroy()
			return nil, err
		}
	}
	return ts, nil
}

func (ts *TextureSet) upload(tex *scene.Texture) error {
	w, h := tex.Width(), tex.Height()
	pixels := expandToRGBA32F(tex)

	const bytesPerPixel = 16 // 4 * float32
	srcPitch := int64(w) * bytesPerPixel
	align := ts.gpu.Limits().MinPitchAlign
	devPitch := (srcPitch + align - 1) &^ (align - 1)

	staged := make([]byte, devPitch*int64(h))
	for y := 0; y < h; y++ {
		srcRow := pixels[y*w*4 : (y+1)*w*4]
		dstOff := int64(y) * devPitch
		copy(staged[dstOff:dstOff+srcPitch], bytesOf(srcRow))
	}

	stageBuf, err := ts.gpu.NewBuffer(int64(len(staged)), false, driver.UGeneric)
	if err != nil {
		return err
	}
	defer stageBuf.Destroy()
	if err := ts.gpu.WriteBuffer(stageBuf, 0, staged); err != nil {
		return err
	}

	img, err := ts.gpu.NewImage(driver.RGBA32f, driver.Dim3D{Width: w, Height: h, Depth: 1}, driver.UShaderSample)
	if err != nil {
		return err
	}
	view, err := img.NewView()
	if err != nil {
		img.Destroy()
		return err
	}
	splr, err := ts.gpu.NewSampler(&driver.Sampling{
		Min:   driver.FNearest,
		Mag:   driver.FNearest,
		AddrU: driver.AWrap,
		AddrV: driver.AWrap,
	})
	if err != nil {
		view.Destroy()
		img.Destroy()
		return err
	}

	cb, err := ts.gpu.NewCmdBuffer()
	if err != nil {
		splr.Destroy()
		view.Destroy()
		img.Destroy()
		return err
	}
	if err := cb.Begin(); err != nil {
		cb.Destroy()
		splr.Destroy()
		view.Destroy()
		img.Destroy()
		return err
	}
	cb.BeginBlit(false)
	cb.CopyBufToImg(&driver.BufImgCopy{
		Buf:    stageBuf,
		Stride: devPitch,
		Img:    img,
		Size:   driver.Dim3D{Width: w, Height: h, Depth: 1},
	})
	cb.EndBlit()
	if err := cb.End(); err != nil {
		cb.Destroy()
		splr.Destroy()
		view.Destroy()
		img.Destroy()
		return err
	}
	done := make(chan error, 1)
	ts.gpu.Commit([]driver.CmdBuffer{cb}, done)
	if err := <-done; err != nil {
		splr.Destroy()
		view.Destroy()
		img.Destroy()
		return err
	}
	cb.Destroy()

	ts.images = append(ts.images, img)
	ts.views = append(ts.views, view)
	ts.samplers = append(ts.samplers, splr)
	return nil
}

// expandToRGBA32F converts tex's raw pixel bytes into a tightly
// packed width·height·4 float32 buffer, filling missing channels
// (alpha = 1, and for grayscale sources, the same value for r/g/b)
// and decoding gamma for non-HDR 8-bit sources.
func expandToRGBA32F(tex *scene.Texture) []float32 {
	w, h := tex.Width(), tex.Height()
	comps := tex.Components()
	bpc := tex.BytesPerComponent()
	isHdr := tex.IsHDR()
	gamma := tex.Gamma()
	bpr := tex.BytesPerRow()
	bytes := tex.Bytes()

	out := make([]float32, w*h*4)
	for y := 0; y < h; y++ {
		row := bytes[y*bpr : (y+1)*bpr]
		for x := 0; x < w; x++ {
			var c [4]float32
			c[3] = 1
			for k := 0; k < comps; k++ {
				off := x*comps*bpc + k*bpc
				var v float32
				if isHdr {
					bits := uint32(row[off]) | uint32(row[off+1])<<8 | uint32(row[off+2])<<16 | uint32(row[off+3])<<24
					v = math.Float32frombits(bits)
				} else {
					v = float32(row[off]) / 255
					if gamma != 1 {
						v = float32(math.Pow(float64(v), float64(gamma)))
					}
				}
				c[k] = v
			}
			if comps == 1 {
				c[1], c[2] = c[0], c[0]
			}
			idx := (y*w + x) * 4
			out[idx+0], out[idx+1], out[idx+2], out[idx+3] = c[0], c[1], c[2], c[3]
		}
	}
	return out
}

// Views returns the device image views, in textureId order, for
// binding into a DTexture descriptor array.
func (ts *TextureSet) Views() []driver.ImageView { return ts.views }

// Samplers returns the device samplers, in textureId order, for
// binding into a DSampler descriptor array (spec.md's "upload the
// array of sampler handles as a linear array" — modeled here as an
// array-valued descriptor rather than a LinearArray of raw handles,
// since the driver's bind-group model already provides that
// indirection).
func (ts *TextureSet) Samplers() []driver.Sampler { return ts.samplers }

// Count returns the number of textures in the set.
func (ts *TextureSet) Count() int { return len(ts.images) }

// Destroy releases every image, view and sampler in the set.
func (ts *TextureSet) Destroy() {
	for _, s := range ts.samplers {
		s.Destroy()
	}
	for _, v := range ts.views {
		v.Destroy()
	}
	for _, img := range ts.images {
		img.Destroy()
	}
	ts.samplers, ts.views, ts.images = nil, nil, nil
}
