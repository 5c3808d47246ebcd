// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

// Image implements driver.Image.
type Image struct {
	gpu  *GPU
	tex  *wgpu.Texture
	pf   driver.PixelFmt
	size driver.Dim3D
	usg  driver.Usage
}

func texFormat(pf driver.PixelFmt) wgpu.TextureFormat {
	switch pf {
	case driver.RGBA8un:
		return wgpu.TextureFormatRGBA8Unorm
	case driver.RGBA32f:
		return wgpu.TextureFormatRGBA32Float
	case driver.RG32f:
		return wgpu.TextureFormatRG32Float
	case driver.R32f:
		return wgpu.TextureFormatR32Float
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

func texUsage(usg driver.Usage) wgpu.TextureUsage {
	f := wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst
	if usg&driver.UShaderSample != 0 {
		f |= wgpu.TextureUsageTextureBinding
	}
	if usg&driver.UShaderWrite != 0 {
		f |= wgpu.TextureUsageStorageBinding
	}
	return f
}

func newImage(g *GPU, pf driver.PixelFmt, size driver.Dim3D, usg driver.Usage) (*Image, error) {
	depth := size.Depth
	if depth < 1 {
		depth = 1
	}
	tex, err := g.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "ornament.image",
		Size: wgpu.Extent3D{
			Width:              uint32(size.Width),
			Height:             uint32(size.Height),
			DepthOrArrayLayers: uint32(depth),
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        texFormat(pf),
		Usage:         texUsage(usg),
	})
	if err != nil {
		return nil, err
	}
	return &Image{gpu: g, tex: tex, pf: pf, size: size, usg: usg}, nil
}

// NewView creates a 2-D view over the whole image.
func (i *Image) NewView() (driver.ImageView, error) {
	view, err := i.tex.CreateView(nil)
	if err != nil {
		return nil, err
	}
	return &ImageView{view: view}, nil
}

// Destroy releases the underlying wgpu texture.
func (i *Image) Destroy() {
	if i.tex != nil {
		i.tex.Release()
		i.tex = nil
	}
}

// ImageView implements driver.ImageView.
type ImageView struct {
	view *wgpu.TextureView
}

// Destroy releases the underlying wgpu texture view.
func (v *ImageView) Destroy() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}
