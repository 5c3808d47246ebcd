// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

// Sampler implements driver.Sampler.
//
// device.TextureSet always requests wrap/wrap addressing and point
// (nearest) filtering, per the kernel data contract, but the full
// Filter/AddrMode mapping is implemented here regardless so other
// callers are not limited to that one configuration.
type Sampler struct {
	splr *wgpu.Sampler
}

func addrMode(m driver.AddrMode) wgpu.AddressMode {
	switch m {
	case driver.AMirror:
		return wgpu.AddressModeMirrorRepeat
	case driver.AClamp:
		return wgpu.AddressModeClampToEdge
	default:
		return wgpu.AddressModeRepeat
	}
}

func filterMode(f driver.Filter) wgpu.FilterMode {
	if f == driver.FLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

func newSampler(g *GPU, spln *driver.Sampling) (*Sampler, error) {
	s, err := g.dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "ornament.sampler",
		AddressModeU: addrMode(spln.AddrU),
		AddressModeV: addrMode(spln.AddrV),
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    filterMode(spln.Mag),
		MinFilter:    filterMode(spln.Min),
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	return &Sampler{splr: s}, nil
}

// Destroy releases the underlying wgpu sampler.
func (s *Sampler) Destroy() {
	if s.splr != nil {
		s.splr.Release()
		s.splr = nil
	}
}
