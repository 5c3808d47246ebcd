// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

// descEntry is a single binding within a DescHeap's layout.
type descEntry struct {
	typ   driver.DescType
	nr    int
	len   int
	start int // first wgpu binding index this descriptor occupies
}

// heapCopy holds the live resource bindings for one copy of a
// DescHeap. wgpu.BindGroup is immutable once created, so Set*
// calls only update res and mark the group stale; bindGroup
// rebuilds it lazily the next time it is needed.
type heapCopy struct {
	buffers  []*wgpu.Buffer
	bufOff   []int64
	bufSize  []int64
	views    []*wgpu.TextureView
	samplers []*wgpu.Sampler
	group    *wgpu.BindGroup
	stale    bool
}

// DescHeap implements driver.DescHeap.
// It corresponds to one wgpu bind group layout; each call to New
// creates a separate bind group (a "copy") sharing that layout.
// render.PathTracer creates a single copy.
type DescHeap struct {
	gpu     *GPU
	layout  *wgpu.BindGroupLayout
	entries []descEntry
	copies  []*heapCopy
}

func bindingType(t driver.DescType) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Visibility: wgpu.ShaderStageCompute}
	switch t {
	case driver.DBuffer:
		e.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}
	case driver.DImage:
		e.StorageTexture = wgpu.StorageTextureBindingLayout{
			Access:        wgpu.StorageTextureAccessWriteOnly,
			Format:        wgpu.TextureFormatRGBA32Float,
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	case driver.DTexture:
		e.Texture = wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	case driver.DSampler:
		e.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
	}
	return e
}

func newDescHeap(g *GPU, ds []driver.Descriptor) (*DescHeap, error) {
	var layoutEntries []wgpu.BindGroupLayoutEntry
	entries := make([]descEntry, len(ds))
	binding := 0
	for i, d := range ds {
		entries[i] = descEntry{typ: d.Type, nr: d.Nr, len: d.Len, start: binding}
		for j := 0; j < d.Len; j++ {
			e := bindingType(d.Type)
			e.Binding = uint32(binding)
			layoutEntries = append(layoutEntries, e)
			binding++
		}
	}
	layout, err := g.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "ornament.descheap",
		Entries: layoutEntries,
	})
	if err != nil {
		return nil, err
	}
	return &DescHeap{gpu: g, layout: layout, entries: entries}, nil
}

// New creates enough storage for n copies of each descriptor.
func (h *DescHeap) New(n int) error {
	h.copies = make([]*heapCopy, n)
	nb := 0
	for _, e := range h.entries {
		nb += e.len
	}
	for i := range h.copies {
		h.copies[i] = &heapCopy{
			buffers:  make([]*wgpu.Buffer, nb),
			bufOff:   make([]int64, nb),
			bufSize:  make([]int64, nb),
			views:    make([]*wgpu.TextureView, nb),
			samplers: make([]*wgpu.Sampler, nb),
			stale:    true,
		}
	}
	return nil
}

func (h *DescHeap) find(nr int) *descEntry {
	for i := range h.entries {
		if h.entries[i].nr == nr {
			return &h.entries[i]
		}
	}
	return nil
}

// SetBuffer updates the buffer ranges referred by the given
// descriptor of the given heap copy.
func (h *DescHeap) SetBuffer(cpy, nr, start int, buf []driver.Buffer, off, size []int64) {
	e := h.find(nr)
	if e == nil {
		return
	}
	c := h.copies[cpy]
	for i, b := range buf {
		idx := e.start + start + i
		c.buffers[idx] = b.(*Buffer).buf
		c.bufOff[idx] = off[i]
		c.bufSize[idx] = size[i]
	}
	c.stale = true
}

// SetImage updates the image views referred by the given
// descriptor of the given heap copy.
func (h *DescHeap) SetImage(cpy, nr, start int, iv []driver.ImageView) {
	e := h.find(nr)
	if e == nil {
		return
	}
	c := h.copies[cpy]
	for i, v := range iv {
		c.views[e.start+start+i] = v.(*ImageView).view
	}
	c.stale = true
}

// SetSampler updates the samplers referred by the given descriptor
// of the given heap copy.
func (h *DescHeap) SetSampler(cpy, nr, start int, splr []driver.Sampler) {
	e := h.find(nr)
	if e == nil {
		return
	}
	c := h.copies[cpy]
	for i, s := range splr {
		c.samplers[e.start+start+i] = s.(*Sampler).splr
	}
	c.stale = true
}

// Count returns the number of heap copies created by New.
func (h *DescHeap) Count() int { return len(h.copies) }

// bindGroup rebuilds (if stale) and returns the wgpu bind group for
// heap copy cpy.
func (h *DescHeap) bindGroup(cpy int) (*wgpu.BindGroup, error) {
	if cpy < 0 || cpy >= len(h.copies) {
		return nil, fmt.Errorf("wgpu: DescHeap.bindGroup: copy index out of range (%d)", cpy)
	}
	c := h.copies[cpy]
	if !c.stale && c.group != nil {
		return c.group, nil
	}
	entries := make([]wgpu.BindGroupEntry, len(c.buffers))
	for i := range entries {
		entries[i].Binding = uint32(i)
		switch {
		case c.buffers[i] != nil:
			entries[i].Buffer = c.buffers[i]
			entries[i].Offset = uint64(c.bufOff[i])
			entries[i].Size = uint64(c.bufSize[i])
		case c.views[i] != nil:
			entries[i].TextureView = c.views[i]
		case c.samplers[i] != nil:
			entries[i].Sampler = c.samplers[i]
		}
	}
	g, err := h.gpu.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "ornament.descheap.bindgroup",
		Layout:  h.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	c.group = g
	c.stale = false
	return g, nil
}

// Destroy releases the bind group layout and any created bind
// groups.
func (h *DescHeap) Destroy() {
	for _, c := range h.copies {
		if c.group != nil {
			c.group.Release()
			c.group = nil
		}
	}
	if h.layout != nil {
		h.layout.Release()
		h.layout = nil
	}
}

// DescTable implements driver.DescTable.
// Each constituent heap maps one-to-one to a wgpu bind group index,
// in the order the heaps were passed to GPU.NewDescTable.
type DescTable struct {
	heaps []*DescHeap
}

// Destroy is a no-op: the constituent heaps own their GPU
// resources and are destroyed independently.
func (t *DescTable) Destroy() {}
