// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

// GPU implements driver.GPU.
type GPU struct {
	drv    *Driver
	dev    *wgpu.Device
	queue  *wgpu.Queue
	limits driver.Limits
}

// Driver returns the driver.Driver that owns g.
func (g *GPU) Driver() driver.Driver { return g.drv }

// Limits returns the implementation limits.
func (g *GPU) Limits() driver.Limits { return g.limits }

// Commit submits the given command buffers for execution and
// reports the outcome on ch.
func (g *GPU) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	bufs := make([]*wgpu.CommandBuffer, len(cb))
	for i, c := range cb {
		bufs[i] = c.(*CmdBuffer).finish()
	}
	g.queue.Submit(bufs...)
	go func() {
		g.dev.Poll(true, nil)
		ch <- nil
	}()
}

// NewCmdBuffer creates a new command buffer.
func (g *GPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	return &CmdBuffer{gpu: g}, nil
}

// NewShaderCode compiles a WGSL module.
// data is the UTF-8 source of the module referenced by
// render.New's kernelsDir argument (ornament_kernels.co, which for
// this backend is WGSL text rather than a binary blob).
func (g *GPU) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	mod, err := g.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ornament_kernels",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: string(data)},
	})
	if err != nil {
		return nil, err
	}
	return &ShaderCode{mod: mod, source: string(data)}, nil
}

// NewGlobalSlot binds the constants block, implemented as a
// uniform buffer the caller binds through a DescHeap.
// WGSL has no notion of a free-standing named device-global the
// way a HIP/CUDA module does, so this backend's binding of "a
// named symbol exposed by the kernel module" is: the symbol must
// appear as a `var<uniform> name: T;` declaration in the module
// source, and the slot is the uniform buffer the caller is
// expected to bind at group 0, binding 0 (render's nrConstants).
func (g *GPU) NewGlobalSlot(code driver.ShaderCode, name string, size int64) (driver.GlobalSlot, error) {
	sc := code.(*ShaderCode)
	if !sc.hasGlobal(name, size) {
		return nil, driver.ErrFatal
	}
	buf, err := g.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            name,
		Size:             uint64(size),
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &GlobalSlot{queue: g.queue, buf: buf, size: size}, nil
}

// NewDescHeap creates a descriptor heap (a wgpu bind group layout
// plus the per-copy entry storage used to build bind groups).
func (g *GPU) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	return newDescHeap(g, ds)
}

// NewDescTable creates a descriptor table spanning the given heaps.
// Each heap maps to one wgpu bind group (wgpu groups descriptors
// by bind group index, which this backend assigns in dh order).
func (g *GPU) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) {
	heaps := make([]*DescHeap, len(dh))
	for i, h := range dh {
		heaps[i] = h.(*DescHeap)
	}
	return &DescTable{heaps: heaps}, nil
}

// NewPipeline creates a compute pipeline from the given state.
func (g *GPU) NewPipeline(state *driver.CompState) (driver.Pipeline, error) {
	sc := state.Func.Code.(*ShaderCode)
	pl, err := g.dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: state.Func.Name,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     sc.mod,
			EntryPoint: state.Func.Name,
		},
	})
	if err != nil {
		return nil, err
	}
	tab, _ := state.Desc.(*DescTable)
	return &Pipeline{pl: pl, dev: g.dev, tab: tab}, nil
}

// NewBuffer creates a new buffer.
func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	return newBuffer(g, size, visible, usg)
}

// WriteBuffer uploads data to buf at the given offset via a direct
// queue write.
func (g *GPU) WriteBuffer(buf driver.Buffer, off int64, data []byte) error {
	g.queue.WriteBuffer(buf.(*Buffer).buf, uint64(off), data)
	return nil
}

// ReadBuffer maps buf for reading, blocks until the map completes,
// and copies len(dst) bytes starting at off into dst. buf must have
// been created with visible = true (render's readback staging
// buffer is the only caller of this method).
func (g *GPU) ReadBuffer(buf driver.Buffer, off int64, dst []byte) error {
	b := buf.(*Buffer)
	done := make(chan wgpu.BufferMapAsyncStatus, 1)
	err := b.buf.MapAsync(wgpu.MapModeRead, uint64(off), uint64(len(dst)), func(status wgpu.BufferMapAsyncStatus) {
		done <- status
	})
	if err != nil {
		return err
	}
	g.dev.Poll(true, nil)
	if status := <-done; status != wgpu.BufferMapAsyncStatusSuccess {
		return driver.ErrFatal
	}
	view := b.buf.GetMappedRange(uint(off), uint(len(dst)))
	copy(dst, view)
	b.buf.Unmap()
	return nil
}

// NewImage creates a new 2-D image.
func (g *GPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, usg driver.Usage) (driver.Image, error) {
	return newImage(g, pf, size, usg)
}

// NewSampler creates a new sampler.
func (g *GPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	return newSampler(g, spln)
}
