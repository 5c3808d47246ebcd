// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

// Buffer implements driver.Buffer.
type Buffer struct {
	gpu     *GPU
	buf     *wgpu.Buffer
	size    int64
	visible bool
}

func usageFlags(visible bool, usg driver.Usage) wgpu.BufferUsage {
	f := wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	if usg&driver.UShaderConst != 0 {
		f |= wgpu.BufferUsageUniform
	} else {
		f |= wgpu.BufferUsageStorage
	}
	if visible {
		f |= wgpu.BufferUsageMapRead
	}
	return f
}

func newBuffer(g *GPU, size int64, visible bool, usg driver.Usage) (*Buffer, error) {
	buf, err := g.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "ornament.buffer",
		Size:             uint64(size),
		Usage:            usageFlags(visible, usg),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &Buffer{gpu: g, buf: buf, size: size, visible: visible}, nil
}

// Size returns the size of the buffer, in bytes.
func (b *Buffer) Size() int64 { return b.size }

// Destroy releases the underlying wgpu buffer.
func (b *Buffer) Destroy() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
