// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// GlobalSlot implements driver.GlobalSlot as a uniform buffer that
// the caller binds into the descriptor table alongside the pipeline's
// other resources (see render.PathTracer.bindResources, which binds
// the constants block's GlobalSlot at the fixed slot the kernel
// module expects).
type GlobalSlot struct {
	queue *wgpu.Queue
	buf   *wgpu.Buffer
	size  int64
}

// Size returns the size of the slot, in bytes.
func (s *GlobalSlot) Size() int64 { return s.size }

// SetBytes overwrites the slot's contents.
func (s *GlobalSlot) SetBytes(b []byte) error {
	if int64(len(b)) != s.size {
		return fmt.Errorf("wgpu: GlobalSlot.SetBytes: length mismatch (have %d, want %d)", len(b), s.size)
	}
	s.queue.WriteBuffer(s.buf, 0, b)
	return nil
}

// Destroy releases the underlying wgpu buffer.
func (s *GlobalSlot) Destroy() {
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
}
