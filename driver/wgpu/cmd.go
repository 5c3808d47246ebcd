// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

// CmdBuffer implements driver.CmdBuffer.
//
// wgpu has no notion of re-recording a command buffer: Begin/Reset
// just (re)create the underlying command encoder, and End/finish
// consume it into a one-shot wgpu.CommandBuffer, matching the
// record-once-submit-once pattern render.PathTracer uses per
// iteration.
type CmdBuffer struct {
	gpu     *GPU
	enc     *wgpu.CommandEncoder
	pass    *wgpu.ComputePassEncoder
	curPl   *Pipeline
	curTab  *DescTable
}

// Begin prepares the command buffer for recording.
func (c *CmdBuffer) Begin() error {
	enc, err := c.gpu.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "ornament.cmdbuffer",
	})
	if err != nil {
		return err
	}
	c.enc = enc
	return nil
}

// BeginWork begins compute work.
// wait has no effect for this backend: wgpu orders commands within
// a single command buffer implicitly.
func (c *CmdBuffer) BeginWork(wait bool) {
	c.pass = c.enc.BeginComputePass(nil)
}

// EndWork ends the current compute work.
func (c *CmdBuffer) EndWork() {
	if c.pass != nil {
		c.pass.End()
		c.pass = nil
	}
}

// BeginBlit begins data transfer.
// Copy/fill commands on wgpu do not require an explicit pass, so
// this is a no-op beyond bookkeeping.
func (c *CmdBuffer) BeginBlit(wait bool) {}

// EndBlit ends the current data transfer.
func (c *CmdBuffer) EndBlit() {}

// SetPipeline sets the compute pipeline.
func (c *CmdBuffer) SetPipeline(pl driver.Pipeline) {
	p := pl.(*Pipeline)
	c.curPl = p
	c.pass.SetPipeline(p.pl)
}

// SetDescTableComp sets a descriptor table range for the compute
// pipeline.
// heapCopy selects, per heap in the table (in table order starting
// at start), which copy of that heap to bind as the corresponding
// wgpu bind group.
func (c *CmdBuffer) SetDescTableComp(table driver.DescTable, start int, heapCopy []int) {
	t := table.(*DescTable)
	c.curTab = t
	for i, cpy := range heapCopy {
		h := t.heaps[start+i]
		bg, err := h.bindGroup(cpy)
		if err != nil {
			// Descriptor tables are built from already-validated
			// heaps; a failure here means the caller asked for a
			// copy index that New never allocated.
			panic(err)
		}
		c.pass.SetBindGroup(uint32(start+i), bg, nil)
	}
}

// Dispatch dispatches compute workgroups.
func (c *CmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int) {
	c.pass.DispatchWorkgroups(uint32(grpCountX), uint32(grpCountY), uint32(grpCountZ))
}

// CopyBuffer copies data between buffers.
func (c *CmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	from := param.From.(*Buffer).buf
	to := param.To.(*Buffer).buf
	c.enc.CopyBufferToBuffer(from, uint64(param.FromOff), to, uint64(param.ToOff), uint64(param.Size))
}

// CopyBufToImg copies data from a buffer to an image, honoring the
// pitched row stride described by param.
func (c *CmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {
	img := param.Img.(*Image)
	c.enc.CopyBufferToTexture(
		&wgpu.ImageCopyBuffer{
			Buffer: param.Buf.(*Buffer).buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       uint64(param.BufOff),
				BytesPerRow:  uint32(param.Stride),
				RowsPerImage: uint32(param.Size.Height),
			},
		},
		&wgpu.ImageCopyTexture{Texture: img.tex},
		&wgpu.Extent3D{
			Width:              uint32(param.Size.Width),
			Height:             uint32(param.Size.Height),
			DepthOrArrayLayers: 1,
		},
	)
}

// Fill fills a buffer range with copies of a byte value.
// Non-zero values are uncommon (render.PathTracer only ever zeroes
// its framebuffer, when Render runs with zero iterations) and are
// implemented via a queue write rather than an encoder command,
// since wgpu's ClearBuffer only clears to zero.
func (c *CmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {
	b := buf.(*Buffer)
	if value == 0 {
		c.enc.ClearBuffer(b.buf, uint64(off), uint64(size))
		return
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = value
	}
	c.gpu.queue.WriteBuffer(b.buf, uint64(off), data)
}

// Barrier inserts a number of global barriers.
// wgpu tracks resource hazards automatically within and across
// passes of the same command buffer, so this is a no-op.
func (c *CmdBuffer) Barrier(b []driver.Barrier) {}

// End ends command recording and prepares the command buffer for
// execution.
func (c *CmdBuffer) End() error {
	return nil
}

// finish consumes the recorded commands into a submittable
// wgpu.CommandBuffer.
func (c *CmdBuffer) finish() *wgpu.CommandBuffer {
	cb, _ := c.enc.Finish(nil)
	c.enc = nil
	return cb
}

// Reset discards all recorded commands.
func (c *CmdBuffer) Reset() error {
	c.enc = nil
	c.pass = nil
	c.curPl = nil
	c.curTab = nil
	return nil
}

// Destroy releases any buffer resources still held by the command
// buffer.
func (c *CmdBuffer) Destroy() {
	c.Reset()
}
