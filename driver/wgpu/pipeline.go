// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline implements driver.Pipeline.
type Pipeline struct {
	pl  *wgpu.ComputePipeline
	dev *wgpu.Device
	tab *DescTable
}

// Destroy releases the underlying wgpu compute pipeline.
func (p *Pipeline) Destroy() {
	if p.pl != nil {
		p.pl.Release()
		p.pl = nil
	}
}
