// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wgpu implements the driver interfaces on top of
// github.com/cogentcore/webgpu/wgpu, targeting a headless compute
// device (no swapchain/presentation — this domain never draws to
// screen; see the package doc of driver for the interfaces this
// backend implements).
package wgpu

import (
	"errors"
	"log"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gviegas/ornament/driver"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver using wgpu-native.
type Driver struct {
	inst *wgpu.Instance
	gpu  *GPU
}

// Name is the driver's registered name.
const Name = "wgpu"

// Open initializes the driver, requesting a high-performance
// adapter with no surface (compute-only).
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu != nil {
		return d.gpu, nil
	}
	d.inst = wgpu.CreateInstance(nil)
	if d.inst == nil {
		return nil, driver.ErrNotInstalled
	}
	adapter, err := d.inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		return nil, errors.Join(driver.ErrNoDevice, err)
	}
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "ornament",
	})
	if err != nil || dev == nil {
		return nil, errors.Join(driver.ErrNoDevice, err)
	}
	g := &GPU{drv: d, dev: dev, queue: dev.GetQueue(), limits: limitsFrom(adapter)}
	d.gpu = g
	return g, nil
}

// Name returns the driver's name.
func (d *Driver) Name() string { return Name }

// Close deinitializes the driver.
func (d *Driver) Close() {
	if d.gpu != nil {
		d.gpu.dev.Release()
		d.gpu = nil
	}
	if d.inst != nil {
		d.inst.Release()
		d.inst = nil
	}
	log.Printf("[wgpu] driver closed")
}

func limitsFrom(adapter *wgpu.Adapter) driver.Limits {
	lim := adapter.GetLimits()
	return driver.Limits{
		MaxImage2D:      int(lim.Limits.MaxTextureDimension2D),
		MaxDescHeaps:    int(lim.Limits.MaxBindGroups),
		MaxDBuffer:      int(lim.Limits.MaxStorageBuffersPerShaderStage),
		MaxDImage:       int(lim.Limits.MaxStorageTexturesPerShaderStage),
		MaxDTexture:     int(lim.Limits.MaxSampledTexturesPerShaderStage),
		MaxDSampler:     int(lim.Limits.MaxSamplersPerShaderStage),
		MaxDBufferRange: int64(lim.Limits.MaxStorageBufferBindingSize),
		MinPitchAlign:   256, // COPY_BYTES_PER_ROW_ALIGNMENT, per the wgpu spec.
		MaxDispatch:     [3]int{65535, 65535, 65535},
	}
}
