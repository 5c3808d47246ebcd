// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package device

import (
	"unsafe"

	"github.com/gviegas/ornament/driver"
)

// GlobalSlot is a typed binding to a named module-global symbol
// (spec.md §4.5's "global slot"), e.g. the per-iteration constants
// block. It wraps driver.GlobalSlot, which rejects a missing symbol
// at bind time; with driver/wgpu, T's size is not compared against a
// struct-typed symbol's WGSL layout. SetValue adds the
// single-value overwrite spec.md calls for, reinterpreting v's bytes
// directly rather than going through encoding/binary, since T's Go
// layout is expected to already match the device's (package kernel's
// contract).
type GlobalSlot[T any] struct {
	slot driver.GlobalSlot
}

// NewGlobalSlot binds name in code, sized for T.
func NewGlobalSlot[T any](gpu driver.GPU, code driver.ShaderCode, name string) (*GlobalSlot[T], error) {
	var zero T
	size := int64(unsafe.Sizeof(zero))
	slot, err := gpu.NewGlobalSlot(code, name, size)
	if err != nil {
		return nil, err
	}
	return &GlobalSlot[T]{slot: slot}, nil
}

// SetValue overwrites the slot's contents with v.
func (g *GlobalSlot[T]) SetValue(v *T) error {
	size := int(unsafe.Sizeof(*v))
	b := unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
	return g.slot.SetBytes(b)
}

// Driver returns the underlying driver.GlobalSlot, for binding into
// a descriptor heap.
func (g *GlobalSlot[T]) Driver() driver.GlobalSlot { return g.slot }

// Destroy releases the slot.
func (g *GlobalSlot[T]) Destroy() {
	if g.slot != nil {
		g.slot.Destroy()
		g.slot = nil
	}
}
