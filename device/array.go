// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package device

import (
	"unsafe"

	"github.com/gviegas/ornament/driver"
)

// noCopy makes go vet's copylocks check flag accidental copies of a
// LinearArray, the same trick sync.WaitGroup uses for the same
// purpose (LinearArray owns a driver.Buffer handle; copying the
// struct would alias that ownership).
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// LinearArray is a device-resident array of T: one contiguous
// allocation of len(T)·sizeof(T) bytes, uploaded from a host slice.
// Per spec.md §4.5, moves are supported (assign the struct through a
// pointer and zero the source) but copying an in-use LinearArray is
// a usage error.
type LinearArray[T any] struct {
	_   noCopy
	gpu driver.GPU
	buf driver.Buffer
	len int
}

// NewLinearArray allocates a device array of n elements of T and
// uploads data (which must have length n, or 0 to leave the array
// uninitialized).
func NewLinearArray[T any](gpu driver.GPU, data []T, n int) (*LinearArray[T], error) {
	if n <= 0 {
		return nil, ErrZeroLength
	}
	if len(data) != 0 && len(data) != n {
		return nil, ErrSizeMismatch
	}
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	buf, err := gpu.NewBuffer(elemSize*int64(n), false, driver.UShaderRead)
	if err != nil {
		return nil, err
	}
	a := &LinearArray[T]{gpu: gpu, buf: buf, len: n}
	if len(data) != 0 {
		if err := gpu.WriteBuffer(buf, 0, bytesOf(data)); err != nil {
			buf.Destroy()
			return nil, err
		}
	}
	return a, nil
}

// Buffer returns the underlying device buffer (the "dptr" half of
// spec.md's `(dptr, len)` pair).
func (a *LinearArray[T]) Buffer() driver.Buffer { return a.buf }

// Len returns the number of elements (the "len" half of the pair).
func (a *LinearArray[T]) Len() int { return a.len }

// Destroy releases the device allocation.
func (a *LinearArray[T]) Destroy() {
	if a.buf != nil {
		a.buf.Destroy()
		a.buf = nil
	}
}

// bytesOf reinterprets a slice of T as its raw bytes, for upload to
// the device. T must be a plain, non-pointer-bearing struct whose Go
// layout already matches the device's expected layout (package
// kernel's responsibility; see its doc comment).
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*elemSize)
}
