// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package device

import (
	"testing"

	"github.com/gviegas/ornament/driver"
	_ "github.com/gviegas/ornament/driver/wgpu"
)

// openGPU opens the first registered driver. These tests are
// skipped rather than failed when no device is available, since a
// wgpu adapter is frequently absent in CI/sandbox environments that
// otherwise run `go test` happily.
func openGPU(t *testing.T) driver.GPU {
	t.Helper()
	drvs := driver.Drivers()
	if len(drvs) == 0 {
		t.Skip("no driver registered")
	}
	gpu, err := drvs[0].Open()
	if err != nil {
		t.Skipf("Open: %v", err)
	}
	return gpu
}

func TestTargetWorkgroups(t *testing.T) {
	gpu := openGPU(t)
	tg, err := NewTarget(gpu, 3, 3)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	defer tg.Destroy()
	if n := tg.PixelCount(); n != 9 {
		t.Fatalf("PixelCount\nhave %d\nwant 9", n)
	}
	if n := tg.Workgroups(); n != 1 {
		t.Fatalf("Workgroups\nhave %d\nwant 1 (ceil(9/256))", n)
	}
	if n := tg.FramebufferSize(); n != 9*16 {
		t.Fatalf("FramebufferSize\nhave %d\nwant %d", n, 9*16)
	}
}

func TestTargetWorkgroupsLargeGrid(t *testing.T) {
	gpu := openGPU(t)
	tg, err := NewTarget(gpu, 512, 512)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	defer tg.Destroy()
	want := (512*512 + WorkgroupSize - 1) / WorkgroupSize
	if n := tg.Workgroups(); n != want {
		t.Fatalf("Workgroups\nhave %d\nwant %d", n, want)
	}
}

func TestLinearArrayRoundTrip(t *testing.T) {
	gpu := openGPU(t)
	type vec4 struct{ X, Y, Z, W float32 }
	data := []vec4{{1, 2, 3, 4}, {5, 6, 7, 8}}
	arr, err := NewLinearArray(gpu, data, len(data))
	if err != nil {
		t.Fatalf("NewLinearArray: %v", err)
	}
	defer arr.Destroy()
	if n := arr.Len(); n != 2 {
		t.Fatalf("Len\nhave %d\nwant 2", n)
	}
	if arr.Buffer().Size() != int64(len(data))*16 {
		t.Fatalf("Buffer size\nhave %d\nwant %d", arr.Buffer().Size(), len(data)*16)
	}
}

func TestLinearArrayRejectsBadLength(t *testing.T) {
	gpu := openGPU(t)
	if _, err := NewLinearArray[int](gpu, nil, 0); err != ErrZeroLength {
		t.Fatalf("NewLinearArray with n=0\nhave %v\nwant %v", err, ErrZeroLength)
	}
	if _, err := NewLinearArray(gpu, []int{1, 2}, 3); err != ErrSizeMismatch {
		t.Fatalf("NewLinearArray with mismatched data\nhave %v\nwant %v", err, ErrSizeMismatch)
	}
}

func TestGlobalSlotRoundTrip(t *testing.T) {
	gpu := openGPU(t)
	type constants struct{ A, B float32 }
	code, err := gpu.NewShaderCode([]byte("var<uniform> testGlobal: Constants;\nstruct Constants { a: f32, b: f32 }"))
	if err != nil {
		t.Fatalf("NewShaderCode: %v", err)
	}
	defer code.Destroy()
	slot, err := NewGlobalSlot[constants](gpu, code, "testGlobal")
	if err != nil {
		t.Fatalf("NewGlobalSlot: %v", err)
	}
	defer slot.Destroy()
	v := constants{A: 1, B: 2}
	if err := slot.SetValue(&v); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
}
