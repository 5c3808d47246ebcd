// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package render

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gviegas/ornament/driver"
	_ "github.com/gviegas/ornament/driver/wgpu"
	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

// writeFixtureConfig writes a minimal ornament.toml overriding only
// kernels_dir, standing in for a user-supplied configuration file.
func writeFixtureConfig(t *testing.T, kernelsDir string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ornament.toml")
	src := "kernels_dir = " + strconv.Quote(kernelsDir) + "\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// openGPU opens the first registered driver, skipping the test
// rather than failing it when no wgpu adapter is available (see
// device's device_test.go for the same rationale).
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

// writeFixtureModule writes a minimal WGSL module exposing the
// symbols New binds by name, standing in for a real
// ornament_kernels.co (compiling the actual path-tracing/post-
// processing kernels is out of scope for this module; see
// kernel/shaders/ornament_kernels.wgsl for the real contract).
func writeFixtureModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	const src = `
struct Constants {
	pad: array<vec4<f32>, 9>,
}
@group(0) @binding(0) var<uniform> constantParams: Constants;
@compute @workgroup_size(256)
fn pathTracingKernel(@builtin(global_invocation_id) gid: vec3<u32>) {}
@compute @workgroup_size(256)
fn postProcessingKernel(@builtin(global_invocation_id) gid: vec3<u32>) {}
`
	if err := os.WriteFile(filepath.Join(dir, kernelModuleName), []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return dir
}

func newTestScene(t *testing.T, iterations int) *scene.Scene {
	t.Helper()
	cam := scene.NewCamera(linear.V3{0, 0, 3}, linear.V3{}, linear.V3{0, 1, 0}, 1, 60, 0, 3)
	st, err := scene.NewState(2, 2, 1, iterations, 1, false, 1e-4)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	sc, err := scene.NewScene(cam, st)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	mat := sc.DiffuseLight(scene.RGB(1, 1, 1))
	sph, err := sc.Sphere(linear.V3{}, 1, mat)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	if err := sc.Attach(sph); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return sc
}

func TestNewAndRenderZeroIterations(t *testing.T) {
	gpu := openGPU(t)
	dir := writeFixtureModule(t)
	sc := newTestScene(t, 0)

	pt, err := New(gpu, sc, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer pt.Destroy()

	if err := pt.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var required int64
	if err := pt.GetFrameBuffer(nil, 0, &required); err != nil {
		t.Fatalf("GetFrameBuffer (probe): %v", err)
	}
	if required != 2*2*16 {
		t.Fatalf("required\nhave %d\nwant %d", required, 2*2*16)
	}

	dst := make([]byte, required)
	if err := pt.GetFrameBuffer(dst, required, nil); err != nil {
		t.Fatalf("GetFrameBuffer: %v", err)
	}
	for _, b := range dst {
		if b != 0 {
			t.Fatalf("zero-iteration framebuffer must be all-zero, found byte %d", b)
		}
	}
}

func TestGetFrameBufferRejectsWrongSize(t *testing.T) {
	gpu := openGPU(t)
	dir := writeFixtureModule(t)
	sc := newTestScene(t, 0)

	pt, err := New(gpu, sc, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer pt.Destroy()

	dst := make([]byte, 4)
	if err := pt.GetFrameBuffer(dst, 4, nil); err != ErrOutOfRange {
		t.Fatalf("GetFrameBuffer with wrong size\nhave %v\nwant %v", err, ErrOutOfRange)
	}
}

func TestRenderOneIteration(t *testing.T) {
	gpu := openGPU(t)
	dir := writeFixtureModule(t)
	sc := newTestScene(t, 1)

	pt, err := New(gpu, sc, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer pt.Destroy()

	if err := pt.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if sc.Camera().Dirty() || sc.State().Dirty() {
		t.Fatalf("Render must clear both dirty flags")
	}
	if sc.State().CurrentIteration() != 1 {
		t.Fatalf("CurrentIteration\nhave %d\nwant 1", sc.State().CurrentIteration())
	}
}

func TestNewFromConfigFile(t *testing.T) {
	gpu := openGPU(t)
	dir := writeFixtureModule(t)
	sc := newTestScene(t, 0)
	path := writeFixtureConfig(t, dir)

	pt, err := NewFromConfigFile(gpu, sc, path)
	if err != nil {
		t.Fatalf("NewFromConfigFile: %v", err)
	}
	defer pt.Destroy()

	if err := pt.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestNewFromConfigFileDefaultsWithoutPath(t *testing.T) {
	gpu := openGPU(t)
	dir := writeFixtureModule(t)
	sc := newTestScene(t, 0)

	if _, err := NewFromConfigFile(gpu, sc, ""); err == nil {
		t.Fatalf("NewFromConfigFile with empty path: want error (config.Default's \".\" kernelsDir won't contain the fixture module), have nil")
	}

	pt, err := NewFromConfigFile(gpu, sc, writeFixtureConfig(t, dir))
	if err != nil {
		t.Fatalf("NewFromConfigFile: %v", err)
	}
	pt.Destroy()
}
