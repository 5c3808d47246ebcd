// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.KernelsDir != "." {
		t.Fatalf("KernelsDir\nhave %q\nwant \".\"", c.KernelsDir)
	}
	sc, err := c.NewScene()
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	w, h := sc.State().Resolution()
	if w != 400 || h != 225 {
		t.Fatalf("Resolution\nhave (%d %d)\nwant (400 225)", w, h)
	}
}

func TestLoadOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ornament.toml")
	const src = `
kernels_dir = "/opt/kernels"

[state]
width = 64
height = 64
depth = 4
iterations = 10
gamma = 1.0
flip_y = true
ray_cast_epsilon = 1e-4
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.KernelsDir != "/opt/kernels" {
		t.Fatalf("KernelsDir\nhave %q\nwant \"/opt/kernels\"", c.KernelsDir)
	}
	st, err := c.NewState()
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	w, h := st.Resolution()
	if w != 64 || h != 64 {
		t.Fatalf("Resolution\nhave (%d %d)\nwant (64 64)", w, h)
	}
	if !st.FlipY() {
		t.Fatalf("FlipY\nhave false\nwant true")
	}
	// Camera table was absent from the file, so it must retain the
	// Default() values Load pre-fills c with before decoding.
	if c.Camera.Vfov != 40 {
		t.Fatalf("Camera.Vfov\nhave %v\nwant 40 (unset table keeps default)", c.Camera.Vfov)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml")); err == nil {
		t.Fatal("Load with missing file: want error, have nil")
	}
}
