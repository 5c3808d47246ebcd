// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package config loads renderer defaults (camera parameters, State
// fields and the kernel module directory) from an optional TOML
// file. render.New/scene.NewScene work identically without one,
// using the hardcoded defaults below.
package config

import (
	"errors"

	"github.com/BurntSushi/toml"

	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

const cfgPrefix = "config: "

func newCfgErr(reason string) error { return errors.New(cfgPrefix + reason) }

// ErrNoKernelsDir is returned by render.NewFromConfigFile when
// KernelsDir was left empty in a loaded file.
var ErrNoKernelsDir = newCfgErr("kernelsDir not set")

// cameraConfig mirrors the seven parameters scene.NewCamera takes.
type cameraConfig struct {
	LookFrom    [3]float32 `toml:"look_from"`
	LookAt      [3]float32 `toml:"look_at"`
	Vup         [3]float32 `toml:"vup"`
	AspectRatio float32    `toml:"aspect_ratio"`
	Vfov        float32    `toml:"vfov"`
	Aperture    float32    `toml:"aperture"`
	FocusDist   float32    `toml:"focus_dist"`
}

// stateConfig mirrors the seven parameters scene.NewState takes.
type stateConfig struct {
	Width          int     `toml:"width"`
	Height         int     `toml:"height"`
	Depth          int     `toml:"depth"`
	Iterations     int     `toml:"iterations"`
	Gamma          float32 `toml:"gamma"`
	FlipY          bool    `toml:"flip_y"`
	RayCastEpsilon float32 `toml:"ray_cast_epsilon"`
}

// Config is the decoded contents of an ornament.toml file.
type Config struct {
	Camera     cameraConfig `toml:"camera"`
	State      stateConfig  `toml:"state"`
	KernelsDir string       `toml:"kernels_dir"`
}

// Default returns the hardcoded fallback Config used when no file
// is loaded: a camera at (0,0,3) looking down -Z at the origin,
// a 400x225 16:9 frame, depth 8, 100 iterations, gamma 2.0, no
// vertical flip, and kernelsDir "." (the working directory).
func Default() Config {
	return Config{
		Camera: cameraConfig{
			LookFrom:    [3]float32{0, 0, 3},
			LookAt:      [3]float32{0, 0, 0},
			Vup:         [3]float32{0, 1, 0},
			AspectRatio: 400.0 / 225.0,
			Vfov:        40,
			Aperture:    0,
			FocusDist:   10,
		},
		State: stateConfig{
			Width:          400,
			Height:         225,
			Depth:          8,
			Iterations:     100,
			Gamma:          2.0,
			FlipY:          false,
			RayCastEpsilon: 1e-3,
		},
		KernelsDir: ".",
	}
}

// Load decodes an ornament.toml file at path, falling back to
// Default for any table/field that is absent.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// NewCamera builds a *scene.Camera from the decoded camera table.
func (c Config) NewCamera() *scene.Camera {
	return scene.NewCamera(
		linear.V3(c.Camera.LookFrom),
		linear.V3(c.Camera.LookAt),
		linear.V3(c.Camera.Vup),
		c.Camera.AspectRatio,
		c.Camera.Vfov,
		c.Camera.Aperture,
		c.Camera.FocusDist,
	)
}

// NewState builds a *scene.State from the decoded state table.
func (c Config) NewState() (*scene.State, error) {
	return scene.NewState(
		c.State.Width,
		c.State.Height,
		c.State.Depth,
		c.State.Iterations,
		c.State.Gamma,
		c.State.FlipY,
		c.State.RayCastEpsilon,
	)
}

// NewScene builds an empty *scene.Scene from c's camera and state
// tables.
func (c Config) NewScene() (*scene.Scene, error) {
	cam := c.NewCamera()
	st, err := c.NewState()
	if err != nil {
		return nil, err
	}
	return scene.NewScene(cam, st)
}
