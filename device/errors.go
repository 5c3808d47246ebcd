// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package device manages the GPU-resident arrays, global slots and
// textures the path tracer uploads once per scene (and, for the
// three per-pixel targets, clears on a dirty restart). It is built
// directly on the driver interfaces; it never issues ray-tracing
// work itself.
package device

import "errors"

const devPrefix = "device: "

func newDevErr(reason string) error { return errors.New(devPrefix + reason) }

// ErrSizeMismatch is returned when a byte payload does not match the
// size a LinearArray or GlobalSlot was allocated with.
var ErrSizeMismatch = newDevErr("size mismatch")

// ErrZeroLength is returned when a LinearArray is allocated with a
// non-positive length.
var ErrZeroLength = newDevErr("zero or negative length")
