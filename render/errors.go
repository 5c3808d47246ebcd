// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package render implements the dispatch controller: the per-
// iteration loop that advances accumulation and drives the
// post-processing launch, on top of the device arrays package
// device uploads and the node/material/constants layouts package
// kernel defines.
package render

import "errors"

const rendPrefix = "render: "

func newRendErr(reason string) error { return errors.New(rendPrefix + reason) }

// ErrOutOfRange is returned by PathTracer.GetFrameBuffer when size
// does not match the framebuffer's exact byte count. The two-step
// null-probe query exists precisely to let callers avoid this.
var ErrOutOfRange = newRendErr("framebuffer size mismatch")

// ErrNoKernels is returned by New when the kernel module named by
// kernelsDir fails to load (a fatal, construction-time error; see
// spec's module-binding-error taxonomy).
var ErrNoKernels = newRendErr("failed to load kernel module")
