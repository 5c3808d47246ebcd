// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wgpu

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderCode implements driver.ShaderCode.
// It wraps a single WGSL module that may expose more than one
// compute entry point (pathTracingKernel, postProcessingKernel),
// plus whatever var<uniform>/var<storage> globals the module
// declares at the top level (constantParams and friends).
type ShaderCode struct {
	mod    *wgpu.ShaderModule
	source string
}

// Destroy releases the shader module.
func (s *ShaderCode) Destroy() {
	if s.mod != nil {
		s.mod.Release()
		s.mod = nil
	}
}

// hasGlobal reports whether the module declares a uniform global
// named name. The match is on the declaration text
// ("var<uniform> name:"); size is not compared against the WGSL
// struct layout. Only when that text is absent does
// hasSizedGlobal consult size, and then only for an inline array
// type.
//
// This is deliberately textual rather than a full WGSL parse: the
// module is produced by the same build that produces the Go struct
// layouts in package kernel, so the only failure mode this guards
// against is the two drifting apart (a stale .co against a newer
// kernel package), not arbitrary WGSL.
func (s *ShaderCode) hasGlobal(name string, size int64) bool {
	needle := "var<uniform> " + name + ":"
	if strings.Contains(s.source, needle) {
		return true
	}
	// Allow no-space variants ("var<uniform>name:").
	needle = "var<uniform>" + name + ":"
	return strings.Contains(s.source, needle) || hasSizedGlobal(s.source, name, size)
}

// hasSizedGlobal falls back to a looser scan that tolerates an
// inline array-size annotation, e.g. "var<uniform> constantParams:
// array<u32, 64>;" used by some generated modules.
func hasSizedGlobal(source, name string, size int64) bool {
	idx := strings.Index(source, name+":")
	if idx < 0 {
		return false
	}
	rest := source[idx+len(name)+1:]
	end := strings.IndexByte(rest, ';')
	if end < 0 {
		return false
	}
	decl := rest[:end]
	return strings.Contains(decl, strconv.FormatInt(size, 10)) || !strings.Contains(decl, "array")
}
