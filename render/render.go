// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package render

import (
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gviegas/ornament/bvh"
	"github.com/gviegas/ornament/config"
	"github.com/gviegas/ornament/device"
	"github.com/gviegas/ornament/driver"
	"github.com/gviegas/ornament/kernel"
	"github.com/gviegas/ornament/linear"
	"github.com/gviegas/ornament/scene"
)

// kernelModuleName is the compiled GPU module render.New expects to
// find under kernelsDir.
const kernelModuleName = "ornament_kernels.co"

// Descriptor numbers, matching the bind-group layout documented in
// kernel/shaders/ornament_kernels.wgsl.
const (
	nrConstants = iota
	nrTLASNodes
	nrBLASNodes
	nrNormals
	nrNormalIndices
	nrUVs
	nrUVIndices
	nrTransforms
	nrMaterials
	nrTextures
	nrSamplers
	nrAccumulation
	nrRNGSeed
	nrFramebuffer
)

// PathTracer is the dispatch controller (spec's component 6): it
// owns the device-resident BVH/material/texture/target arrays built
// from one scene.Scene and drives the per-iteration accumulation
// loop against a loaded kernel module.
//
// A PathTracer must not be used concurrently with itself, nor while
// the scene.Scene it was built from is being mutated from another
// goroutine.
type PathTracer struct {
	gpu   driver.GPU
	scene *scene.Scene

	buildID uuid.UUID

	code      driver.ShaderCode
	constants *device.GlobalSlot[kernel.Constants]

	tlasNodes     *device.LinearArray[kernel.BVHNode]
	blasNodes     *device.LinearArray[kernel.BVHNode]
	normals       *device.LinearArray[linear.V3]
	normalIndices *device.LinearArray[uint32]
	uvs           *device.LinearArray[[2]float32]
	uvIndices     *device.LinearArray[uint32]
	transforms    *device.LinearArray[linear.M4]
	materials     *device.LinearArray[kernel.Material]
	textures      *device.TextureSet

	target *device.Target

	heap    driver.DescHeap
	table   driver.DescTable
	tracePL driver.Pipeline
	postPL  driver.Pipeline
}

// New builds the BVH from sc's attached shapes, uploads every
// device array it requires, and loads the kernel module found at
// <kernelsDir>/ornament_kernels.co. Any failure here is fatal: no
// partially-built PathTracer is returned.
func New(gpu driver.GPU, sc *scene.Scene, kernelsDir string) (*PathTracer, error) {
	b, err := bvh.Build(sc)
	if err != nil {
		return nil, err
	}

	p := &PathTracer{gpu: gpu, scene: sc, buildID: uuid.New()}
	log.Printf("render: building path tracer %s", p.buildID)

	if err := p.uploadArrays(b); err != nil {
		return nil, err
	}

	width, height := sc.State().Resolution()
	p.target, err = device.NewTarget(gpu, width, height)
	if err != nil {
		p.Destroy()
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(kernelsDir, kernelModuleName))
	if err != nil {
		p.Destroy()
		return nil, ErrNoKernels
	}
	p.code, err = gpu.NewShaderCode(data)
	if err != nil {
		p.Destroy()
		return nil, ErrNoKernels
	}
	p.constants, err = device.NewGlobalSlot[kernel.Constants](gpu, p.code, "constantParams")
	if err != nil {
		p.Destroy()
		return nil, ErrNoKernels
	}

	if err := p.bindResources(); err != nil {
		p.Destroy()
		return nil, err
	}
	if err := p.createPipelines(); err != nil {
		p.Destroy()
		return nil, err
	}

	log.Printf("render: path tracer %s ready (%d TLAS nodes, %d BLAS nodes, %d materials, %d textures)",
		p.buildID, len(b.TLASNodes), len(b.BLASNodes), len(b.Materials), len(b.Textures))
	return p, nil
}

// NewFromConfigFile behaves like New, except kernelsDir is resolved
// from an ornament.toml file at path instead of being passed
// directly: path is read with config.Load, or config.Default is used
// when path is empty (no file to read). sc is still the caller's own
// scene.Scene — Config only supplies defaulted construction
// parameters (see config.Config.NewCamera/NewState/NewScene), so
// callers that also want the config's camera/state defaults should
// build sc from the same Config via c.NewScene before calling New or
// this function.
func NewFromConfigFile(gpu driver.GPU, sc *scene.Scene, path string) (*PathTracer, error) {
	c := config.Default()
	if path != "" {
		var err error
		c, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if c.KernelsDir == "" {
		return nil, config.ErrNoKernelsDir
	}
	return New(gpu, sc, c.KernelsDir)
}

func orOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func (p *PathTracer) uploadArrays(b *bvh.BVH) (err error) {
	tlas := kernel.EncodeNodes(b.TLASNodes)
	if p.tlasNodes, err = device.NewLinearArray(p.gpu, tlas, orOne(len(tlas))); err != nil {
		return err
	}
	blas := kernel.EncodeNodes(b.BLASNodes)
	if p.blasNodes, err = device.NewLinearArray(p.gpu, blas, orOne(len(blas))); err != nil {
		return err
	}
	if p.normals, err = device.NewLinearArray(p.gpu, b.Normals, orOne(len(b.Normals))); err != nil {
		return err
	}
	if p.normalIndices, err = device.NewLinearArray(p.gpu, b.NormalIndices, orOne(len(b.NormalIndices))); err != nil {
		return err
	}
	if p.uvs, err = device.NewLinearArray(p.gpu, b.UVs, orOne(len(b.UVs))); err != nil {
		return err
	}
	if p.uvIndices, err = device.NewLinearArray(p.gpu, b.UVIndices, orOne(len(b.UVIndices))); err != nil {
		return err
	}
	if p.transforms, err = device.NewLinearArray(p.gpu, b.Transforms, orOne(len(b.Transforms))); err != nil {
		return err
	}
	materials := kernel.EncodeMaterials(b.Materials)
	if p.materials, err = device.NewLinearArray(p.gpu, materials, orOne(len(materials))); err != nil {
		return err
	}
	if p.textures, err = device.NewTextureSet(p.gpu, b.Textures); err != nil {
		return err
	}
	return nil
}

// bindResources builds the single descriptor heap/table this
// PathTracer uses and binds every static resource into its one
// copy. The constants block, accumulation, rngSeed and framebuffer
// arrays are the only resources that change after this point (the
// first three are overwritten in place every iteration; the
// descriptor bindings themselves never move).
func (p *PathTracer) bindResources() error {
	textureCount := orOne(p.textures.Count())
	descs := []driver.Descriptor{
		{Type: driver.DBuffer, Nr: nrConstants, Len: 1},
		{Type: driver.DBuffer, Nr: nrTLASNodes, Len: 1},
		{Type: driver.DBuffer, Nr: nrBLASNodes, Len: 1},
		{Type: driver.DBuffer, Nr: nrNormals, Len: 1},
		{Type: driver.DBuffer, Nr: nrNormalIndices, Len: 1},
		{Type: driver.DBuffer, Nr: nrUVs, Len: 1},
		{Type: driver.DBuffer, Nr: nrUVIndices, Len: 1},
		{Type: driver.DBuffer, Nr: nrTransforms, Len: 1},
		{Type: driver.DBuffer, Nr: nrMaterials, Len: 1},
		{Type: driver.DTexture, Nr: nrTextures, Len: textureCount},
		{Type: driver.DSampler, Nr: nrSamplers, Len: textureCount},
		{Type: driver.DBuffer, Nr: nrAccumulation, Len: 1},
		{Type: driver.DBuffer, Nr: nrRNGSeed, Len: 1},
		{Type: driver.DBuffer, Nr: nrFramebuffer, Len: 1},
	}
	heap, err := p.gpu.NewDescHeap(descs)
	if err != nil {
		return err
	}
	p.heap = heap
	if err := heap.New(1); err != nil {
		return err
	}
	table, err := p.gpu.NewDescTable([]driver.DescHeap{heap})
	if err != nil {
		return err
	}
	p.table = table

	setBuf := func(nr int, buf driver.Buffer) {
		heap.SetBuffer(0, nr, 0, []driver.Buffer{buf}, []int64{0}, []int64{buf.Size()})
	}
	setBuf(nrConstants, p.constants.Driver())
	setBuf(nrTLASNodes, p.tlasNodes.Buffer())
	setBuf(nrBLASNodes, p.blasNodes.Buffer())
	setBuf(nrNormals, p.normals.Buffer())
	setBuf(nrNormalIndices, p.normalIndices.Buffer())
	setBuf(nrUVs, p.uvs.Buffer())
	setBuf(nrUVIndices, p.uvIndices.Buffer())
	setBuf(nrTransforms, p.transforms.Buffer())
	setBuf(nrMaterials, p.materials.Buffer())
	setBuf(nrAccumulation, p.target.Accumulation())
	setBuf(nrRNGSeed, p.target.RNGSeed())
	setBuf(nrFramebuffer, p.target.Framebuffer())
	if n := p.textures.Count(); n > 0 {
		heap.SetImage(0, nrTextures, 0, p.textures.Views())
		heap.SetSampler(0, nrSamplers, 0, p.textures.Samplers())
	}
	return nil
}

func (p *PathTracer) createPipelines() (err error) {
	p.tracePL, err = p.gpu.NewPipeline(&driver.CompState{
		Func: driver.ShaderFunc{Code: p.code, Name: "pathTracingKernel"},
		Desc: p.table,
	})
	if err != nil {
		return err
	}
	p.postPL, err = p.gpu.NewPipeline(&driver.CompState{
		Func: driver.ShaderFunc{Code: p.code, Name: "postProcessingKernel"},
		Desc: p.table,
	})
	return err
}

// Render executes exactly state.Iterations() path-tracing launches
// followed by one post-processing launch, per the per-iteration
// loop: dirty detection resets currentIteration, the constants
// block is re-uploaded every iteration, and both dirty flags are
// cleared regardless of whether they were set, so a single mutation
// restarts accumulation exactly once.
//
// iterations == 0 is special-cased (the source treats it as an
// empty accumulation loop followed by a divide-by-zero in
// post-processing): Render skips both the accumulation loop and the
// post-processing launch and instead zeroes the framebuffer.
func (p *PathTracer) Render() error {
	cam := p.scene.Camera()
	st := p.scene.State()

	if st.Iterations() == 0 {
		return p.zeroFramebuffer()
	}

	for i := 0; i < st.Iterations(); i++ {
		if cam.Dirty() || st.Dirty() {
			st.ResetIterations()
		}
		st.NextIteration()

		c := kernel.EncodeConstants(cam, st, p.textures.Count())
		if err := p.constants.SetValue(&c); err != nil {
			return err
		}
		if err := p.launch(p.tracePL); err != nil {
			return err
		}

		cam.ClearDirty()
		st.ClearDirty()
	}

	return p.launch(p.postPL)
}

func (p *PathTracer) launch(pl driver.Pipeline) error {
	cb, err := p.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}
	cb.BeginWork(false)
	cb.SetPipeline(pl)
	cb.SetDescTableComp(p.table, 0, []int{0})
	cb.Dispatch(p.target.Workgroups(), 1, 1)
	cb.EndWork()
	if err := cb.End(); err != nil {
		return err
	}
	done := make(chan error, 1)
	p.gpu.Commit([]driver.CmdBuffer{cb}, done)
	return <-done
}

func (p *PathTracer) zeroFramebuffer() error {
	cb, err := p.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}
	cb.BeginBlit(false)
	cb.Fill(p.target.Framebuffer(), 0, 0, p.target.FramebufferSize())
	cb.EndBlit()
	if err := cb.End(); err != nil {
		return err
	}
	done := make(chan error, 1)
	p.gpu.Commit([]driver.CmdBuffer{cb}, done)
	return <-done
}

// GetFrameBuffer implements the two-step null-probe query: when dst
// is nil, the required byte count is written into *outSize and no
// copy occurs; otherwise size must equal that count exactly, or
// ErrOutOfRange is returned, and exactly size bytes are copied
// device-to-host into dst.
func (p *PathTracer) GetFrameBuffer(dst []byte, size int64, outSize *int64) error {
	required := p.target.FramebufferSize()
	if dst == nil {
		if outSize != nil {
			*outSize = required
		}
		return nil
	}
	if size != required {
		return ErrOutOfRange
	}

	staging, err := p.gpu.NewBuffer(required, true, driver.UGeneric)
	if err != nil {
		return err
	}
	defer staging.Destroy()

	cb, err := p.gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}
	cb.BeginBlit(false)
	cb.CopyBuffer(&driver.BufferCopy{From: p.target.Framebuffer(), To: staging, Size: required})
	cb.EndBlit()
	if err := cb.End(); err != nil {
		return err
	}
	done := make(chan error, 1)
	p.gpu.Commit([]driver.CmdBuffer{cb}, done)
	if err := <-done; err != nil {
		return err
	}

	return p.gpu.ReadBuffer(staging, 0, dst[:size])
}

// BuildID returns the unique identifier stamped at construction,
// useful for distinguishing repeated New/Render cycles in a
// long-lived process's logs.
func (p *PathTracer) BuildID() uuid.UUID { return p.buildID }

// Destroy releases every device resource this PathTracer owns. It
// is safe to call on a partially-constructed PathTracer (New calls
// it internally on failure).
func (p *PathTracer) Destroy() {
	// Each field is checked individually (rather than boxed into a
	// driver.Destroyer and nil-checked there) because a typed nil
	// pointer boxed into an interface is a non-nil interface value;
	// calling Destroy through it would panic on the nil receiver.
	if p.tracePL != nil {
		p.tracePL.Destroy()
	}
	if p.postPL != nil {
		p.postPL.Destroy()
	}
	if p.table != nil {
		p.table.Destroy()
	}
	if p.heap != nil {
		p.heap.Destroy()
	}
	if p.constants != nil {
		p.constants.Destroy()
	}
	if p.code != nil {
		p.code.Destroy()
	}
	if p.textures != nil {
		p.textures.Destroy()
	}
	if p.target != nil {
		p.target.Destroy()
	}
	if p.tlasNodes != nil {
		p.tlasNodes.Destroy()
	}
	if p.blasNodes != nil {
		p.blasNodes.Destroy()
	}
	if p.normals != nil {
		p.normals.Destroy()
	}
	if p.normalIndices != nil {
		p.normalIndices.Destroy()
	}
	if p.uvs != nil {
		p.uvs.Destroy()
	}
	if p.uvIndices != nil {
		p.uvIndices.Destroy()
	}
	if p.transforms != nil {
		p.transforms.Destroy()
	}
	if p.materials != nil {
		p.materials.Destroy()
	}
}
