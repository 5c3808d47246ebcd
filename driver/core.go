// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit commits a batch of command buffers to the GPU
	// for execution.
	// This method sends the result to ch when all commands
	// complete execution. Command buffers in cb cannot be
	// used for recording until then.
	Commit(cb []CmdBuffer, ch chan<- error)

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewShaderCode creates a new shader code from a compiled
	// GPU module (e.g., the bytes of ornament_kernels.co).
	// A single ShaderCode may expose more than one entry point;
	// ShaderFunc selects which one a given Pipeline uses.
	NewShaderCode(data []byte) (ShaderCode, error)

	// NewGlobalSlot binds a named symbol exposed by code.
	// It fails if the symbol does not exist. How far size is
	// checked against the symbol is up to the backend: driver/wgpu
	// compares it only for a symbol declared with an inline array
	// type.
	NewGlobalSlot(code ShaderCode, name string, size int64) (GlobalSlot, error)

	// NewDescHeap creates a new descriptor heap.
	NewDescHeap(ds []Descriptor) (DescHeap, error)

	// NewDescTable creates a new descriptor table.
	NewDescTable(dh []DescHeap) (DescTable, error)

	// NewPipeline creates a new compute pipeline.
	NewPipeline(state *CompState) (Pipeline, error)

	// NewBuffer creates a new buffer. visible must be set for any
	// buffer later passed to ReadBuffer (e.g. render's readback
	// staging buffer for GetFrameBuffer); it has no effect on
	// WriteBuffer, which works on any CopyDst buffer.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// ReadBuffer reads len(dst) bytes from buf at the given offset
	// into dst. buf must have been created with visible = true.
	// This blocks until the read completes.
	ReadBuffer(buf Buffer, off int64, dst []byte) error

	// WriteBuffer uploads data to buf at the given offset.
	// This is a direct queue-side write; it does not require a
	// CmdBuffer and is not ordered with respect to commands recorded
	// in one (callers that need ordering against GPU work must
	// instead route the upload through CmdBuffer.CopyBuffer, using
	// this method only to populate a throwaway staging buffer first).
	WriteBuffer(buf Buffer, off int64, data []byte) error

	// NewImage creates a new 2-D image.
	NewImage(pf PixelFmt, size Dim3D, usg Usage) (Image, error)

	// NewSampler creates a new Sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// committed to the GPU for execution. The usage is as follows:
//
// To record compute commands:
//	1. call Begin
//	2. call BeginWork
//	3. call SetPipeline/SetDescTableComp as needed
//	4. call Dispatch
//	5. repeat 3-4 as needed
//	6. call EndWork
//
// To record copy commands (e.g., uploading device arrays):
//	1. call Begin (if not already called)
//	2. call BeginBlit
//	3. call Copy*/Fill
//	4. call EndBlit
//
// Finally, call End and, if it succeeds, GPU.Commit.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	Begin() error

	// BeginWork begins compute work.
	// If wait is set, compute work only starts when all
	// previous commands recorded in the same command buffer
	// are done executing.
	BeginWork(wait bool)

	// EndWork ends the current compute work.
	EndWork()

	// BeginBlit begins data transfer.
	BeginBlit(wait bool)

	// EndBlit ends the current data transfer.
	EndBlit()

	// SetPipeline sets the compute pipeline.
	SetPipeline(pl Pipeline)

	// SetDescTableComp sets a descriptor table range for the
	// compute pipeline.
	SetDescTableComp(table DescTable, start int, heapCopy []int)

	// Dispatch dispatches compute workgroups.
	// It must only be called during compute work.
	Dispatch(grpCountX, grpCountY, grpCountZ int)

	// CopyBuffer copies data between buffers.
	CopyBuffer(param *BufferCopy)

	// CopyBufToImg copies data from a buffer to an image,
	// honoring the pitched row stride described by param.
	CopyBufToImg(param *BufImgCopy)

	// Fill fills a buffer range with copies of a byte value.
	Fill(buf Buffer, off int64, value byte, size int64)

	// Barrier inserts a number of global barriers.
	Barrier(b []Barrier)

	// End ends command recording and prepares the command
	// buffer for execution.
	End() error

	// Reset discards all recorded commands.
	Reset() error
}

// Buffer is the interface that defines a GPU buffer.
// Direct CPU access to buffer memory is not provided.
type Buffer interface {
	Destroyer

	// Size returns the size of the buffer, in bytes.
	Size() int64
}

// BufferCopy describes the parameters of a copy command
// that copies data from one buffer to another.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// BufImgCopy describes the parameters of a copy command
// that copies data between a buffer and a 2-D image.
type BufImgCopy struct {
	Buf    Buffer
	BufOff int64
	// Stride is the row pitch of the data in Buf, in bytes.
	// It must already be aligned as the device requires
	// (see GPU.Limits' MinPitchAlign).
	Stride int64
	Img    Image
	Size   Dim3D
}

// Sync is the type of a synchronization scope.
type Sync int

// Synchronization scopes.
const (
	SComputeShading Sync = 1 << iota
	SCopy
	SAll
	SNone Sync = 0
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	AShaderRead Access = 1 << iota
	AShaderWrite
	ACopyRead
	ACopyWrite
	AAnyRead
	AAnyWrite
	ANone Access = 0
)

// Barrier represents a synchronization barrier.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
}

// ShaderCode is the interface that defines a compiled GPU
// module binary, as loaded from a file such as
// ornament_kernels.co.
type ShaderCode interface {
	Destroyer
}

// ShaderFunc specifies an entry point within a shader binary.
type ShaderFunc struct {
	Code ShaderCode
	Name string
}

// GlobalSlot is the interface to a named, module-global symbol
// bound via GPU.NewGlobalSlot (e.g., the constants block).
type GlobalSlot interface {
	Destroyer

	// Size returns the size of the slot, in bytes.
	Size() int64

	// SetBytes overwrites the slot's contents.
	// len(b) must equal Size(), or this returns an error.
	SetBytes(b []byte) error
}

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	// Read/write buffer.
	DBuffer DescType = iota
	// Read/write image.
	DImage
	// Sampled texture.
	DTexture
	// Texture sampler.
	DSampler
)

// Descriptor describes data for use in shaders.
type Descriptor struct {
	Type DescType
	Nr   int
	Len  int
}

// DescHeap is the interface that defines a set of descriptors
// for use in a compute pipeline.
type DescHeap interface {
	Destroyer

	// New creates enough storage for n copies of each descriptor.
	New(n int) error

	// SetBuffer updates the buffer ranges referred by the
	// given descriptor of the given heap copy.
	SetBuffer(cpy, nr, start int, buf []Buffer, off, size []int64)

	// SetImage updates the image views referred by the given
	// descriptor of the given heap copy.
	SetImage(cpy, nr, start int, iv []ImageView)

	// SetSampler updates the samplers referred by the given
	// descriptor of the given heap copy.
	SetSampler(cpy, nr, start int, splr []Sampler)

	// Count returns the number of heap copies created by New.
	Count() int
}

// DescTable is the interface that defines the bindings between
// a number of descriptor heaps and a compute pipeline.
type DescTable interface {
	Destroyer
}

// CompState defines the state of a compute pipeline: a single
// kernel entry point plus the descriptor table describing the
// resources it accesses.
type CompState struct {
	Func ShaderFunc
	Desc DescTable
}

// Pipeline is the interface that defines a compute pipeline.
type Pipeline interface {
	Destroyer
}

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Image.
const (
	// The resource can be read in shaders.
	UShaderRead Usage = 1 << iota
	// The resource can be written in shaders.
	UShaderWrite
	// The resource can provide constant data for shaders.
	// Valid only for Buffer.
	UShaderConst
	// The resource can be sampled in shaders.
	// Valid only for Image.
	UShaderSample
	// The resource can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	RGBA8un PixelFmt = iota
	RGBA32f
	RG32f
	R32f
)

// Dim3D is a three-dimensional size.
// Depth is 1 for 2-D images.
type Dim3D struct {
	Width, Height, Depth int
}

// Image is the interface that defines a GPU image.
// Direct access to image memory is not provided, so copying
// data from the CPU to an image resource requires the use
// of a staging buffer (see CmdBuffer.CopyBufToImg).
type Image interface {
	Destroyer

	// NewView creates a new 2-D image view.
	NewView() (ImageView, error)
}

// ImageView is the interface that defines a typed view of
// an Image resource.
type ImageView interface {
	Destroyer
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampler is the interface that defines an image sampler.
type Sampler interface {
	Destroyer
}

// Sampling describes image sampler state.
type Sampling struct {
	Min   Filter
	Mag   Filter
	AddrU AddrMode
	AddrV AddrMode
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width and height of 2-D images.
	MaxImage2D int

	// Maximum number of descriptor heaps in a descriptor table.
	MaxDescHeaps int
	// Maximum number of buffer descriptors in a descriptor table.
	MaxDBuffer int
	// Maximum number of image descriptors in a descriptor table.
	MaxDImage int
	// Maximum number of texture descriptors in a descriptor table.
	MaxDTexture int
	// Maximum number of sampler descriptors in a descriptor table.
	MaxDSampler int
	// Maximum range of buffer descriptors.
	MaxDBufferRange int64

	// The required byte alignment of a 2-D image's row pitch
	// when used as the source/destination of a buffer/image
	// copy (see device.TextureSet).
	MinPitchAlign int64

	// Maximum dispatch count, per axis.
	MaxDispatch [3]int
}
