// Package render is the boundary between the ECS core and whatever draws the
// frame. The core only allocates buffers, uploads bytes and issues indexed
// draws through these interfaces; surfaces, pipelines and shaders belong to
// the implementation.
package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrSurfaceUnavailable means there is nothing to draw into this frame.
	// Skip the draw phase and try again next frame.
	ErrSurfaceUnavailable = errors.New("render: surface unavailable")
	// ErrUnknownBuffer is returned for a handle the device does not know,
	// usually one released or never created.
	ErrUnknownBuffer = errors.New("render: unknown buffer")
	ErrOutOfMemory   = errors.New("render: out of memory")
	ErrDeviceLost    = errors.New("render: device lost")
)

// IsFatal reports whether err means the renderer cannot continue and the
// host should shut down.
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory) || errors.Is(err, ErrDeviceLost)
}

// BufferHandle names a device buffer. Zero is never a valid handle.
type BufferHandle uint32

func (h BufferHandle) Valid() bool {
	return h != 0
}

type BufferUsage uint8

const (
	BufferUsageVertex BufferUsage = iota + 1
	BufferUsageIndex
)

func (u BufferUsage) String() string {
	switch u {
	case BufferUsageVertex:
		return "vertex"
	case BufferUsageIndex:
		return "index"
	default:
		return "unknown"
	}
}

// GlobalUniforms are the per-frame values shared by every draw.
type GlobalUniforms struct {
	// Time holds seconds since the renderer started in X; the rest is padding.
	Time       [4]float32
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

// DrawCommand draws IndexCount indices from IndexBuffer against VertexBuffer
// with Model as the model matrix uniform.
type DrawCommand struct {
	VertexBuffer BufferHandle
	IndexBuffer  BufferHandle
	IndexCount   uint32
	Model        mgl32.Mat4
}

// Device allocates GPU buffers.
type Device interface {
	// CreateBuffer allocates a buffer sized to data and uploads data into it.
	CreateBuffer(label string, usage BufferUsage, data []byte) (BufferHandle, error)
	// DestroyBuffer releases a buffer. Unknown handles are ignored.
	DestroyBuffer(h BufferHandle)
}

// Renderer is everything the systems may ask of the rendering collaborator.
type Renderer interface {
	Device
	DrawIndexed(cmd DrawCommand) error
	ViewportSize() (width, height int)
	GlobalUniforms() GlobalUniforms
}
