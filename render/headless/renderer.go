// Package headless implements render.Renderer in memory. It keeps uploaded
// bytes, records every call and never touches a GPU, which makes it the
// renderer for the simulator and for tests.
package headless

import (
	"fmt"
	"sync"

	"github.com/milk9111/meshecs/render"
)

type Upload struct {
	Handle render.BufferHandle
	Label  string
	Usage  render.BufferUsage
	Size   int
}

type buffer struct {
	usage render.BufferUsage
	data  []byte
}

type Renderer struct {
	mu sync.Mutex

	camera render.Camera
	width  int
	height int
	time   float32

	next    render.BufferHandle
	buffers map[render.BufferHandle]buffer

	uploads   []Upload
	draws     []render.DrawCommand
	destroyed []render.BufferHandle
	failNext  error
}

var _ render.Renderer = (*Renderer)(nil)

func New(width, height int) *Renderer {
	return &Renderer{
		camera:  render.DefaultCamera(),
		width:   width,
		height:  height,
		buffers: make(map[render.BufferHandle]buffer),
	}
}

func (r *Renderer) SetCamera(c render.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = c
}

// Tick advances the clock reported through GlobalUniforms.
func (r *Renderer) Tick(dt float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.time += dt
}

// FailNext makes the next CreateBuffer or DrawIndexed call return err.
func (r *Renderer) FailNext(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

func (r *Renderer) takeFailure() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *Renderer) CreateBuffer(label string, usage render.BufferUsage, data []byte) (render.BufferHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return 0, err
	}
	r.next++
	h := r.next
	r.buffers[h] = buffer{usage: usage, data: append([]byte(nil), data...)}
	r.uploads = append(r.uploads, Upload{Handle: h, Label: label, Usage: usage, Size: len(data)})
	return h, nil
}

func (r *Renderer) DestroyBuffer(h render.BufferHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buffers[h]; !ok {
		return
	}
	delete(r.buffers, h)
	r.destroyed = append(r.destroyed, h)
}

func (r *Renderer) DrawIndexed(cmd render.DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	vb, ok := r.buffers[cmd.VertexBuffer]
	if !ok || vb.usage != render.BufferUsageVertex {
		return fmt.Errorf("headless: vertex buffer %d: %w", cmd.VertexBuffer, render.ErrUnknownBuffer)
	}
	ib, ok := r.buffers[cmd.IndexBuffer]
	if !ok || ib.usage != render.BufferUsageIndex {
		return fmt.Errorf("headless: index buffer %d: %w", cmd.IndexBuffer, render.ErrUnknownBuffer)
	}
	if int(cmd.IndexCount)*2 > len(ib.data) {
		return fmt.Errorf("headless: draw %d indices from a %d byte buffer", cmd.IndexCount, len(ib.data))
	}
	r.draws = append(r.draws, cmd)
	return nil
}

func (r *Renderer) ViewportSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Renderer) GlobalUniforms() render.GlobalUniforms {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.camera.Uniforms(r.width, r.height, r.time)
}

// Buffer returns a copy of the bytes stored under h.
func (r *Renderer) Buffer(h render.BufferHandle) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[h]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b.data...), true
}

func (r *Renderer) Uploads() []Upload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Upload(nil), r.uploads...)
}

func (r *Renderer) Draws() []render.DrawCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]render.DrawCommand(nil), r.draws...)
}

func (r *Renderer) Destroyed() []render.BufferHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]render.BufferHandle(nil), r.destroyed...)
}

// Live returns the number of buffers currently allocated.
func (r *Renderer) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffers)
}

// ResetCalls forgets recorded uploads, draws and releases but keeps buffers.
func (r *Renderer) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = nil
	r.draws = nil
	r.destroyed = nil
}
