package system

import (
	"fmt"

	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/geometry"
	"github.com/milk9111/meshecs/render"
)

// MeshBufferSystem uploads mesh payloads flagged NeedsUpload to device
// buffers. Stale buffers are released before the new upload. Buffers of
// meshes removed from the world are released on the next run.
//
// Removed meshes no longer live in any component, so their handles are
// queued on the system itself. A system follows one world at a time:
// running it against another world detaches it from the previous one.
type MeshBufferSystem struct {
	world       *ecs.World
	unsubscribe func()
	pending     []render.BufferHandle
}

func NewMeshBufferSystem() *MeshBufferSystem {
	return &MeshBufferSystem{}
}

func (s *MeshBufferSystem) Run(w *ecs.World, r render.Renderer) error {
	if w == nil || r == nil {
		return nil
	}
	if s.world != w {
		s.Detach(r)
		s.unsubscribe = w.OnRemove(s.onRemove)
		s.world = w
	}

	s.Flush(r)

	var err error
	ecs.ForEach(w, component.MeshComponent, func(e ecs.Entity, mesh *component.Mesh) {
		if err != nil || !mesh.NeedsUpload {
			return
		}
		uerr := upload(r, e, mesh)
		if uerr == nil {
			return
		}
		if render.IsFatal(uerr) {
			err = fmt.Errorf("mesh buffer: entity %s: %w", e, uerr)
			return
		}
		w.Logger().Printf("mesh buffer: entity %s: %v; retrying next frame", e, uerr)
	})
	return err
}

// Flush releases the buffers of removed meshes now.
func (s *MeshBufferSystem) Flush(d render.Device) {
	for _, h := range s.pending {
		d.DestroyBuffer(h)
	}
	s.pending = s.pending[:0]
}

// Detach stops observing the current world and releases its queued
// removals on d.
func (s *MeshBufferSystem) Detach(d render.Device) {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.world = nil
	if d != nil {
		s.Flush(d)
	}
}

// Pending returns the number of buffers waiting to be released.
func (s *MeshBufferSystem) Pending() int {
	return len(s.pending)
}

func (s *MeshBufferSystem) onRemove(_ ecs.Entity, c component.Component) {
	mesh, ok := c.(*component.Mesh)
	if !ok {
		return
	}
	if mesh.VertexBuffer.Valid() {
		s.pending = append(s.pending, mesh.VertexBuffer)
	}
	if mesh.IndexBuffer.Valid() {
		s.pending = append(s.pending, mesh.IndexBuffer)
	}
	mesh.ClearBuffers()
}

func upload(d render.Device, e ecs.Entity, mesh *component.Mesh) error {
	if mesh.VertexBuffer.Valid() {
		d.DestroyBuffer(mesh.VertexBuffer)
	}
	if mesh.IndexBuffer.Valid() {
		d.DestroyBuffer(mesh.IndexBuffer)
	}
	mesh.ClearBuffers()

	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		mesh.NeedsUpload = false
		return nil
	}

	vb, err := d.CreateBuffer(fmt.Sprintf("entity %s vertices", e), render.BufferUsageVertex, geometry.EncodeVertices(mesh.Vertices))
	if err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}
	ib, err := d.CreateBuffer(fmt.Sprintf("entity %s indices", e), render.BufferUsageIndex, geometry.EncodeIndices(mesh.Indices))
	if err != nil {
		d.DestroyBuffer(vb)
		return fmt.Errorf("index buffer: %w", err)
	}

	mesh.VertexBuffer = vb
	mesh.IndexBuffer = ib
	mesh.IndexCount = uint32(len(mesh.Indices))
	mesh.NeedsUpload = false
	return nil
}

// ReleaseWorld releases every device buffer owned by w: the buffers of its
// meshes and any removals still queued in its mesh buffer systems. Meshes are
// left marked for upload.
func ReleaseWorld(w *ecs.World, d render.Device) {
	if w == nil || d == nil {
		return
	}
	for _, s := range w.UpdateSystems() {
		if mb, ok := s.(*MeshBufferSystem); ok && mb.world == w {
			mb.Detach(d)
		}
	}
	ecs.ForEach(w, component.MeshComponent, func(_ ecs.Entity, mesh *component.Mesh) {
		if mesh.VertexBuffer.Valid() {
			d.DestroyBuffer(mesh.VertexBuffer)
		}
		if mesh.IndexBuffer.Valid() {
			d.DestroyBuffer(mesh.IndexBuffer)
		}
		mesh.ClearBuffers()
		mesh.NeedsUpload = len(mesh.Vertices) > 0 && len(mesh.Indices) > 0
	})
}
