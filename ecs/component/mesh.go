package component

import (
	"github.com/milk9111/meshecs/geometry"
	"github.com/milk9111/meshecs/render"
)

// Mesh holds the geometry payload of an entity and the device buffers it was
// last uploaded to. NeedsUpload is set whenever the payload changes and
// cleared by the buffering system.
type Mesh struct {
	Vertices []geometry.Vertex
	Indices  []uint16

	VertexBuffer render.BufferHandle
	IndexBuffer  render.BufferHandle
	IndexCount   uint32
	NeedsUpload  bool
}

func NewMesh(vertices []geometry.Vertex, indices []uint16) *Mesh {
	return &Mesh{Vertices: vertices, Indices: indices, NeedsUpload: true}
}

func (*Mesh) Kind() Kind { return KindMesh }
func (*Mesh) sealed()    {}

// Update replaces the payload and marks the mesh for upload.
func (m *Mesh) Update(vertices []geometry.Vertex, indices []uint16) {
	m.Vertices = vertices
	m.Indices = indices
	m.NeedsUpload = true
}

func (m *Mesh) HasBuffers() bool {
	return m.VertexBuffer.Valid() && m.IndexBuffer.Valid()
}

// ClearBuffers forgets the device handles without releasing them.
func (m *Mesh) ClearBuffers() {
	m.VertexBuffer = 0
	m.IndexBuffer = 0
	m.IndexCount = 0
}
