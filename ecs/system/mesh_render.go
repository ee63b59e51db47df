package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/render"
)

// MeshRenderSystem issues one indexed draw per uploaded mesh, using the
// entity's model matrix.
type MeshRenderSystem struct{}

func NewMeshRenderSystem() *MeshRenderSystem {
	return &MeshRenderSystem{}
}

func (s *MeshRenderSystem) Run(w *ecs.World, r render.Renderer) error {
	if w == nil || r == nil {
		return nil
	}

	for _, e := range w.Query(component.KindMesh, component.KindTransform) {
		mesh, transform, ok := ecs.Get2(w, e, component.MeshComponent, component.TransformComponent)
		if !ok {
			w.Invariant("mesh render: entity %s matched {mesh,transform} but the fetch came back short", e)
			continue
		}
		if !mesh.HasBuffers() || mesh.IndexCount == 0 {
			continue
		}

		err := r.DrawIndexed(render.DrawCommand{
			VertexBuffer: mesh.VertexBuffer,
			IndexBuffer:  mesh.IndexBuffer,
			IndexCount:   mesh.IndexCount,
			Model:        transform.Model,
		})
		switch {
		case err == nil:
		case errors.Is(err, render.ErrSurfaceUnavailable):
			return nil
		case errors.Is(err, render.ErrUnknownBuffer):
			w.Logger().Printf("mesh render: entity %s: %v; re-uploading", e, err)
			mesh.ClearBuffers()
			mesh.NeedsUpload = true
		case render.IsFatal(err):
			return fmt.Errorf("mesh render: entity %s: %w", e, err)
		default:
			w.Logger().Printf("mesh render: entity %s: %v", e, err)
		}
	}
	return nil
}
