package system

import (
	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/render"
)

// TransformSystem rebuilds every transform's model matrix from its position,
// rotation and scale, picking up direct field writes.
type TransformSystem struct{}

func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

func (s *TransformSystem) Run(w *ecs.World, _ render.Renderer) error {
	if w == nil {
		return nil
	}

	ecs.ForEach(w, component.TransformComponent, func(_ ecs.Entity, t *component.Transform) {
		t.UpdateModel()
	})
	return nil
}
