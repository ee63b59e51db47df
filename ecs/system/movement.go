package system

import (
	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/render"
)

// MovementSystem moves every entity with a transform and a movement
// component. Position advances with the velocity from the start of the frame,
// then the velocity takes the frame's acceleration.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Run(w *ecs.World, _ render.Renderer) error {
	if w == nil {
		return nil
	}

	dt := w.Clock().Delta
	for _, e := range w.Query(component.KindTransform, component.KindMovement) {
		transform, movement, ok := ecs.Get2(w, e, component.TransformComponent, component.MovementComponent)
		if !ok {
			w.Invariant("movement: entity %s matched {transform,movement} but the fetch came back short", e)
			continue
		}

		velocity := movement.Velocity
		transform.Translate(velocity.Mul(dt))

		// moved bounds are stale
		if collider, ok := ecs.Get(w, e, component.ColliderComponent); ok {
			collider.InvalidateBounds()
		}

		movement.Velocity = velocity.Add(movement.Acceleration.Mul(dt))
	}
	return nil
}
