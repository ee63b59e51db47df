package system

import (
	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/geometry"
	"github.com/milk9111/meshecs/render"
)

// PairFunc is called once for each unordered pair of collider entities.
type PairFunc func(w *ecs.World, a, b ecs.Entity)

// CollisionSystem keeps collider bounds up to date for entities that have a
// collider, a transform and a mesh. Bounds are only recomputed when the
// collider is flagged dirty.
//
// After the bounds pass it walks every pair of those entities and hands them
// to OnPair. With OnPair unset the pair pass is skipped: intersection tests
// and collision response are left to the caller.
type CollisionSystem struct {
	OnPair PairFunc
}

func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

func (s *CollisionSystem) Run(w *ecs.World, _ render.Renderer) error {
	if w == nil {
		return nil
	}

	entities := w.Query(component.KindCollider, component.KindTransform, component.KindMesh)
	for _, e := range entities {
		collider, transform, mesh, ok := ecs.Get3(w, e, component.ColliderComponent, component.TransformComponent, component.MeshComponent)
		if !ok {
			w.Invariant("collision: entity %s matched {collider,transform,mesh} but the fetch came back short", e)
			continue
		}
		updateBounds(collider, transform, mesh)
	}

	if s.OnPair == nil {
		return nil
	}
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if !w.IsAlive(entities[i]) {
				break
			}
			if !w.IsAlive(entities[j]) {
				continue
			}
			s.OnPair(w, entities[i], entities[j])
		}
	}
	return nil
}

func updateBounds(collider *component.Collider, transform *component.Transform, mesh *component.Mesh) {
	if collider.NeedsAABBUpdate {
		collider.AABB = nil
		if len(mesh.Vertices) > 0 {
			box := geometry.TransformedBounds(mesh.Vertices, transform.Model)
			collider.AABB = &box
		}
		collider.NeedsAABBUpdate = false
	}
	if collider.NeedsOBBUpdate {
		collider.OBB = nil
		if len(mesh.Vertices) > 0 {
			obb := geometry.OrientedFrom(geometry.LocalBounds(mesh.Vertices), transform.Model)
			collider.OBB = &obb
		}
		collider.NeedsOBBUpdate = false
	}
}
