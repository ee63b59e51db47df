package ecs

import "github.com/milk9111/meshecs/ecs/component"

// Query returns the entities owning every given kind, ascending by id. The
// result is a snapshot computed on each call; later changes to the world do
// not affect it. Query() with no kinds returns every live entity.
func (w *World) Query(kinds ...component.Kind) []Entity {
	return w.storage.Matching(component.NewKindSet(kinds...))
}

// QuerySet is Query for a prebuilt KindSet.
func (w *World) QuerySet(required component.KindSet) []Entity {
	return w.storage.Matching(required)
}

// First returns the lowest entity owning every given kind.
func (w *World) First(kinds ...component.Kind) (Entity, bool) {
	matches := w.Query(kinds...)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0], true
}
