package ecs

import "github.com/milk9111/meshecs/ecs/component"

// Add attaches c to e under h's kind.
func Add[T component.Component](w *World, e Entity, h component.Handle[T], c T) error {
	if component.IsNil(c) {
		return component.ErrNilComponent
	}
	if c.Kind() != h.Kind() {
		return component.ErrInvalidComponentKind
	}
	return w.AddComponent(e, c)
}

func Has[T component.Component](w *World, e Entity, h component.Handle[T]) bool {
	return w.KindsOf(e).Has(h.Kind())
}

func Remove[T component.Component](w *World, e Entity, h component.Handle[T]) bool {
	return w.RemoveComponent(e, h.Kind())
}

func Get[T component.Component](w *World, e Entity, h component.Handle[T]) (T, bool) {
	var zero T
	c, ok := w.Get(e, h.Kind())
	if !ok {
		return zero, false
	}
	cast, ok := c.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// pick finds the component of h's kind in refs by its tag, never by position.
func pick[T component.Component](refs []component.Component, h component.Handle[T]) (T, bool) {
	var zero T
	for _, c := range refs {
		if c.Kind() != h.Kind() {
			continue
		}
		cast, ok := c.(T)
		return cast, ok
	}
	return zero, false
}

// Get2 fetches two components of different kinds from e at once. ok is false
// unless both are present.
func Get2[A, B component.Component](w *World, e Entity, ha component.Handle[A], hb component.Handle[B]) (A, B, bool) {
	var za A
	var zb B
	if ha.Kind() == hb.Kind() {
		w.Invariant("get2 on entity %s requested %s twice", e, ha.Kind())
		return za, zb, false
	}
	refs := w.GetMany(e, ha.Kind(), hb.Kind())
	a, okA := pick(refs, ha)
	b, okB := pick(refs, hb)
	if !okA || !okB {
		return za, zb, false
	}
	return a, b, true
}

// Get3 fetches three components of pairwise different kinds from e at once.
func Get3[A, B, C component.Component](w *World, e Entity, ha component.Handle[A], hb component.Handle[B], hc component.Handle[C]) (A, B, C, bool) {
	var za A
	var zb B
	var zc C
	if ha.Kind() == hb.Kind() || ha.Kind() == hc.Kind() || hb.Kind() == hc.Kind() {
		w.Invariant("get3 on entity %s requested kinds %s, %s, %s", e, ha.Kind(), hb.Kind(), hc.Kind())
		return za, zb, zc, false
	}
	refs := w.GetMany(e, ha.Kind(), hb.Kind(), hc.Kind())
	a, okA := pick(refs, ha)
	b, okB := pick(refs, hb)
	c, okC := pick(refs, hc)
	if !okA || !okB || !okC {
		return za, zb, zc, false
	}
	return a, b, c, true
}

// ForEach calls fn for every entity with a component of h's kind. The query
// is materialized first; entities that lose the component during the pass
// are skipped.
func ForEach[T component.Component](w *World, h component.Handle[T], fn func(Entity, T)) {
	for _, e := range w.Query(h.Kind()) {
		v, ok := Get(w, e, h)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

func ForEach2[A, B component.Component](w *World, ha component.Handle[A], hb component.Handle[B], fn func(Entity, A, B)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, b, ok := Get2(w, e, ha, hb)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C component.Component](w *World, ha component.Handle[A], hb component.Handle[B], hc component.Handle[C], fn func(Entity, A, B, C)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind(), hc.Kind()) {
		a, b, c, ok := Get3(w, e, ha, hb, hc)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}
