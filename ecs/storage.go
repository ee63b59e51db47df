package ecs

import (
	"fmt"
	"slices"

	"github.com/milk9111/meshecs/ecs/component"
)

// record is the component set of one entity: at most one component per kind,
// each in its own slot.
type record struct {
	mask  component.KindSet
	slots [component.KindCount]component.Component
}

// Storage maps entities to their components.
//
// Every kind has a dedicated slot in the entity record, so components of
// different kinds never share memory and GetMany can hand out one reference
// per requested kind without two of them pointing at the same component.
type Storage struct {
	records SparseSet[*record]
	owners  map[component.Component]Entity
}

func NewStorage() *Storage {
	return &Storage{owners: make(map[component.Component]Entity)}
}

// Track registers e with no components. Tracking an entity twice is a no-op.
func (s *Storage) Track(e Entity) {
	if !e.Valid() || s.records.Has(e) {
		return
	}
	s.records.Set(e, &record{})
}

func (s *Storage) Tracked(e Entity) bool {
	return s.records.Has(e)
}

// Insert stores c under its kind. It refuses a second component of a kind the
// entity already owns and a component already owned by another entity.
func (s *Storage) Insert(e Entity, c component.Component) error {
	if component.IsNil(c) {
		return component.ErrNilComponent
	}
	k := c.Kind()
	if !k.Valid() {
		return fmt.Errorf("insert %v on entity %s: %w", k, e, component.ErrInvalidComponentKind)
	}
	rec, ok := s.records.Get(e)
	if !ok {
		return fmt.Errorf("insert %s on entity %s: %w", k, e, component.ErrEntityNotAlive)
	}
	if rec.mask.Has(k) {
		return fmt.Errorf("insert %s on entity %s: %w", k, e, component.ErrDuplicateComponent)
	}
	if owner, owned := s.owners[c]; owned {
		return fmt.Errorf("insert %s on entity %s: owned by entity %s: %w", k, e, owner, component.ErrComponentOwned)
	}
	rec.slots[k] = c
	rec.mask = rec.mask.With(k)
	s.owners[c] = e
	return nil
}

// Remove deletes the component of kind k from e and returns it.
func (s *Storage) Remove(e Entity, k component.Kind) (component.Component, bool) {
	rec, ok := s.records.Get(e)
	if !ok || !rec.mask.Has(k) {
		return nil, false
	}
	c := rec.slots[k]
	rec.slots[k] = nil
	rec.mask = rec.mask.Without(k)
	delete(s.owners, c)
	return c, true
}

// RemoveEntity drops e and all of its components and returns the components.
func (s *Storage) RemoveEntity(e Entity) ([]component.Component, bool) {
	rec, ok := s.records.Get(e)
	if !ok {
		return nil, false
	}
	removed := make([]component.Component, 0, rec.mask.Len())
	for _, k := range rec.mask.Kinds() {
		c := rec.slots[k]
		delete(s.owners, c)
		removed = append(removed, c)
	}
	s.records.Remove(e)
	return removed, true
}

func (s *Storage) Get(e Entity, k component.Kind) (component.Component, bool) {
	rec, ok := s.records.Get(e)
	if !ok || !rec.mask.Has(k) {
		return nil, false
	}
	return rec.slots[k], true
}

// GetMany returns the components of e for the requested kinds, in request
// order. Missing kinds are left out and a kind requested twice is returned
// once, so the result never holds two references to the same component.
func (s *Storage) GetMany(e Entity, kinds ...component.Kind) []component.Component {
	rec, ok := s.records.Get(e)
	if !ok {
		return nil
	}
	var seen component.KindSet
	out := make([]component.Component, 0, len(kinds))
	for _, k := range kinds {
		if !rec.mask.Has(k) || seen.Has(k) {
			continue
		}
		seen = seen.With(k)
		out = append(out, rec.slots[k])
	}
	return out
}

func (s *Storage) KindsOf(e Entity) component.KindSet {
	rec, ok := s.records.Get(e)
	if !ok {
		return 0
	}
	return rec.mask
}

// Matching returns the tracked entities owning every kind in required,
// ascending by id. The empty set matches every tracked entity.
func (s *Storage) Matching(required component.KindSet) []Entity {
	out := make([]Entity, 0, s.records.Len())
	entities := s.records.Entities()
	for i, rec := range s.records.Values() {
		if rec.mask.ContainsAll(required) {
			out = append(out, entities[i])
		}
	}
	slices.Sort(out)
	return out
}

// EachOfKind calls fn for every component of kind k. The entity list is taken
// before the first call, so fn may add or remove components.
func (s *Storage) EachOfKind(k component.Kind, fn func(Entity, component.Component)) {
	for _, e := range s.Matching(component.NewKindSet(k)) {
		if c, ok := s.Get(e, k); ok {
			fn(e, c)
		}
	}
}

// Len returns the number of tracked entities.
func (s *Storage) Len() int {
	return s.records.Len()
}
