package ecs

// SparseSet stores values keyed by Entity in dense slices so iteration is a
// linear walk. Removal swaps the last element into the hole, so dense order
// is not insertion order.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        map[Entity]int
}

// Has returns true if the entity exists in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	if s == nil || s.sparse == nil {
		return false
	}
	_, ok := s.sparse[e]
	return ok
}

// Get returns the value for e.
func (s *SparseSet[T]) Get(e Entity) (T, bool) {
	var zero T
	if s == nil || s.sparse == nil {
		return zero, false
	}
	idx, ok := s.sparse[e]
	if !ok {
		return zero, false
	}
	return s.denseValues[idx], true
}

// Set inserts or updates the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	if s.sparse == nil {
		s.sparse = make(map[Entity]int)
	}
	if idx, ok := s.sparse[e]; ok {
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[e] = len(s.denseEntities) - 1
}

// Remove deletes the value for e if present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	if s == nil || s.sparse == nil {
		return false
	}
	idx, ok := s.sparse[e]
	if !ok {
		return false
	}
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	delete(s.sparse, e)
	return true
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Values returns the dense value list, parallel to Entities.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}
