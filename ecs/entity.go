package ecs

import (
	"strconv"
	"sync/atomic"
)

// Entity is an opaque identifier. Zero is never issued.
type Entity uint64

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e > 0
}

// EntityRegistry issues entity ids from a monotonic counter. Ids are never
// reused, so a stale id stays "not found" instead of resolving to a newer
// entity. Safe for concurrent use.
type EntityRegistry struct {
	next atomic.Uint64
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{}
}

func (r *EntityRegistry) Create() Entity {
	return Entity(r.next.Add(1))
}

// Last returns the most recently issued id, or zero.
func (r *EntityRegistry) Last() Entity {
	return Entity(r.next.Load())
}
