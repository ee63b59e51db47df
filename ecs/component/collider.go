package component

import "github.com/milk9111/meshecs/geometry"

// Collider carries the bounding volumes of an entity. Each volume has its
// own dirty flag; a nil volume has never been computed.
type Collider struct {
	AABB *geometry.BoundingBox
	OBB  *geometry.OrientedBox

	NeedsAABBUpdate bool
	NeedsOBBUpdate  bool
}

func NewCollider() *Collider {
	return &Collider{NeedsAABBUpdate: true, NeedsOBBUpdate: true}
}

func (*Collider) Kind() Kind { return KindCollider }
func (*Collider) sealed()    {}

func (c *Collider) InvalidateBounds() {
	c.NeedsAABBUpdate = true
	c.NeedsOBBUpdate = true
}
