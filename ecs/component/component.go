package component

import (
	"errors"
	"math/bits"
	"strings"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
	ErrDuplicateComponent   = errors.New("ecs: entity already has a component of this kind")
	ErrComponentOwned       = errors.New("ecs: component already belongs to another entity")
)

// Kind tags the variant of a Component. The set is closed.
type Kind uint8

const (
	KindTransform Kind = iota
	KindMovement
	KindMesh
	KindCollider

	KindCount
)

var kindNames = [KindCount]string{
	KindTransform: "transform",
	KindMovement:  "movement",
	KindMesh:      "mesh",
	KindCollider:  "collider",
}

func (k Kind) Valid() bool {
	return k < KindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return "invalid"
	}
	return kindNames[k]
}

// ParseKind maps a kind name as written by String back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, KindCount)
	for k := Kind(0); k < KindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Component is one of *Transform, *Movement, *Mesh or *Collider.
type Component interface {
	Kind() Kind
	sealed()
}

// IsNil reports whether c is nil or a typed nil pointer.
func IsNil(c Component) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *Transform:
		return v == nil
	case *Movement:
		return v == nil
	case *Mesh:
		return v == nil
	case *Collider:
		return v == nil
	default:
		return false
	}
}

// Handle binds a Kind to the Go type stored under it.
type Handle[T Component] struct {
	kind Kind
}

func (h Handle[T]) Kind() Kind {
	return h.kind
}

var (
	TransformComponent = Handle[*Transform]{kind: KindTransform}
	MovementComponent  = Handle[*Movement]{kind: KindMovement}
	MeshComponent      = Handle[*Mesh]{kind: KindMesh}
	ColliderComponent  = Handle[*Collider]{kind: KindCollider}
)

// KindSet is a bitmask of kinds.
type KindSet uint8

func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s KindSet) Has(k Kind) bool {
	return k.Valid() && s&(1<<k) != 0
}

func (s KindSet) With(k Kind) KindSet {
	if !k.Valid() {
		return s
	}
	return s | 1<<k
}

func (s KindSet) Without(k Kind) KindSet {
	if !k.Valid() {
		return s
	}
	return s &^ (1 << k)
}

// ContainsAll reports whether every kind in sub is also in s.
func (s KindSet) ContainsAll(sub KindSet) bool {
	return s&sub == sub
}

func (s KindSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

func (s KindSet) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	for k := Kind(0); k < KindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
