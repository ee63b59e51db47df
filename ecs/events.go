package ecs

import (
	"slices"

	"github.com/milk9111/meshecs/ecs/component"
)

// RemoveFunc observes a component leaving the world, either on its own or
// as part of its entity.
type RemoveFunc func(e Entity, c component.Component)

type removeObserver struct {
	fn RemoveFunc
}

type removeObservers []*removeObserver

func (obs *removeObservers) subscribe(fn RemoveFunc) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	o := &removeObserver{fn: fn}
	*obs = append(*obs, o)
	return func() {
		*obs = slices.DeleteFunc(*obs, func(x *removeObserver) bool { return x == o })
	}
}

func (obs removeObservers) publish(e Entity, removed ...component.Component) {
	if len(obs) == 0 {
		return
	}
	snapshot := slices.Clone(obs)
	for _, c := range removed {
		for _, o := range snapshot {
			o.fn(e, c)
		}
	}
}
