package system

import (
	"fmt"
	"sort"

	"github.com/milk9111/meshecs/ecs"
)

type constructor struct {
	phase ecs.Phase
	build func() ecs.System
}

var registry = map[string]constructor{
	"transform":   {ecs.PhaseUpdate, func() ecs.System { return NewTransformSystem() }},
	"movement":    {ecs.PhaseUpdate, func() ecs.System { return NewMovementSystem() }},
	"collision":   {ecs.PhaseUpdate, func() ecs.System { return NewCollisionSystem() }},
	"mesh_buffer": {ecs.PhaseUpdate, func() ecs.System { return NewMeshBufferSystem() }},
	"mesh_render": {ecs.PhaseDraw, func() ecs.System { return NewMeshRenderSystem() }},
}

var (
	DefaultUpdate = []string{"mesh_buffer", "movement", "transform", "collision"}
	DefaultDraw   = []string{"mesh_render"}
)

// New builds the system registered under name and reports its phase.
func New(name string) (ecs.System, ecs.Phase, error) {
	c, ok := registry[name]
	if !ok {
		return nil, 0, fmt.Errorf("system: unknown system %q", name)
	}
	return c.build(), c.phase, nil
}

// Names returns every registered system name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds the named systems to w in order. Each name must belong to the
// phase it is listed under. Nothing is added if any name is invalid.
func Register(w *ecs.World, update, draw []string) error {
	var updates, draws []ecs.System
	for _, list := range []struct {
		phase ecs.Phase
		names []string
		out   *[]ecs.System
	}{
		{ecs.PhaseUpdate, update, &updates},
		{ecs.PhaseDraw, draw, &draws},
	} {
		for _, name := range list.names {
			s, phase, err := New(name)
			if err != nil {
				return err
			}
			if phase != list.phase {
				return fmt.Errorf("system: %q runs in the %s phase, listed under %s", name, phase, list.phase)
			}
			*list.out = append(*list.out, s)
		}
	}

	for _, s := range updates {
		w.AddUpdateSystem(s)
	}
	for _, s := range draws {
		w.AddDrawSystem(s)
	}
	return nil
}
