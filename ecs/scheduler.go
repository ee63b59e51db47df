package ecs

import (
	"fmt"

	"github.com/milk9111/meshecs/render"
)

// System is a unit of per-frame behavior. Run gets the world and the
// renderer. It returns an error only when the renderer failed in a way the
// frame loop cannot recover from; everything else is handled inside.
type System interface {
	Run(w *World, r render.Renderer) error
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, r render.Renderer) error

func (f SystemFunc) Run(w *World, r render.Renderer) error {
	return f(w, r)
}

type Phase uint8

const (
	PhaseUpdate Phase = iota
	PhaseDraw
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Scheduler runs the systems of one phase in the order they were added.
type Scheduler struct {
	phase   Phase
	systems []System
}

func NewScheduler(phase Phase, systems ...System) *Scheduler {
	s := &Scheduler{phase: phase}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Run invokes every system once. The list is captured up front: systems
// added while running start on the next call. The first error stops the run.
func (s *Scheduler) Run(w *World, r render.Renderer) error {
	for i, system := range s.systems {
		if err := system.Run(w, r); err != nil {
			return fmt.Errorf("ecs: %s system %d (%T): %w", s.phase, i, system, err)
		}
	}
	return nil
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
