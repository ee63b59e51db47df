package ecs

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/render"
)

// World owns entities, their components, the frame clock and the two system
// phases. It is driven from a single goroutine.
type World struct {
	registry *EntityRegistry
	storage  *Storage
	update   *Scheduler
	draw     *Scheduler
	clock    Clock
	removed  removeObservers

	logger *log.Logger
	strict bool
}

type Option func(*World)

// WithRegistry makes the world take ids from r instead of its own counter.
func WithRegistry(r *EntityRegistry) Option {
	return func(w *World) {
		if r != nil {
			w.registry = r
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithStrict makes invariant violations panic instead of being logged.
func WithStrict(strict bool) Option {
	return func(w *World) {
		w.strict = strict
	}
}

// NewWorld creates an empty ECS world.
func NewWorld(opts ...Option) *World {
	w := &World{
		registry: NewEntityRegistry(),
		storage:  NewStorage(),
		update:   NewScheduler(PhaseUpdate),
		draw:     NewScheduler(PhaseDraw),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CreateEntity allocates a new entity with no components.
func (w *World) CreateEntity() Entity {
	e := w.registry.Create()
	w.storage.Track(e)
	return e
}

// IsAlive reports whether e was created by this world and not removed.
func (w *World) IsAlive(e Entity) bool {
	return w.storage.Tracked(e)
}

// Entities returns every live entity, ascending by id.
func (w *World) Entities() []Entity {
	return w.storage.Matching(0)
}

func (w *World) Len() int {
	return w.storage.Len()
}

// AddComponent attaches c to e. An entity owns at most one component per
// kind; adding a second one is reported as an invariant violation and
// returns an error wrapping component.ErrDuplicateComponent.
func (w *World) AddComponent(e Entity, c component.Component) error {
	err := w.storage.Insert(e, c)
	if errors.Is(err, component.ErrDuplicateComponent) || errors.Is(err, component.ErrComponentOwned) {
		w.Invariant("%v", err)
	}
	return err
}

// RemoveComponent detaches the component of kind k from e. It reports
// whether there was one.
func (w *World) RemoveComponent(e Entity, k component.Kind) bool {
	c, ok := w.storage.Remove(e, k)
	if !ok {
		return false
	}
	w.removed.publish(e, c)
	return true
}

// RemoveEntity removes e and all of its components.
func (w *World) RemoveEntity(e Entity) bool {
	removed, ok := w.storage.RemoveEntity(e)
	if !ok {
		return false
	}
	w.removed.publish(e, removed...)
	return true
}

// OnRemove registers fn to be called for every component removed from the
// world. The returned func unregisters it.
func (w *World) OnRemove(fn RemoveFunc) (cancel func()) {
	return w.removed.subscribe(fn)
}

func (w *World) Get(e Entity, k component.Kind) (component.Component, bool) {
	return w.storage.Get(e, k)
}

// GetMany returns mutable references to the components of e for the
// requested kinds. See Storage.GetMany.
func (w *World) GetMany(e Entity, kinds ...component.Kind) []component.Component {
	return w.storage.GetMany(e, kinds...)
}

// KindsOf returns the kinds owned by e.
func (w *World) KindsOf(e Entity) component.KindSet {
	return w.storage.KindsOf(e)
}

// EachOfKind calls fn with every component of kind k and its entity.
func (w *World) EachOfKind(k component.Kind, fn func(Entity, component.Component)) {
	w.storage.EachOfKind(k, fn)
}

// Advance moves the clock forward by dt seconds. Call it once per frame
// before running any system.
func (w *World) Advance(dt float32) {
	if dt < 0 || math.IsNaN(float64(dt)) || math.IsInf(float64(dt), 0) {
		w.logger.Printf("ecs: advance: invalid delta %v, using 0", dt)
		dt = 0
	}
	w.clock.advance(dt)
}

func (w *World) Clock() Clock {
	return w.clock
}

// AddUpdateSystem appends s to the update phase.
func (w *World) AddUpdateSystem(s System) {
	w.update.Add(s)
}

// AddDrawSystem appends s to the draw phase.
func (w *World) AddDrawSystem(s System) {
	w.draw.Add(s)
}

func (w *World) UpdateSystems() []System {
	return w.update.Systems()
}

func (w *World) DrawSystems() []System {
	return w.draw.Systems()
}

// RunUpdateSystems runs the update phase once.
func (w *World) RunUpdateSystems(r render.Renderer) error {
	return w.update.Run(w, r)
}

// RunDrawSystems runs the draw phase once.
func (w *World) RunDrawSystems(r render.Renderer) error {
	return w.draw.Run(w, r)
}

func (w *World) Logger() *log.Logger {
	return w.logger
}

// Invariant reports a broken ECS invariant: a programming error rather than a
// runtime condition. Strict worlds panic; others log so the frame loop keeps
// going and the caller skips the offending work.
func (w *World) Invariant(format string, args ...any) {
	msg := "ecs: invariant violated: " + fmt.Sprintf(format, args...)
	if w.strict {
		panic(msg)
	}
	w.logger.Print(msg)
}
