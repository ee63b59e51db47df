package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/geometry"
	"github.com/milk9111/meshecs/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"transform": addTransform,
	"movement":  addMovement,
	"mesh":      addMesh,
	"collider":  addCollider,
}

var componentBuildOrder = []string{
	"transform",
	"movement",
	"mesh",
	"collider",
}

var defaultMeshColor = mgl32.Vec3{0.8, 0.8, 0.8}

// BuildEntity creates an entity from spec. Component names are checked before
// the entity exists, and a builder failure removes the entity again.
func BuildEntity(w *ecs.World, spec entityPrefabSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: %q does not define components", spec.Name)
	}

	var unknown []string
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", spec.Name, unknown)
	}

	e := w.CreateEntity()
	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw); err != nil {
			w.RemoveEntity(e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
	}

	return e, nil
}

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}

	position, err := prefabs.Vec3(spec.Position, mgl32.Vec3{})
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	rotation, err := prefabs.Vec3(spec.Rotation, mgl32.Vec3{})
	if err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	scale, err := prefabs.Vec3(spec.Scale, mgl32.Vec3{1, 1, 1})
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}

	radians := mgl32.Vec3{mgl32.DegToRad(rotation[0]), mgl32.DegToRad(rotation[1]), mgl32.DegToRad(rotation[2])}
	return ecs.Add(w, e, component.TransformComponent, component.NewTransform(position, radians, scale))
}

func addMovement(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MovementComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode movement spec: %w", err)
	}

	velocity, err := prefabs.Vec3(spec.Velocity, mgl32.Vec3{})
	if err != nil {
		return fmt.Errorf("velocity: %w", err)
	}
	acceleration, err := prefabs.Vec3(spec.Acceleration, mgl32.Vec3{})
	if err != nil {
		return fmt.Errorf("acceleration: %w", err)
	}

	return ecs.Add(w, e, component.MovementComponent, component.NewMovement(velocity, acceleration))
}

func addMesh(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MeshComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mesh spec: %w", err)
	}

	vertices, indices, err := meshGeometry(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.MeshComponent, component.NewMesh(vertices, indices))
}

func meshGeometry(spec prefabs.MeshComponentSpec) ([]geometry.Vertex, []uint16, error) {
	color := spec.Color.Vec3(defaultMeshColor)

	switch spec.Primitive {
	case "cube":
		size := spec.Size
		if size <= 0 {
			size = 1
		}
		v, i := geometry.Cube(size, color)
		return v, i, nil
	case "ground_quad":
		v, i := geometry.GroundQuad(color)
		return v, i, nil
	case "triangle_grid":
		cols, rows, spacing := spec.Cols, spec.Rows, spec.Spacing
		if cols <= 0 {
			cols = 10
		}
		if rows <= 0 {
			rows = 10
		}
		if spacing <= 0 {
			spacing = 0.2
		}
		return geometry.TriangleGrid(cols, rows, spacing)
	case "":
	default:
		return nil, nil, fmt.Errorf("unknown primitive %q", spec.Primitive)
	}

	if len(spec.Vertices) == 0 {
		return nil, nil, errors.New("mesh needs a primitive or vertices")
	}
	if len(spec.Vertices) > geometry.MaxVertices {
		return nil, nil, fmt.Errorf("%d vertices: %w", len(spec.Vertices), geometry.ErrTooManyVertices)
	}
	vertices := make([]geometry.Vertex, 0, len(spec.Vertices))
	for i, vs := range spec.Vertices {
		p, err := prefabs.Vec3(vs.Position, mgl32.Vec3{})
		if err != nil {
			return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices = append(vertices, geometry.Vertex{Position: p, Color: vs.Color.Vec3(color), Wave: vs.Wave})
	}
	if len(spec.Indices)%3 != 0 {
		return nil, nil, fmt.Errorf("index count %d is not a multiple of 3", len(spec.Indices))
	}
	for _, idx := range spec.Indices {
		if int(idx) >= len(vertices) {
			return nil, nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(vertices))
		}
	}
	return vertices, spec.Indices, nil
}

func addCollider(w *ecs.World, e ecs.Entity, raw any) error {
	if _, err := prefabs.DecodeComponentSpec[prefabs.ColliderComponentSpec](raw); err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	return ecs.Add(w, e, component.ColliderComponent, component.NewCollider())
}
