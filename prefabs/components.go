package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// TransformComponentSpec holds position, rotation in degrees and scale.
type TransformComponentSpec struct {
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"`
	Scale    []float32 `yaml:"scale"`
}

type MovementComponentSpec struct {
	Velocity     []float32 `yaml:"velocity"`
	Acceleration []float32 `yaml:"acceleration"`
}

// MeshComponentSpec either names a primitive or lists vertices and indices
// explicitly.
type MeshComponentSpec struct {
	Primitive string     `yaml:"primitive"`
	Size      float32    `yaml:"size"`
	Color     *YAMLColor `yaml:"color"`
	Cols      int        `yaml:"cols"`
	Rows      int        `yaml:"rows"`
	Spacing   float32    `yaml:"spacing"`

	Vertices []VertexSpec `yaml:"vertices"`
	Indices  []uint16     `yaml:"indices"`
}

type VertexSpec struct {
	Position []float32  `yaml:"position"`
	Color    *YAMLColor `yaml:"color"`
	Wave     bool       `yaml:"wave"`
}

type ColliderComponentSpec struct{}
