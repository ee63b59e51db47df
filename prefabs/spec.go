package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneSpec describes a world: its camera, clear colour, the systems of each
// phase and the entities to build.
type SceneSpec struct {
	Name     string            `yaml:"name"`
	Camera   *CameraSpec       `yaml:"camera"`
	Clear    *YAMLColor        `yaml:"clear"`
	Systems  SystemsSpec       `yaml:"systems"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

// SystemsSpec lists system names per phase in run order. A nil list selects
// the default systems for that phase; an empty list selects none.
type SystemsSpec struct {
	Update []string `yaml:"update"`
	Draw   []string `yaml:"draw"`
}

type CameraSpec struct {
	Eye    []float32 `yaml:"eye"`
	Target []float32 `yaml:"target"`
	Up     []float32 `yaml:"up"`
	FOV    float32   `yaml:"fov"`
	Near   float32   `yaml:"near"`
	Far    float32   `yaml:"far"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadScene(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

// ParseScene decodes a scene from raw yaml.
func ParseScene(data []byte) (SceneSpec, error) {
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SceneSpec{}, fmt.Errorf("prefabs: unmarshal scene: %w", err)
	}
	return spec, nil
}

// Vec3 converts a yaml triple. An empty list yields def.
func Vec3(values []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(values) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{values[0], values[1], values[2]}, nil
	default:
		return mgl32.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(values))
	}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Vec3 returns the colour as linear 0..1 RGB, or def when c is unset.
func (c *YAMLColor) Vec3(def mgl32.Vec3) mgl32.Vec3 {
	if c == nil || c.Color == nil {
		return def
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return mgl32.Vec3{float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255}
}
