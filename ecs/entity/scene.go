package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/system"
	"github.com/milk9111/meshecs/prefabs"
	"github.com/milk9111/meshecs/render"
	"golang.org/x/image/colornames"
)

// Scene is a built scene: its entities plus the view settings it declared.
type Scene struct {
	Name     string
	Camera   render.Camera
	Clear    color.Color
	Entities []ecs.Entity
}

// BuildScene builds every entity and registers the declared systems on w.
// On failure the entities already built are removed and no systems are
// registered.
func BuildScene(w *ecs.World, spec prefabs.SceneSpec) (*Scene, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}

	camera, err := sceneCamera(spec.Camera)
	if err != nil {
		return nil, fmt.Errorf("build scene %q: camera: %w", spec.Name, err)
	}

	scene := &Scene{
		Name:   spec.Name,
		Camera: camera,
		Clear:  colornames.Midnightblue,
	}
	if spec.Clear != nil && spec.Clear.Color != nil {
		scene.Clear = spec.Clear.Color
	}

	rollback := func() {
		for _, e := range scene.Entities {
			w.RemoveEntity(e)
		}
	}

	for i, es := range spec.Entities {
		e, err := BuildEntity(w, es)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("build scene %q: entity %d: %w", spec.Name, i, err)
		}
		scene.Entities = append(scene.Entities, e)
	}

	update, draw := spec.Systems.Update, spec.Systems.Draw
	if update == nil {
		update = system.DefaultUpdate
	}
	if draw == nil {
		draw = system.DefaultDraw
	}
	if err := system.Register(w, update, draw); err != nil {
		rollback()
		return nil, fmt.Errorf("build scene %q: %w", spec.Name, err)
	}

	return scene, nil
}

// LoadScene reads a scene by file name and builds it into w.
func LoadScene(w *ecs.World, filename string) (*Scene, error) {
	spec, err := prefabs.LoadScene(filename)
	if err != nil {
		return nil, err
	}
	return BuildScene(w, spec)
}

func sceneCamera(spec *prefabs.CameraSpec) (render.Camera, error) {
	camera := render.DefaultCamera()
	if spec == nil {
		return camera, nil
	}

	var err error
	if camera.Eye, err = prefabs.Vec3(spec.Eye, camera.Eye); err != nil {
		return camera, fmt.Errorf("eye: %w", err)
	}
	if camera.Target, err = prefabs.Vec3(spec.Target, camera.Target); err != nil {
		return camera, fmt.Errorf("target: %w", err)
	}
	if camera.Up, err = prefabs.Vec3(spec.Up, camera.Up); err != nil {
		return camera, fmt.Errorf("up: %w", err)
	}
	if camera.Eye.Sub(camera.Target).Len() == 0 {
		return camera, fmt.Errorf("eye and target coincide at %v", camera.Eye)
	}
	if spec.FOV > 0 {
		camera.FOV = spec.FOV
	}
	if spec.Near > 0 {
		camera.Near = spec.Near
	}
	if spec.Far > 0 {
		camera.Far = spec.Far
	}
	if camera.Far <= camera.Near {
		return camera, fmt.Errorf("far %v must exceed near %v", camera.Far, camera.Near)
	}
	return camera, nil
}

