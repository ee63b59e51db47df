// Command simulate runs a scene without a window for a fixed number of frames
// and logs where every entity ended up.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/ecs/entity"
	"github.com/milk9111/meshecs/prefabs"
	"github.com/milk9111/meshecs/render/headless"
	"github.com/pkg/profile"
)

func main() {
	scene := flag.String("scene", "demo.yaml", "scene file ("+strings.Join(prefabs.Scenes(), ", ")+")")
	frames := flag.Int("frames", 60, "frames to simulate")
	dt := flag.Float64("dt", 1.0/60, "seconds per frame")
	debug := flag.Bool("debug", false, "panic on invariant violations")
	prof := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown profile mode %q", *prof)
	}

	if err := run(*scene, *frames, float32(*dt), *debug); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func run(sceneName string, frames int, dt float32, debug bool) error {
	w := ecs.NewWorld(ecs.WithStrict(debug))
	scene, err := entity.LoadScene(w, sceneName)
	if err != nil {
		return err
	}

	r := headless.New(1280, 720)
	r.SetCamera(scene.Camera)

	for i := 0; i < frames; i++ {
		r.Tick(dt)
		w.Advance(dt)
		if err := w.RunUpdateSystems(r); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := w.RunDrawSystems(r); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	clock := w.Clock()
	log.Printf("scene %q: %d frames, %.3fs simulated, %d draws, %d live buffers",
		scene.Name, clock.Frame, clock.Total, len(r.Draws()), r.Live())
	for _, e := range w.Entities() {
		log.Print(describe(w, e))
	}
	return nil
}

func describe(w *ecs.World, e ecs.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "entity %s %s", e, w.KindsOf(e))
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		fmt.Fprintf(&b, " position=%v", t.Position)
	}
	if m, ok := ecs.Get(w, e, component.MovementComponent); ok {
		fmt.Fprintf(&b, " velocity=%v", m.Velocity)
	}
	if c, ok := ecs.Get(w, e, component.ColliderComponent); ok && c.AABB != nil {
		fmt.Fprintf(&b, " aabb=%v..%v", c.AABB.Min, c.AABB.Max)
	}
	return b.String()
}
