package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/ecs/entity"
	"github.com/milk9111/meshecs/ecs/system"
	"github.com/milk9111/meshecs/prefabs"
	"github.com/milk9111/meshecs/render"
	"github.com/milk9111/meshecs/render/ebitenrender"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Config struct {
	Scene         string
	Debug         bool
	Watch         bool
	Width, Height int
}

type Game struct {
	cfg Config

	world    *ecs.World
	scene    *entity.Scene
	renderer *ebitenrender.Renderer
	watcher  *prefabs.Watcher

	// fatal holds a draw-phase failure until the next Update can return it.
	fatal error
}

func NewGame(cfg Config) (*Game, error) {
	g := &Game{
		cfg: cfg,
		renderer: ebitenrender.New(ebitenrender.Options{
			Width:  cfg.Width,
			Height: cfg.Height,
		}),
	}

	if err := g.load(); err != nil {
		return nil, err
	}

	if cfg.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir())
		if err != nil {
			log.Printf("scene watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

// load builds the configured scene into a fresh world. The current world is
// kept when the scene fails to build.
func (g *Game) load() error {
	world := ecs.NewWorld(ecs.WithStrict(g.cfg.Debug))
	scene, err := entity.LoadScene(world, g.cfg.Scene)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", g.cfg.Scene, err)
	}

	if g.world != nil {
		system.ReleaseWorld(g.world, g.renderer)
	}
	g.world = world
	g.scene = scene
	g.renderer.SetCamera(scene.Camera)
	g.renderer.SetClear(scene.Clear)
	log.Printf("scene %q: %d entities", scene.Name, len(scene.Entities))
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}

	reload := false
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if prefabs.SameFile(path, g.cfg.Scene) {
				reload = true
			}
			continue
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("scene watch: %v", err)
			}
			continue
		default:
		}
		break
	}

	if reload {
		if err := g.load(); err != nil {
			log.Printf("reload: %v", err)
		}
	}
}

func (g *Game) Update() error {
	if g.fatal != nil {
		return g.fatal
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.pollWatcher()

	g.world.Advance(1 / float32(ebiten.TPS()))
	if err := g.world.RunUpdateSystems(g.renderer); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetTime(g.world.Clock().Total)

	if err := g.renderer.BeginFrame(screen); err != nil {
		if !errors.Is(err, render.ErrSurfaceUnavailable) {
			log.Printf("begin frame: %v", err)
		}
		return
	}

	if err := g.world.RunDrawSystems(g.renderer); err != nil {
		log.Printf("draw: %v", err)
		if render.IsFatal(err) {
			g.fatal = err
		}
	}
	drawn := g.renderer.Queued()
	if err := g.renderer.EndFrame(); err != nil {
		log.Printf("end frame: %v", err)
	}

	if g.cfg.Debug {
		g.drawDebug(screen, drawn)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image, drawn int) {
	clock := g.world.Clock()
	msg := fmt.Sprintf("scene: %s\nentities: %d\nframe: %d  t: %.2fs\nFPS: %.2f  TPS: %.2f\ntriangles: %d drawn / %d buffered",
		g.scene.Name, g.world.Len(), clock.Frame, clock.Total, ebiten.ActualFPS(), ebiten.ActualTPS(),
		drawn, g.triangleCount())
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) triangleCount() int {
	n := 0
	ecs.ForEach(g.world, component.MeshComponent, func(_ ecs.Entity, m *component.Mesh) {
		n += int(m.IndexCount) / 3
	})
	return n
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	system.ReleaseWorld(g.world, g.renderer)
}
