package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scene := flag.String("scene", "demo.yaml", "scene file in prefabs/ (embedded copy used when absent on disk)")
	debug := flag.Bool("debug", false, "enable debug mode: overlay and panics on invariant violations")
	watch := flag.Bool("watch", false, "reload the scene when its yaml changes on disk")
	tps := flag.Int("tps", 60, "fixed update ticks per second")
	width := flag.Int("width", baseWidth, "window width")
	height := flag.Int("height", baseHeight, "window height")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("meshecs")
	if *tps > 0 {
		ebiten.SetTPS(*tps)
	}

	game, err := NewGame(Config{
		Scene:  *scene,
		Debug:  *debug,
		Watch:  *watch,
		Width:  *width,
		Height: *height,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
