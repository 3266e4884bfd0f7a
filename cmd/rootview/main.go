//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"rootweave/internal/app"
	"rootweave/internal/core"
	_ "rootweave/internal/scenes"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Scenes()[cfg.Scene]
	if !ok {
		log.Fatalf("unknown scene %q (have %v)", cfg.Scene, core.SceneNames())
	}

	scene := factory(cfg.Set)
	scene.Reset(cfg.Seed)

	game := app.New(scene, cfg.Scale, cfg.Seed)
	size := scene.Size()

	ebiten.SetWindowTitle("rootweave: " + scene.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+app.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
