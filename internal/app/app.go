//go:build ebiten

package app

import (
	"time"

	"rootweave/internal/core"
	"rootweave/internal/render"
	"rootweave/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the parameter panel.
const HUDWidth = 260

type clocked interface {
	Clock() *core.PhaseClock
}

// Game adapts a core scene to the ebiten.Game interface.
type Game struct {
	scene   core.Scene
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided scene.
func New(scene core.Scene, scale int, seed int64) *Game {
	size := scene.Size()
	return &Game{
		scene:   scene,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(scene, HUDWidth),
		overlay: ui.NewOverlay(scene, scale),
		scale:   max(scale, 1),
		seed:    seed,
	}
}

// Reset regrows the scene with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.scene.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the scene.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if c, ok := g.scene.(clocked); ok {
		clock := c.Clock()
		if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
			clock.SetTicksPerPhase(clock.TicksPerPhase() / 2)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
			clock.SetTicksPerPhase(clock.TicksPerPhase() * 2)
		}
	}

	g.overlay.Update()
	g.hud.Update(g.scene.Size().W * g.scale)

	if !g.paused || g.tickOnce {
		g.scene.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current scene state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.scene.Cells(), render.DefaultPalette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.scene.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.scene.Size()
	return s.W*g.scale + HUDWidth, s.H * g.scale
}
