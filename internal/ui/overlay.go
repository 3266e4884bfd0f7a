//go:build ebiten

package ui

import (
	"image/color"

	"rootweave/internal/core"
	"rootweave/internal/growth"
	"rootweave/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type summarizer interface {
	Summary() string
}

type statusReporter interface {
	Status() growth.Status
}

type soilToggler interface {
	ToggleSoil()
}

// Overlay draws the run summary and a colour legend over the scene. Key 1
// toggles the soil points, key 2 the legend and key 3 the summary line.
type Overlay struct {
	scene       core.Scene
	scale       int
	showLegend  bool
	showSummary bool
	pixel       *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(scene core.Scene, scale int) *Overlay {
	o := &Overlay{scene: scene, scale: max(scale, 1), showSummary: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		if t, ok := o.scene.(soilToggler); ok {
			t.ToggleSoil()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showLegend = !o.showLegend
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showSummary = !o.showSummary
	}
}

var legend = []struct {
	class uint8
	label string
}{
	{render.CellAnchor, "anchor"},
	{render.CellMain, "main"},
	{render.CellSecondary, "secondary"},
	{render.CellMaster, "master"},
	{render.CellTap, "tap"},
	{render.CellExplorer, "explorer"},
	{render.CellRegion, "region"},
	{render.CellSoil, "soil"},
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	face := basicfont.Face7x13
	if o.showSummary {
		line := ""
		if s, ok := o.scene.(summarizer); ok {
			line = s.Summary()
		}
		col := color.RGBA{R: 240, G: 230, B: 210, A: 255}
		if r, ok := o.scene.(statusReporter); ok && !r.Status().Success {
			col = color.RGBA{R: 250, G: 110, B: 90, A: 255}
		}
		if line != "" {
			w := text.BoundString(face, line).Dx()
			o.fill(screen, 4, 4, float64(w+8), 18, color.RGBA{A: 160})
			text.Draw(screen, line, face, 8, 17, col)
		}
	}
	if !o.showLegend {
		return
	}
	const row = 16
	top := 28.0
	o.fill(screen, 4, top, 104, float64(len(legend)*row+6), color.RGBA{A: 160})
	for i, entry := range legend {
		y := top + 4 + float64(i*row)
		o.fill(screen, 8, y+2, 10, 10, render.DefaultPalette[entry.class])
		text.Draw(screen, entry.label, face, 24, int(y)+11, color.RGBA{R: 230, G: 220, B: 205, A: 255})
	}
}

func (o *Overlay) fill(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
