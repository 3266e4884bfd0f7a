package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"rootweave/internal/core"
	"rootweave/internal/geom"
)

// Raster maps world geometry seen through a view plane onto a ByteGrid. The
// view's x axis runs right and its y axis runs up the image.
type Raster struct {
	Grid *core.ByteGrid

	view       geom.Plane
	uMin, vMax float64
	ppu        float64
}

// NewRaster sizes a grid to cover b, in view plane coordinates, plus margin
// world units on every side.
func NewRaster(view geom.Plane, b geom.Bounds2, pixelsPerUnit int, margin float64) *Raster {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	if b.Empty() {
		b = geom.Bounds2{}
	}
	ppu := float64(pixelsPerUnit)
	w := int(math.Ceil((b.UMax-b.UMin+2*margin)*ppu)) + 1
	h := int(math.Ceil((b.VMax-b.VMin+2*margin)*ppu)) + 1
	return &Raster{
		Grid: core.NewByteGrid(w, h),
		view: view,
		uMin: b.UMin - margin,
		vMax: b.VMax + margin,
		ppu:  ppu,
	}
}

// ViewBounds is the extent of pts projected onto view.
func ViewBounds(view geom.Plane, pts []geom.Vec) geom.Bounds2 {
	b := geom.EmptyBounds2()
	for _, p := range pts {
		b.Extend(view.Project(p))
	}
	return b
}

// Size reports the grid dimensions.
func (r *Raster) Size() core.Size { return core.Size{W: r.Grid.W, H: r.Grid.H} }

// Pixel returns the grid cell p falls in.
func (r *Raster) Pixel(p geom.Vec) (x, y int) {
	u, v := r.view.Project(p)
	return int(math.Round((u - r.uMin) * r.ppu)), int(math.Round((r.vMax - v) * r.ppu))
}

// Point paints the cell under p.
func (r *Raster) Point(p geom.Vec, class uint8) {
	x, y := r.Pixel(p)
	r.Grid.Raise(x, y, class)
}

// Line paints the cells between a and b.
func (r *Raster) Line(a, b geom.Vec, class uint8) {
	x0, y0 := r.Pixel(a)
	x1, y1 := r.Pixel(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		r.Grid.Raise(x0, y0, class)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Segments paints every segment.
func (r *Raster) Segments(segs []geom.Segment, class uint8) {
	for _, s := range segs {
		r.Line(s.A, s.B, class)
	}
}

// Polyline paints a curve.
func (r *Raster) Polyline(c geom.Polyline, class uint8) {
	for _, s := range c.Segments() {
		r.Line(s.A, s.B, class)
	}
}

// Image converts the grid to RGBA through palette.
func (r *Raster) Image(palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Grid.W, r.Grid.H))
	FillRGBA(img.Pix, r.Grid.Cells(), palette)
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	return f.Close()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
