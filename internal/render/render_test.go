package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootweave/internal/geom"
	"rootweave/internal/growth"
	"rootweave/internal/phase"
)

func unitSquare() geom.Bounds2 {
	return geom.Bounds2{UMin: 0, UMax: 10, VMin: 0, VMax: 5}
}

func TestRasterCoversBounds(t *testing.T) {
	r := NewRaster(geom.WorldXY(), unitSquare(), 2, 1)
	assert.Equal(t, 25, r.Grid.W)
	assert.Equal(t, 15, r.Grid.H)

	// v grows upward, rows grow downward.
	x, y := r.Pixel(geom.Vec{X: 0, Y: 0})
	assert.Equal(t, 2, x)
	assert.Equal(t, 12, y)
	x, y = r.Pixel(geom.Vec{X: 10, Y: 5})
	assert.Equal(t, 22, x)
	assert.Equal(t, 2, y)
}

func TestLinePaintsEndpointsAndStaysInside(t *testing.T) {
	r := NewRaster(geom.WorldXY(), unitSquare(), 3, 0)
	r.Line(geom.Vec{}, geom.Vec{X: 10, Y: 5}, CellMain)
	r.Line(geom.Vec{X: -50}, geom.Vec{X: 50, Y: 40}, CellSecondary)

	x0, y0 := r.Pixel(geom.Vec{})
	x1, y1 := r.Pixel(geom.Vec{X: 10, Y: 5})
	assert.Equal(t, CellMain, r.Grid.At(x0, y0))
	assert.Equal(t, CellMain, r.Grid.At(x1, y1))
	// 10 units across at 3 px/unit needs at least 31 cells.
	assert.GreaterOrEqual(t, r.Grid.Count(CellMain), 31)
	assert.Equal(t, r.Grid.W*r.Grid.H, len(r.Grid.Cells()))
}

func TestHigherClassWins(t *testing.T) {
	r := NewRaster(geom.WorldXY(), unitSquare(), 1, 0)
	p := geom.Vec{X: 3, Y: 3}
	r.Point(p, CellAnchor)
	r.Point(p, CellSoil)
	x, y := r.Pixel(p)
	assert.Equal(t, CellAnchor, r.Grid.At(x, y))
}

func TestSideView(t *testing.T) {
	side := geom.NewPlane(geom.Vec{}, geom.Vec{X: 1}, geom.Vec{Z: 1})
	r := NewRaster(side, geom.Bounds2{UMin: 0, UMax: 4, VMin: -4, VMax: 0}, 1, 0)
	r.Polyline(geom.Polyline{{}, {Z: -4}}, CellTap)
	for y := 0; y < 5; y++ {
		assert.Equal(t, CellTap, r.Grid.At(0, y), "row %d", y)
	}
}

func TestFillAndWritePNG(t *testing.T) {
	r := NewRaster(geom.WorldXY(), unitSquare(), 1, 0)
	r.Point(geom.Vec{X: 1, Y: 1}, 200)
	img := r.Image(DefaultPalette)
	x, y := r.Pixel(geom.Vec{X: 1, Y: 1})
	assert.Equal(t, DefaultPalette[len(DefaultPalette)-1], img.RGBAAt(x, y))
	assert.Equal(t, DefaultPalette[CellEmpty], img.RGBAAt(0, 0))

	blank := r.Image(nil)
	assert.Equal(t, uint8(0), blank.RGBAAt(x, y).A)

	path := filepath.Join(t.TempDir(), "roots.png")
	require.NoError(t, WritePNG(path, img))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestViewBounds(t *testing.T) {
	side := geom.NewPlane(geom.Vec{}, geom.Vec{X: 1}, geom.Vec{Z: 1})
	b := ViewBounds(side, []geom.Vec{{X: 1, Y: 9, Z: -3}, {X: -2, Y: -4, Z: 0}})
	assert.Equal(t, geom.Bounds2{UMin: -2, UMax: 1, VMin: -3, VMax: 0}, b)
	assert.True(t, ViewBounds(side, nil).Empty())
}

func TestGraphRevealsByStep(t *testing.T) {
	g := growth.NewGraph(geom.Vec{}, geom.Vec{Y: -1}, growth.Unlimited)
	a := g.AddChild(g.Anchor(), geom.Vec{Y: -2}, growth.Stem)
	g.AddBranch(a, geom.Vec{X: 2, Y: -2}, growth.Unlimited)

	r := NewRaster(geom.WorldXY(), geom.Bounds2{UMax: 2, VMin: -2}, 1, 0)
	r.Graph(g, 1)
	assert.Equal(t, 3, r.Grid.Count(CellMain))
	assert.Equal(t, 0, r.Grid.Count(CellSecondary))

	r.Graph(g, -1)
	assert.Equal(t, 3, r.Grid.Count(CellMain))
	assert.Equal(t, 2, r.Grid.Count(CellSecondary))
}

func TestRootsFilterByPhase(t *testing.T) {
	roots := phase.NewCollections(10)
	roots.Add(phase.NewBranch(phase.Master, geom.Polyline{{}, {Z: -2}}, 0, 10))
	roots.Add(phase.NewBranch(phase.Master, geom.Polyline{{}, {X: 2}}, 1, 10))
	roots.Add(phase.NewBranch(phase.Tap, geom.Polyline{{X: 2}, {X: 2, Z: -2}}, 2, 10))
	res := &growth.PhasedResult{Roots: roots}
	side := geom.NewPlane(geom.Vec{}, geom.Vec{X: 1}, geom.Vec{Z: 1})
	r := NewRaster(side, geom.Bounds2{UMax: 2, VMin: -2}, 1, 0)

	r.Roots(res, 0)
	assert.Equal(t, 0, r.Grid.Count(CellTap))
	assert.Equal(t, 0, r.Grid.Count(CellMaster))
	assert.Equal(t, 2, r.Grid.Count(CellMain))
	assert.Equal(t, 1, r.Grid.Count(CellAnchor))

	r.Roots(res, -1)
	assert.Equal(t, 2, r.Grid.Count(CellTap))
	assert.Equal(t, 2, r.Grid.Count(CellMaster))
}
