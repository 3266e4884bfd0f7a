package render

import "image/color"

// Cell classes painted into a raster. Higher values paint over lower ones.
const (
	CellEmpty uint8 = iota
	CellSoil
	CellRegion
	CellSecondary
	CellExplorer
	CellTap
	CellMain
	CellMaster
	CellAnchor
)

// DefaultPalette maps every cell class to a colour.
var DefaultPalette = []color.RGBA{
	CellEmpty:     {R: 24, G: 18, B: 14, A: 255},
	CellSoil:      {R: 70, G: 54, B: 40, A: 255},
	CellRegion:    {R: 90, G: 40, B: 110, A: 255},
	CellSecondary: {R: 196, G: 170, B: 120, A: 255},
	CellExplorer:  {R: 120, G: 200, B: 140, A: 255},
	CellTap:       {R: 110, G: 160, B: 230, A: 255},
	CellMain:      {R: 245, G: 225, B: 180, A: 255},
	CellMaster:    {R: 250, G: 200, B: 90, A: 255},
	CellAnchor:    {R: 230, G: 60, B: 50, A: 255},
}

// FillRGBA converts cell values into RGBA pixels using a palette. Values past
// the end of the palette use its last colour. When the palette is empty the
// buffer is cleared to transparent black.
func FillRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
