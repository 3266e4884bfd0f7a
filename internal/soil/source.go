package soil

import (
	"context"
	"math"
	"runtime"

	"github.com/aquilax/go-perlin"
	"golang.org/x/sync/errgroup"

	"rootweave/internal/geom"
)

// SquareLattice lays nx*ny points on pl with the given pitch, starting at the
// plane origin.
func SquareLattice(pl geom.Plane, nx, ny int, pitch float64) []geom.Vec {
	out := make([]geom.Vec, 0, max(nx*ny, 0))
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			out = append(out, pl.At(float64(i)*pitch, float64(j)*pitch))
		}
	}
	return out
}

// TriangularLattice lays nx*ny points on pl so that every point has six
// neighbours at distance pitch. Odd rows are shifted by half a pitch.
func TriangularLattice(pl geom.Plane, nx, ny int, pitch float64) []geom.Vec {
	rowStep := pitch * math.Sqrt(3) / 2
	out := make([]geom.Vec, 0, max(nx*ny, 0))
	for j := 0; j < ny; j++ {
		shift := 0.0
		if j%2 == 1 {
			shift = pitch / 2
		}
		for i := 0; i < nx; i++ {
			out = append(out, pl.At(float64(i)*pitch+shift, float64(j)*rowStep))
		}
	}
	return out
}

// VolumeLattice stacks nz square layers below pl, one pitch apart along the
// negative normal.
func VolumeLattice(pl geom.Plane, nx, ny, nz int, pitch float64) []geom.Vec {
	out := make([]geom.Vec, 0, max(nx*ny*nz, 0))
	for k := 0; k < nz; k++ {
		drop := geom.Scale(pl.Normal, -float64(k)*pitch)
		for _, p := range SquareLattice(pl, nx, ny, pitch) {
			out = append(out, geom.Add(p, drop))
		}
	}
	return out
}

// Rows returns the lattice rows of a square grid as polylines, the shape soil
// partitioning hands over before flattening.
func Rows(pl geom.Plane, nx, ny int, pitch float64) []geom.Polyline {
	if nx < 1 || ny < 1 {
		return nil
	}
	rows := make([]geom.Polyline, 0, ny)
	for j := 0; j < ny; j++ {
		v := float64(j) * pitch
		rows = append(rows, geom.Polyline{pl.At(0, v), pl.At(float64(nx-1)*pitch, v)})
	}
	return rows
}

// FlattenPolylines samples every line at roughly the given spacing and
// concatenates the samples in input order. Lines are sampled concurrently.
func FlattenPolylines(ctx context.Context, lines []geom.Polyline, spacing float64) ([]geom.Vec, error) {
	if spacing <= 0 {
		spacing = 1
	}
	parts := make([][]geom.Vec, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := int(math.Ceil(line.Len()/spacing)) + 1
			if line.Closed() {
				n--
			}
			parts[i] = line.Divide(max(n, 1))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]geom.Vec, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// Jitter displaces points within pl by coherent Perlin noise of the given
// amplitude. freq scales world coordinates before sampling the noise.
func Jitter(pl geom.Plane, points []geom.Vec, amplitude, freq float64, seed int64) []geom.Vec {
	out := make([]geom.Vec, len(points))
	if amplitude == 0 {
		copy(out, points)
		return out
	}
	nu := perlin.NewPerlin(2, 2, 3, seed)
	nv := perlin.NewPerlin(2, 2, 3, seed+1)
	for i, p := range points {
		du := nu.Noise3D(p.X*freq, p.Y*freq, p.Z*freq) * amplitude
		dv := nv.Noise3D(p.X*freq, p.Y*freq, p.Z*freq) * amplitude
		out[i] = geom.Add(p, geom.Add(geom.Scale(pl.XAxis, du), geom.Scale(pl.YAxis, dv)))
	}
	return out
}
