package soil

import (
	"fmt"
	"math"

	"rootweave/internal/geom"
)

// KeyScale is the quantisation applied to each coordinate: positions closer
// than 1/KeyScale along every axis share a key.
const KeyScale = 1e4

// Key is the integer grid hash of a soil sample position.
type Key [3]int64

// KeyOf quantises p.
func KeyOf(p geom.Vec) Key {
	return Key{
		int64(math.Round(p.X * KeyScale)),
		int64(math.Round(p.Y * KeyScale)),
		int64(math.Round(p.Z * KeyScale)),
	}
}

// Less orders keys lexicographically by x, then y, then z.
func (k Key) Less(o Key) bool {
	if k[0] != o[0] {
		return k[0] < o[0]
	}
	if k[1] != o[1] {
		return k[1] < o[1]
	}
	return k[2] < o[2]
}

// Compare returns -1, 0 or 1 following Less.
func (k Key) Compare(o Key) int {
	switch {
	case k.Less(o):
		return -1
	case o.Less(k):
		return 1
	}
	return 0
}

func (k Key) String() string {
	return fmt.Sprintf("%.4f,%.4f,%.4f",
		float64(k[0])/KeyScale, float64(k[1])/KeyScale, float64(k[2])/KeyScale)
}
