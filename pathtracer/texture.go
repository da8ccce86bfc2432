package pathtracer

import (
	stdmath "math"

	"github.com/lumenforge/pathtracer/math"
)

// Texture holds CPU-side pixel data for a 2D texture: width, height, and
// 4-channel 8-bit pixels in row-major order. It is immutable once loaded.
type Texture struct {
	Width, Height int
	Pixels        []byte // RGBA8, row-major, top-to-bottom
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values
// (0-255), useful for materials that have no authored texture but still
// want to run through the textured-color code path uniformly.
func NewSolidTexture(r, g, b, a uint8) *Texture {
	return &Texture{Width: 1, Height: 1, Pixels: []byte{r, g, b, a}}
}

// Sample performs nearest-neighbour lookup with repeat wrap: the
// fractional part of u,v is taken, with negatives wrapped into [0,1)
// before indexing.
func (t *Texture) Sample(u, v float32) math.Vec3 {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return math.Vec3{}
	}

	wu := wrapUnit(u)
	wv := wrapUnit(v)

	x := int(wu * float32(t.Width))
	y := int(wv * float32(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	i := (y*t.Width + x) * 4
	return math.Vec3{
		X: float32(t.Pixels[i]) / 255,
		Y: float32(t.Pixels[i+1]) / 255,
		Z: float32(t.Pixels[i+2]) / 255,
	}
}

// wrapUnit folds x into [0,1) via its fractional part, wrapping negative
// values the way texture-coordinate repeat wrap expects (-0.25 -> 0.75).
func wrapUnit(x float32) float32 {
	f := float32(x) - float32(stdmath.Floor(float64(x)))
	if f < 0 {
		f += 1
	}
	return f
}
