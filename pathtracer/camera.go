package pathtracer

import (
	stdmath "math"

	"github.com/lumenforge/pathtracer/math"
)

// Camera is a simple pinhole projection: position, look-at target, up
// vector and a vertical field of view in degrees, plus the output
// resolution in pixels. Only Perspective is evaluated by the integrator;
// Orthographic is declared for Scene Input compatibility but unused.
type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

type Camera struct {
	Width, Height int
	FovDeg        float32
	Position      math.Vec3
	LookAt        math.Vec3
	Up            math.Vec3
	Kind          ProjectionKind
}

// Valid reports whether up is not parallel to the view direction, per
// the scene-validity invariant of §3/§7.
func (c Camera) Valid() bool {
	n := c.LookAt.Sub(c.Position)
	return n.Cross(c.Up).LengthSqr() > 1e-10
}

// PrimaryRay constructs the ray through the center of pixel (row, col),
// row indexing image height (0 at top) and col indexing image width.
func (c Camera) PrimaryRay(row, col int) Ray {
	n := c.LookAt.Sub(c.Position)
	yLocal := c.Up.Normalize()
	xLocal := n.Cross(yLocal).Normalize()

	s := float32(stdmath.Tan(float64(c.FovDeg) * stdmath.Pi / 360))
	aspect := float32(c.Width) / float32(c.Height)
	t := s * n.Length()
	r := t * aspect

	begin := c.LookAt.Add(yLocal.Mul(t)).Sub(xLocal.Mul(r))

	p := begin.
		Sub(yLocal.Mul((float32(row) + 0.5) * 2 * t / float32(c.Height))).
		Add(xLocal.Mul((float32(col) + 0.5) * 2 * r / float32(c.Width)))

	dir := p.Sub(c.Position).Normalize()
	return NewRay(c.Position, dir)
}
