// Package pathtracer implements the CPU path-tracing core: triangle
// geometry, a two-level bounding volume hierarchy, a material model with
// importance sampling, light sampling and a bounded-depth Monte Carlo
// integrator, driven by a parallel framebuffer accumulator.
package pathtracer

import (
	stdmath "math"

	"github.com/pkg/errors"

	"github.com/lumenforge/pathtracer/math"
)

// Point and Direction are both plain 3-vectors; Direction carries the
// additional invariant that it is unit-length. Neither is a distinct Go
// type from Vec3 — callers that construct a Direction from unnormalized
// input must call Normalize themselves.
type (
	Point     = math.Vec3
	Direction = math.Vec3
)

// Vertex is immutable once the scene has been loaded.
type Vertex struct {
	Position Point
	Normal   Direction
	UV       math.Vec2
}

// AABB is an axis-aligned bounding box. An empty box has +inf mins and
// -inf maxes so that unioning it with anything yields that thing unchanged.
type AABB struct {
	Min, Max math.Vec3
}

// EmptyAABB returns the identity element for Union.
func EmptyAABB() AABB {
	inf := float32(stdmath.Inf(1))
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{Min: math.Vec3Min(a.Min, b.Min), Max: math.Vec3Max(a.Max, b.Max)}
}

// UnionPoint returns the smallest box containing a and p.
func (a AABB) UnionPoint(p math.Vec3) AABB {
	return AABB{Min: math.Vec3Min(a.Min, p), Max: math.Vec3Max(a.Max, p)}
}

// ContainsPoint is inclusive on all six planes.
func (a AABB) ContainsPoint(p math.Vec3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Overlaps reports whether a and b share any point; separation on any
// single axis rules out overlap.
func (a AABB) Overlaps(b AABB) bool {
	if a.Max.X < b.Min.X || a.Min.X > b.Max.X {
		return false
	}
	if a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y {
		return false
	}
	if a.Max.Z < b.Min.Z || a.Min.Z > b.Max.Z {
		return false
	}
	return true
}

// LongestAxis returns 0/1/2 for X/Y/Z, whichever extent is largest.
func (a AABB) LongestAxis() int {
	extent := a.Max.Sub(a.Min)
	axis := 0
	longest := extent.X
	if extent.Y > longest {
		axis, longest = 1, extent.Y
	}
	if extent.Z > longest {
		axis = 2
	}
	return axis
}

// Triangle holds three vertices plus precomputed edges, a geometric
// normal, surface area, and bounding box — all fixed at scene load.
type Triangle struct {
	V0, V1, V2 Vertex

	// Edge1 = v2-v1, Edge2 = v3-v1 follow the Moller-Trumbore convention
	// used by RayTriangleIntersect; Edge3 = v3-v2 is kept for callers that
	// want the third edge without recomputing it.
	Edge1, Edge2, Edge3 math.Vec3

	Normal math.Vec3
	Area   float32
	Bounds AABB
}

// ErrDegenerateTriangle is returned by NewTriangle when the three
// positions are collinear (zero area).
var ErrDegenerateTriangle = errors.New("degenerate triangle: zero area")

// NewTriangle computes the derived fields from three vertices. It rejects
// degenerate triangles per the area > 0 invariant, and orients the
// geometric normal to agree in sign with the average shading normal.
func NewTriangle(v0, v1, v2 Vertex) (Triangle, error) {
	e1 := v1.Position.Sub(v0.Position)
	e2 := v2.Position.Sub(v0.Position)
	e3 := v2.Position.Sub(v1.Position)

	cross := e1.Cross(e2)
	area := 0.5 * cross.Length()
	if area <= 1e-12 {
		return Triangle{}, ErrDegenerateTriangle
	}
	normal := cross.Normalize()

	avgShading := v0.Normal.Add(v1.Normal).Add(v2.Normal)
	if normal.Dot(avgShading) < 0 {
		normal = normal.Mul(-1)
	}

	bounds := EmptyAABB().UnionPoint(v0.Position).UnionPoint(v1.Position).UnionPoint(v2.Position)

	return Triangle{
		V0: v0, V1: v1, V2: v2,
		Edge1: e1, Edge2: e2, Edge3: e3,
		Normal: normal,
		Area:   area,
		Bounds: bounds,
	}, nil
}

// Interpolate returns the shading normal and UV at barycentric weights
// (b0, b1, b2) over (V0, V1, V2).
func (t Triangle) Interpolate(b0, b1, b2 float32) (normal Direction, uv math.Vec2) {
	n := t.V0.Normal.Mul(b0).Add(t.V1.Normal.Mul(b1)).Add(t.V2.Normal.Mul(b2))
	u := t.V0.UV.Mul(b0).Add(t.V1.UV.Mul(b1)).Add(t.V2.UV.Mul(b2))
	return n.Normalize(), u
}

// SamplePoint draws a uniform point on the triangle from two independent
// uniforms in [0,1), using the standard sqrt-parametrization so that the
// resulting distribution is uniform in area rather than in (u,v).
func (t Triangle) SamplePoint(u, v float32) (point Point, normal Direction) {
	su := float32(stdmath.Sqrt(float64(u)))
	b0 := 1 - su
	b1 := su * (1 - v)
	b2 := su * v
	point = t.V0.Position.Mul(b0).Add(t.V1.Position.Mul(b1)).Add(t.V2.Position.Mul(b2))
	normal, _ = t.Interpolate(b0, b1, b2)
	return point, normal
}
