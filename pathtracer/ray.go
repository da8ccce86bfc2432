package pathtracer

import (
	stdmath "math"

	"github.com/lumenforge/pathtracer/math"
)

// detEpsilon is the underflow threshold below which a Moller-Trumbore
// determinant is treated as zero (ray parallel to the triangle's plane).
const detEpsilon = 1e-8

// Ray is a world-space ray. T is the current best hit distance along the
// ray; traversal code shrinks it as closer hits are found, which is what
// makes BVH pruning effective (see ObjectBVH.intersectNode in bvh_object.go).
type Ray struct {
	Origin math.Vec3
	Dir    Direction
	T      float32
}

// NewRay builds a ray with no known hit yet (T = +Inf).
func NewRay(origin math.Vec3, dir Direction) Ray {
	return Ray{Origin: origin, Dir: dir, T: float32(stdmath.Inf(1))}
}

// TriangleHit is the result of a successful ray-triangle intersection.
type TriangleHit struct {
	T          float32
	B0, B1, B2 float32
}

// RayTriangleIntersect implements Moller-Trumbore per spec §4.1, with
// back-face culling against the triangle's geometric normal: a ray whose
// direction is not strictly opposed to the normal is rejected outright.
// This is what keeps emissive surfaces from illuminating themselves when
// seen edge-on or from behind; Refraction handling re-orients the normal
// itself before sampling, so it never hits this early-out.
func RayTriangleIntersect(ray Ray, tri Triangle) (TriangleHit, bool) {
	if ray.Dir.Dot(tri.Normal) >= 0 {
		return TriangleHit{}, false
	}

	s1 := ray.Dir.Cross(tri.Edge2)
	det := s1.Dot(tri.Edge1)
	if det > -detEpsilon && det < detEpsilon {
		return TriangleHit{}, false
	}
	invDet := 1 / det

	s := ray.Origin.Sub(tri.V0.Position)
	b1 := s.Dot(s1) * invDet
	if b1 < 0 || b1 > 1 {
		return TriangleHit{}, false
	}

	s2 := s.Cross(tri.Edge1)
	b2 := ray.Dir.Dot(s2) * invDet
	if b2 < 0 || b1+b2 > 1 {
		return TriangleHit{}, false
	}

	t := tri.Edge2.Dot(s2) * invDet
	if t < 0 || t > ray.T {
		return TriangleHit{}, false
	}

	return TriangleHit{T: t, B0: 1 - b1 - b2, B1: b1, B2: b2}, true
}

// RayAABBIntersect reports whether ray hits box before its current best
// distance ray.T. An origin already inside the box is an immediate hit.
func RayAABBIntersect(ray Ray, box AABB) bool {
	if box.ContainsPoint(ray.Origin) {
		return true
	}

	tEnter := float32(0)
	tExit := ray.T

	for axis := 0; axis < 3; axis++ {
		o := ray.Origin.Component(axis)
		d := ray.Dir.Component(axis)
		lo := box.Min.Component(axis)
		hi := box.Max.Component(axis)

		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}

		invD := 1 / d
		t1 := (lo - o) * invD
		t2 := (hi - o) * invD
		if invD < 0 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return false
		}
	}

	return tEnter <= tExit && tEnter >= 0 && tEnter < ray.T
}
