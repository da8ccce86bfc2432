package pathtracer

import (
	stdmath "math"

	"github.com/lumenforge/pathtracer/math"
)

// shadowEpsilon is the tolerance against which a shadow ray's hit
// distance is compared to the sampled light distance.
const shadowEpsilon = 1e-3

// originOffset nudges a bounce or shadow ray's origin along the surface
// normal so it does not immediately re-intersect the triangle it was
// spawned from.
const originOffset = 1e-4

// IntersectResult is the richer, scene-relative view of a SceneHit: the
// interpolated shading normal, the optional texture colour, and the ray
// that produced it, matching the data model of §3.
type IntersectResult struct {
	Hit         bool
	T           float32
	Point       Point
	ObjectIndex int
	Object      *Object
	Normal      Direction
	UV          math.Vec2
	Texture     math.Vec3
	HasTexture  bool
	Ray         Ray
}

// Intersect runs the scene BVH traversal and interpolates the shading
// normal/UV at the hit, returning the world-space detail the integrator
// and any diagnostic caller needs.
func Intersect(scene *Scene, ray Ray) IntersectResult {
	hit, ok := scene.Intersect(&ray)
	if !ok {
		return IntersectResult{Hit: false, T: float32(stdmath.Inf(1)), Ray: ray}
	}
	n, uv := hit.Triangle.Interpolate(hit.Hit.B0, hit.Hit.B1, hit.Hit.B2)
	point := ray.Origin.Add(ray.Dir.Mul(hit.Hit.T))
	result := IntersectResult{
		Hit: true, T: hit.Hit.T, Point: point,
		ObjectIndex: hit.ObjectIndex, Object: hit.Object,
		Normal: n, UV: uv, Ray: ray,
	}
	if hit.Object.Material.Texture != nil {
		result.Texture = hit.Object.Material.Texture.Sample(uv.X, uv.Y)
		result.HasTexture = true
	}
	return result
}

// pathStep is one (direct, throughput) pair of the explicit unwind stack
// of §4.7.
type pathStep struct {
	direct math.Vec3
	coeff  math.Vec3
}

// Shade produces an unbiased estimate of the incoming radiance along ray,
// iteratively: an explicit stack of (direct, throughput) pairs is built
// forward through the path and folded back into a single colour once the
// path terminates.
func Shade(scene *Scene, ray Ray, rng Sampler) math.Vec3 {
	var stack []pathStep
	depth := 0

	for {
		res := Intersect(scene, ray)
		if !res.Hit {
			stack = append(stack, pathStep{direct: scene.Ambient})
			break
		}

		if res.Object.IsLight {
			if depth == 0 {
				return res.Object.Radiance
			}
			stack = append(stack, pathStep{direct: scene.Ambient})
			break
		}

		mat := res.Object.Material
		n := res.Normal
		view := res.Ray.Dir.Mul(-1)

		direct := directIllumination(scene, res.Point, n, view, mat, res.Texture, res.HasTexture, rng)

		bounce := Sample(mat, view, n, rng)

		var coeff math.Vec3
		if mat.Kind != Specular {
			f := Evaluate(mat, view, bounce, n, res.Texture, res.HasTexture)
			pdf := Pdf(mat, view, bounce, n)
			cos := maxf(n.Dot(bounce), 0)
			if pdf > 0 {
				coeff = f.Mul(cos / pdf)
			}
			stack = append(stack, pathStep{direct: direct, coeff: coeff})
		}

		depth++
		if depth > scene.MaxDepth {
			stack = append(stack, pathStep{})
			break
		}

		origin := res.Point.Add(n.Mul(originOffset))
		if bounce.Dot(n) < 0 {
			origin = res.Point.Sub(n.Mul(originOffset))
		}
		ray = NewRay(origin, bounce)
	}

	color := stack[len(stack)-1].direct
	for i := len(stack) - 2; i >= 0; i-- {
		step := stack[i]
		color = step.direct.Add(color.MulVec(step.coeff))
	}
	return color
}

// directIllumination implements §4.6/§4.7 step 4: sample a point on the
// lights, cast a shadow ray, and return zero if occluded.
func directIllumination(scene *Scene, x Point, n, view Direction, mat Material, texColor math.Vec3, hasTexture bool, rng Sampler) math.Vec3 {
	ls, ok := scene.SampleLight(rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32())
	if !ok || ls.Pdf <= 0 {
		return math.Vec3{}
	}

	shadowOrigin := x.Add(n.Mul(originOffset))
	toLight := ls.Point.Sub(shadowOrigin)
	dist := toLight.Length()
	if dist <= 1e-6 {
		return math.Vec3{}
	}
	ws := toLight.Mul(1 / dist)

	shadowRay := NewRay(shadowOrigin, ws)
	if hit, ok := scene.Intersect(&shadowRay); ok {
		if stdmath.Abs(float64(hit.Hit.T-dist)) > shadowEpsilon {
			return math.Vec3{}
		}
	}

	// The surface cosine is applied here on top of whatever Evaluate folds
	// in, matching the indirect throughput's separate cos(n,bounce)
	// multiply below: direct and indirect must stay symmetric.
	f := Evaluate(mat, view, ws, n, texColor, hasTexture)
	cosSurface := maxf(n.Dot(ws), 0)
	cosLight := maxf(ls.Normal.Dot(ws.Mul(-1)), 0)

	denom := dist * dist * ls.Pdf
	if denom <= 0 {
		return math.Vec3{}
	}
	return ls.Radiance.MulVec(f).Mul(cosSurface * cosLight / denom)
}
