package pathtracer

import (
	stdmath "math"

	"github.com/lumenforge/pathtracer/math"
)

// MaterialKind tags which of the four BRDF models a Material uses. Kept as
// a small tag plus coefficient fields rather than an interface: the hot
// path (Sample/Pdf/Evaluate) is a four-case switch, not dynamic dispatch.
type MaterialKind int

const (
	Diffuse MaterialKind = iota
	Glossy
	Specular
	Refraction
)

// Material is immutable after scene load. Ambient/Diffuse/Specular/
// Transmittance are 3-vectors with components in [0,1].
type Material struct {
	Name string
	Kind MaterialKind

	Ambient       math.Vec3
	Diffuse       math.Vec3
	Specular      math.Vec3
	Transmittance math.Vec3

	Shininess float32 // ns >= 0
	IOR       float32 // ni >= 1

	Texture *Texture // optional diffuse texture; nil means use Diffuse directly
}

// NewDiffuseMaterial creates a plain Lambertian material with the given
// albedo.
func NewDiffuseMaterial(name string, albedo math.Vec3) Material {
	return Material{Name: name, Kind: Diffuse, Diffuse: albedo}
}

// NewGlossyMaterial creates a Phong-lobe material with a diffuse base
// color, a specular tint, and a shininess exponent.
func NewGlossyMaterial(name string, diffuse, specular math.Vec3, shininess float32) Material {
	return Material{Name: name, Kind: Glossy, Diffuse: diffuse, Specular: specular, Shininess: shininess}
}

// NewSpecularMaterial creates a perfect mirror.
func NewSpecularMaterial(name string, specular math.Vec3) Material {
	return Material{Name: name, Kind: Specular, Specular: specular}
}

// NewRefractionMaterial creates a dielectric with the given index of
// refraction and transmittance tint.
func NewRefractionMaterial(name string, transmittance math.Vec3, ior float32) Material {
	return Material{Name: name, Kind: Refraction, Transmittance: transmittance, IOR: ior}
}

// localFrame builds an orthonormal basis (t, b, n) around n, used to map
// a cosine-weighted or Phong-lobe sample from local space into world
// space. If n is nearly the Z axis the fallback tangent (1,0,0) avoids a
// near-zero cross product.
func localFrame(n Direction) (t, b Direction) {
	if stdmath.Abs(float64(n.Z)) > 0.999 {
		t = math.Vec3{X: 1, Y: 0, Z: 0}
	} else {
		t = n.Cross(math.Vec3{X: 0, Y: 0, Z: 1}).Normalize()
	}
	b = n.Cross(t)
	return t, b
}

func toWorld(t, b, n Direction, localX, localY, localZ float32) Direction {
	return t.Mul(localX).Add(b.Mul(localY)).Add(n.Mul(localZ))
}

// Sample chooses an outgoing direction wo given the incident direction wi
// (pointing from the surface toward the previous bounce) and geometric
// normal n.
func Sample(m Material, wi Direction, n Direction, rng Sampler) Direction {
	switch m.Kind {
	case Diffuse:
		return sampleCosineHemisphere(n, rng)
	case Specular:
		return reflect(wi, n)
	case Refraction:
		return refractionSample(wi, n, m.IOR, rng)
	case Glossy:
		return sampleGlossy(wi, n, m.Shininess, rng)
	default:
		return sampleCosineHemisphere(n, rng)
	}
}

func sampleCosineHemisphere(n Direction, rng Sampler) Direction {
	u := rng.Float32()
	v := rng.Float32()
	phi := 2 * stdmath.Pi * float64(u)
	cosTheta := float32(stdmath.Sqrt(float64(v)))
	sinTheta := float32(stdmath.Sqrt(1 - float64(v)))

	t, b := localFrame(n)
	return toWorld(t, b, n,
		sinTheta*float32(stdmath.Cos(phi)),
		sinTheta*float32(stdmath.Sin(phi)),
		cosTheta,
	)
}

// reflect mirrors wi (pointing away from the surface, toward the previous
// bounce) about n, returning a direction that also points away from the
// surface. Self-inverse: reflect(reflect(wi, n), n) == wi.
func reflect(wi, n Direction) Direction {
	return n.Mul(2 * wi.Dot(n)).Sub(wi)
}

func sampleGlossy(wi, n Direction, ns float32, rng Sampler) Direction {
	mirror := reflect(wi, n)
	u := rng.Float32()
	v := rng.Float32()
	if u < 1e-6 {
		u = 1e-6
	}
	cosTheta := float32(stdmath.Pow(float64(u), 1/float64(ns+1)))
	sinTheta := float32(stdmath.Sqrt(stdmath.Max(0, 1-float64(cosTheta*cosTheta))))
	phi := 2 * stdmath.Pi * float64(v)

	t, b := localFrame(mirror)
	return toWorld(t, b, mirror,
		sinTheta*float32(stdmath.Cos(phi)),
		sinTheta*float32(stdmath.Sin(phi)),
		cosTheta,
	)
}

// refractionSample computes Snell transmission, re-orienting the normal
// so cos_i > 0 regardless of which side of the surface wi approaches
// from, and falling back to reflection on total internal reflection.
func refractionSample(wi, n Direction, ior float32, rng Sampler) Direction {
	_ = rng // refraction is a delta lobe; no randomness is consumed
	cosI := wi.Dot(n)
	etaI, etaT := float32(1), ior
	nn := n
	if cosI < 0 {
		cosI = -cosI
		nn = n.Mul(-1)
		etaI, etaT = etaT, etaI
	}

	eta := etaI / etaT
	sin2T := eta * eta * stdmath.Max(0, 1-float64(cosI*cosI))
	if sin2T >= 1 {
		return reflect(wi, n)
	}
	cosT := float32(stdmath.Sqrt(1 - sin2T))
	return wi.Mul(-1).Mul(eta).Add(nn.Mul(eta*cosI - cosT))
}

// Pdf is the probability density of the direction sampled by Sample, in
// units of inverse solid angle. Specular/Refraction are delta
// distributions; by convention their density is reported as 1 and the
// caller must not divide by a solid-angle measure for them.
func Pdf(m Material, wi, wo Direction, n Direction) float32 {
	switch m.Kind {
	case Diffuse:
		return 1 / (2 * stdmath.Pi)
	case Specular, Refraction:
		return 1
	case Glossy:
		ns := float64(m.Shininess)
		if ns <= 0 {
			ns = 1
		}
		return float32(1/(2*stdmath.Pi*ns) + (1 - 1/ns))
	default:
		return 1 / (2 * stdmath.Pi)
	}
}

// Evaluate returns the BRDF value with max(cos(n,wo),0) already folded
// in. The integrator multiplies by cos(n,wo) once more on top of this, in
// both the direct-light term and the indirect throughput, so the two stay
// symmetric.
func Evaluate(m Material, wi, wo Direction, n Direction, textured math.Vec3, hasTexture bool) math.Vec3 {
	switch m.Kind {
	case Diffuse:
		cos := maxf(n.Dot(wo), 0)
		albedo := m.Diffuse
		if hasTexture {
			albedo = textured
		}
		return albedo.Mul(cos / stdmath.Pi)
	case Glossy:
		cos := maxf(n.Dot(wo), 0)
		albedo := m.Diffuse
		if hasTexture {
			albedo = textured
		}
		diffuseTerm := albedo.Mul(cos / stdmath.Pi)
		h := wi.Add(wo).Normalize()
		specTerm := m.Specular.Mul(float32(stdmath.Pow(float64(maxf(n.Dot(h), 0)), float64(m.Shininess))))
		return diffuseTerm.Add(specTerm)
	case Specular, Refraction:
		return math.Vec3{}
	default:
		return math.Vec3{}
	}
}

// Fresnel is the Schlick-approximated dielectric reflectance. Always in
// [0,1]; returns 1 on total internal reflection. Shade does not call it:
// a Refraction material always follows refractionSample's transmitted
// direction, and reflects only on total internal reflection.
func Fresnel(wi, n Direction, ior float32) float32 {
	cosI := wi.Dot(n)
	etaI, etaT := float32(1), ior
	if cosI > 0 {
		etaI, etaT = etaT, etaI
	} else {
		cosI = -cosI
	}

	eta := etaI / etaT
	sin2T := eta * eta * stdmath.Max(0, 1-float64(cosI*cosI))
	if sin2T >= 1 {
		return 1
	}
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	x := 1 - cosI
	return r0 + (1-r0)*float32(stdmath.Pow(float64(x), 5))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
