package pathtracer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenforge/pathtracer/math"
)

func TestReflectIsSelfInverse(t *testing.T) {
	assert := assert.New(t)

	n := math.Vec3{X: 0, Y: 1, Z: 0}.Normalize()
	wi := math.Vec3{X: 0.3, Y: -0.7, Z: 0.4}.Normalize()

	once := reflect(wi, n)
	twice := reflect(once, n)

	assert.InDelta(wi.X, twice.X, 1e-5)
	assert.InDelta(wi.Y, twice.Y, 1e-5)
	assert.InDelta(wi.Z, twice.Z, 1e-5)
}

// TestRefractionMatchedIndexIsStraightThrough checks that refracting
// across an interface with ior 1 (no index mismatch) leaves the ray
// direction unbent: physically, a transmitted ray continues in -wi's
// direction (straight through the surface), not back toward wi's origin.
func TestRefractionMatchedIndexIsStraightThrough(t *testing.T) {
	assert := assert.New(t)

	n := math.Vec3{X: 0, Y: 1, Z: 0}
	wi := math.Vec3{X: 0.2, Y: -0.9, Z: 0.1}.Normalize()
	want := wi.Mul(-1)

	got := refractionSample(wi, n, 1.0, nil)
	assert.InDelta(float64(want.X), float64(got.X), 1e-5)
	assert.InDelta(float64(want.Y), float64(got.Y), 1e-5)
	assert.InDelta(float64(want.Z), float64(got.Z), 1e-5)

	flipped := refractionSample(wi, n.Mul(-1), 1.0, nil)
	assert.InDelta(float64(want.X), float64(flipped.X), 1e-5)
	assert.InDelta(float64(want.Y), float64(flipped.Y), 1e-5)
	assert.InDelta(float64(want.Z), float64(flipped.Z), 1e-5)
}

// TestRefractionBendsTowardNormalEnteringDenserMedium pins the refracted
// direction for a non-matched index against a hand-computed value, so a
// sign regression in refractionSample can't hide behind the degenerate
// matched-index case above (where the bend term vanishes regardless of
// sign). wi makes a 30-degree angle with n=(0,1,0); ior=1.5.
func TestRefractionBendsTowardNormalEnteringDenserMedium(t *testing.T) {
	assert := assert.New(t)

	n := math.Vec3{X: 0, Y: 1, Z: 0}
	wi := math.Vec3{X: 0.5, Y: 0.8660254, Z: 0}
	want := math.Vec3{X: -0.3333333, Y: -0.9428090, Z: 0}

	got := refractionSample(wi, n, 1.5, nil)
	assert.InDelta(float64(want.X), float64(got.X), 1e-5)
	assert.InDelta(float64(want.Y), float64(got.Y), 1e-5)
	assert.InDelta(float64(want.Z), float64(got.Z), 1e-5)
}

func TestPdfIsPositiveForEveryKind(t *testing.T) {
	assert := assert.New(t)

	n := math.Vec3Up
	wi := math.Vec3{X: 0, Y: 1, Z: 0}
	wo := math.Vec3{X: 0.1, Y: 1, Z: 0}.Normalize()

	kinds := []Material{
		NewDiffuseMaterial("d", math.Vec3One),
		NewGlossyMaterial("g", math.Vec3One, math.Vec3One, 32),
		NewSpecularMaterial("s", math.Vec3One),
		NewRefractionMaterial("r", math.Vec3One, 1.5),
	}
	for _, m := range kinds {
		assert.Greater(Pdf(m, wi, wo, n), float32(0))
	}
}

func TestEvaluateIsZeroForDeltaMaterials(t *testing.T) {
	assert := assert.New(t)

	n := math.Vec3Up
	wi := math.Vec3{X: 0, Y: 1, Z: 0}
	wo := math.Vec3{X: 0, Y: 1, Z: 0}

	specular := NewSpecularMaterial("s", math.Vec3One)
	refraction := NewRefractionMaterial("r", math.Vec3One, 1.5)

	assert.Equal(math.Vec3{}, Evaluate(specular, wi, wo, n, math.Vec3{}, false))
	assert.Equal(math.Vec3{}, Evaluate(refraction, wi, wo, n, math.Vec3{}, false))
}

func TestEvaluateDiffuseFoldsCosine(t *testing.T) {
	assert := assert.New(t)

	m := NewDiffuseMaterial("d", math.Vec3One)
	n := math.Vec3Up
	wi := math.Vec3Up

	grazing := Evaluate(m, wi, math.Vec3{X: 1, Y: 0, Z: 0}, n, math.Vec3{}, false)
	straight := Evaluate(m, wi, math.Vec3Up, n, math.Vec3{}, false)

	assert.InDelta(float64(0), float64(grazing.X), 1e-6)
	assert.Greater(straight.X, float32(0))
}

func TestFresnelReturnsOneOnTotalInternalReflection(t *testing.T) {
	assert := assert.New(t)

	n := math.Vec3Up
	// wi.Dot(n) = cos(60deg) = 0.5, beyond ior 1.5's ~41.8deg critical
	// angle, so the ray (travelling from inside the denser medium) cannot
	// refract out.
	wi := math.Vec3{X: 0.8660254, Y: 0.5, Z: 0}
	f := Fresnel(wi, n, 1.5)
	assert.Equal(float32(1), f)
}
