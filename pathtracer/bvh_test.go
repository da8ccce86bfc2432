package pathtracer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/pathtracer/math"
)

func triAt(cx, cz float32) Triangle {
	tri, err := NewTriangle(
		vertex(cx-0.5, 0, cz-0.5),
		vertex(cx+0.5, 0, cz-0.5),
		vertex(cx, 0, cz+0.5),
	)
	if err != nil {
		panic(err)
	}
	return tri
}

func TestObjectBVHCoversAllTriangles(t *testing.T) {
	assert := assert.New(t)

	var tris []Triangle
	for i := 0; i < 20; i++ {
		tris = append(tris, triAt(float32(i), float32(i%3)))
	}
	bvh := BuildObjectBVH(tris)

	rootBounds, rootArea := bvh.Root()
	want := EmptyAABB()
	var wantArea float32
	for _, tr := range tris {
		want = want.Union(tr.Bounds)
		wantArea += tr.Area
	}

	assert.Equal(want.Min, rootBounds.Min)
	assert.Equal(want.Max, rootBounds.Max)
	assert.InDelta(wantArea, rootArea, 1e-3)
}

func TestObjectBVHRayHitsClosest(t *testing.T) {
	assert := assert.New(t)

	// Both triangles get a geometric normal of +Z (average shading normal
	// is +Y, which doesn't flip it), so a ray must travel in -Z to pass
	// the back-face cull and strike either one.
	front, err := NewTriangle(vertex(-1, -1, 5), vertex(1, -1, 5), vertex(0, 1, 5))
	require.NoError(t, err)
	behind, err := NewTriangle(vertex(-1, -1, 1), vertex(1, -1, 1), vertex(0, 1, 1))
	require.NoError(t, err)

	bvh := BuildObjectBVH([]Triangle{behind, front})
	ray := NewRay(math.Vec3{X: 0, Y: -0.3, Z: 10}, math.Vec3{X: 0, Y: 0, Z: -1})

	hit, ok := bvh.Intersect(&ray)
	assert.True(ok)
	assert.InDelta(float32(5), hit.Hit.T, 1e-3)
}

// TestObjectBVHSampleDensityConvergesToAreaRatio checks that Sample's
// implicit per-leaf selection probability is proportional to leaf area:
// points falling within the small triangle's footprint should occur with
// a frequency close to its share of the total area.
func TestObjectBVHSampleDensityConvergesToAreaRatio(t *testing.T) {
	assert := assert.New(t)

	big := triAt(0, 0)
	small, err := NewTriangle(vertex(10, 0, 0), vertex(10.1, 0, 0), vertex(10, 0, 0.1))
	require.NoError(t, err)

	bvh := BuildObjectBVH([]Triangle{big, small})
	totalArea := big.Area + small.Area

	rng := rand.New(rand.NewSource(7))
	const n = 20000
	var smallCount int
	for i := 0; i < n; i++ {
		point, _, _ := bvh.Sample(rng.Float32()*totalArea, rng.Float32(), rng.Float32())
		if point.X > 5 {
			smallCount++
		}
	}

	got := float64(smallCount) / float64(n)
	want := float64(small.Area / totalArea)
	assert.InDelta(want, got, 0.01)
}

func TestSceneBVHExcludesBlinds(t *testing.T) {
	assert := assert.New(t)

	// triAt's triangles lie flat in the XZ plane with a +Y normal, so a
	// ray must come from above travelling downward to pass the back-face
	// cull and hit one.
	visible := NewObject("visible", []Triangle{triAt(0, 0)}, NewDiffuseMaterial("m", math.Vec3One), false, math.Vec3{})
	blinds := NewObject("occluder", []Triangle{triAt(0, 0)}, NewDiffuseMaterial("Blinds", math.Vec3One), false, math.Vec3{})

	bvh := BuildSceneBVH([]*Object{blinds, visible})

	ray := NewRay(math.Vec3{X: 0, Y: 5, Z: -0.17}, math.Vec3{X: 0, Y: -1, Z: 0})
	hit, ok := bvh.Intersect(&ray)
	assert.True(ok)
	assert.Equal(visible, hit.Object)
}

func TestSceneBVHMatchesLinearSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	var objects []*Object
	for i := 0; i < 64; i++ {
		var tris []Triangle
		for j := 0; j < 16; j++ {
			cx := rng.Float32()*40 - 20
			cz := rng.Float32()*40 - 20
			tris = append(tris, triAt(cx, cz))
		}
		objects = append(objects, NewObject("o", tris, NewDiffuseMaterial("m", math.Vec3One), false, math.Vec3{}))
	}
	bvh := BuildSceneBVH(objects)

	for trial := 0; trial < 200; trial++ {
		// All triangles lie flat in the XZ plane with a +Y normal, so rays
		// are cast from above travelling down to have a chance of hitting.
		x := rng.Float32()*40 - 20
		z := rng.Float32()*40 - 20
		origin := math.Vec3{X: x, Y: 50, Z: z}
		target := math.Vec3{X: x, Y: -50, Z: z}
		dir := target.Sub(origin).Normalize()

		bvhRay := NewRay(origin, dir)
		bvhHit, bvhOK := bvh.Intersect(&bvhRay)

		linearRay := NewRay(origin, dir)
		var linearHit SceneHit
		linearOK := false
		for _, obj := range objects {
			for _, tri := range obj.Triangles {
				if h, ok := RayTriangleIntersect(linearRay, tri); ok && h.T < linearRay.T {
					linearRay.T = h.T
					linearHit = SceneHit{Object: obj, Triangle: tri, Hit: h}
					linearOK = true
				}
			}
		}

		if !linearOK {
			assert := assert.New(t)
			assert.False(bvhOK)
			continue
		}
		assert := assert.New(t)
		require.True(t, bvhOK)
		assert.InDelta(linearHit.Hit.T, bvhHit.Hit.T, 1e-3)
	}
}
