package pathtracer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenforge/pathtracer/math"
)

func vertex(x, y, z float32) Vertex {
	return Vertex{Position: math.Vec3{X: x, Y: y, Z: z}, Normal: math.Vec3Up}
}

func TestAABBUnionMonotonicity(t *testing.T) {
	assert := assert.New(t)

	a := AABB{Min: math.Vec3{X: 0, Y: 0, Z: 0}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	b := AABB{Min: math.Vec3{X: 2, Y: -1, Z: 0}, Max: math.Vec3{X: 3, Y: 0, Z: 1}}

	u := a.Union(b)
	assert.True(u.ContainsPoint(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}))
	assert.True(u.ContainsPoint(math.Vec3{X: 2.5, Y: -0.5, Z: 0.5}))

	assert.Equal(a, a.Union(EmptyAABB()))
}

func TestTriangleAreaMatchesEdgeCross(t *testing.T) {
	assert := assert.New(t)

	tri, err := NewTriangle(vertex(0, 0, 0), vertex(1, 0, 0), vertex(0, 1, 0))
	assert.NoError(err)

	expected := 0.5 * tri.Edge1.Cross(tri.Edge2).Length()
	assert.InDelta(expected, tri.Area, 1e-6)
	assert.Greater(tri.Area, float32(0))
}

func TestNewTriangleRejectsDegenerate(t *testing.T) {
	assert := assert.New(t)

	_, err := NewTriangle(vertex(0, 0, 0), vertex(1, 0, 0), vertex(2, 0, 0))
	assert.ErrorIs(err, ErrDegenerateTriangle)
}

func TestBackFacePolicy(t *testing.T) {
	assert := assert.New(t)

	tri, err := NewTriangle(vertex(-1, -1, 0), vertex(1, -1, 0), vertex(0, 1, 0))
	assert.NoError(err)

	// The geometric normal points toward +Z here, so a ray approaching
	// from +Z (travelling in -Z) strikes the front face.
	frontRay := NewRay(math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{X: 0, Y: 0, Z: -1})
	_, hit := RayTriangleIntersect(frontRay, tri)
	assert.True(hit)

	backRay := NewRay(math.Vec3{X: 0, Y: 0, Z: -1}, math.Vec3{X: 0, Y: 0, Z: 1})
	_, hit = RayTriangleIntersect(backRay, tri)
	assert.False(hit)
}

func TestRayAABBIntersect(t *testing.T) {
	assert := assert.New(t)
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	hitRay := NewRay(math.Vec3{X: -5, Y: 0, Z: 0}, math.Vec3{X: 1, Y: 0, Z: 0})
	assert.True(RayAABBIntersect(hitRay, box))

	missRay := NewRay(math.Vec3{X: -5, Y: 5, Z: 0}, math.Vec3{X: 1, Y: 0, Z: 0})
	assert.False(RayAABBIntersect(missRay, box))

	insideRay := NewRay(math.Vec3{X: 0, Y: 0, Z: 0}, math.Vec3{X: 1, Y: 0, Z: 0})
	assert.True(RayAABBIntersect(insideRay, box))
}
