package sceneio

import (
	stdmath "math"

	"github.com/lumenforge/pathtracer/math"
	"github.com/lumenforge/pathtracer/pathtracer"
)

// CreateQuad builds a two-triangle quad centered at the origin in the XZ
// plane, facing +Y, with the given width/depth. Useful for Cornell-box
// walls, floors, ceilings, and area lights.
func CreateQuad(width, depth float32) []pathtracer.Triangle {
	hw, hd := width/2, depth/2
	normal := math.Vec3Up

	a := pathtracer.Vertex{Position: math.Vec3{X: -hw, Y: 0, Z: -hd}, Normal: normal, UV: math.Vec2{X: 0, Y: 0}}
	b := pathtracer.Vertex{Position: math.Vec3{X: hw, Y: 0, Z: -hd}, Normal: normal, UV: math.Vec2{X: 1, Y: 0}}
	c := pathtracer.Vertex{Position: math.Vec3{X: hw, Y: 0, Z: hd}, Normal: normal, UV: math.Vec2{X: 1, Y: 1}}
	d := pathtracer.Vertex{Position: math.Vec3{X: -hw, Y: 0, Z: hd}, Normal: normal, UV: math.Vec2{X: 0, Y: 1}}

	return mustTriangles(
		[3]pathtracer.Vertex{a, b, c},
		[3]pathtracer.Vertex{a, c, d},
	)
}

// CreateCube builds the 12 triangles (2 per face) of an axis-aligned cube
// of the given side length, centered at the origin, with outward normals.
func CreateCube(side float32) []pathtracer.Triangle {
	h := side / 2

	type face struct {
		normal             math.Vec3
		v0, v1, v2, v3     math.Vec3
	}
	faces := []face{
		{math.Vec3{X: 0, Y: 0, Z: 1}, v(-h, -h, h), v(h, -h, h), v(h, h, h), v(-h, h, h)},
		{math.Vec3{X: 0, Y: 0, Z: -1}, v(h, -h, -h), v(-h, -h, -h), v(-h, h, -h), v(h, h, -h)},
		{math.Vec3{X: 1, Y: 0, Z: 0}, v(h, -h, h), v(h, -h, -h), v(h, h, -h), v(h, h, h)},
		{math.Vec3{X: -1, Y: 0, Z: 0}, v(-h, -h, -h), v(-h, -h, h), v(-h, h, h), v(-h, h, -h)},
		{math.Vec3{X: 0, Y: 1, Z: 0}, v(-h, h, h), v(h, h, h), v(h, h, -h), v(-h, h, -h)},
		{math.Vec3{X: 0, Y: -1, Z: 0}, v(-h, -h, -h), v(h, -h, -h), v(h, -h, h), v(-h, -h, h)},
	}

	var tris []pathtracer.Triangle
	for _, f := range faces {
		a := pathtracer.Vertex{Position: f.v0, Normal: f.normal, UV: math.Vec2{X: 0, Y: 0}}
		b := pathtracer.Vertex{Position: f.v1, Normal: f.normal, UV: math.Vec2{X: 1, Y: 0}}
		c := pathtracer.Vertex{Position: f.v2, Normal: f.normal, UV: math.Vec2{X: 1, Y: 1}}
		d := pathtracer.Vertex{Position: f.v3, Normal: f.normal, UV: math.Vec2{X: 0, Y: 1}}
		tris = append(tris, mustTriangles([3]pathtracer.Vertex{a, b, c}, [3]pathtracer.Vertex{a, c, d})...)
	}
	return tris
}

func v(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

// planeSubdivisions is the grid resolution CreatePlane tessellates into,
// mirroring the teacher's CreatePlane's default-subdivision grid so a
// large ground plane still gets a well-conditioned set of leaf AABBs in
// the object BVH instead of two triangles spanning the whole extent.
const planeSubdivisions = 4

// CreatePlane builds a subdivided flat plane in the XZ plane, centered at
// the origin and facing +Y, with the given width/depth. Unlike CreateQuad
// (a single two-triangle quad), CreatePlane tessellates into a grid,
// following the teacher's ground-plane generator.
func CreatePlane(width, depth float32) ([]pathtracer.Triangle, error) {
	const n = planeSubdivisions
	halfW, halfD := width/2, depth/2
	normal := math.Vec3Up

	vertexAt := func(x, z int) pathtracer.Vertex {
		u := float32(x) / float32(n)
		w := float32(z) / float32(n)
		return pathtracer.Vertex{
			Position: math.Vec3{X: -halfW + u*width, Y: 0, Z: -halfD + w*depth},
			Normal:   normal,
			UV:       math.Vec2{X: u, Y: w},
		}
	}

	var tris []pathtracer.Triangle
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			a := vertexAt(x, z)
			b := vertexAt(x+1, z)
			c := vertexAt(x+1, z+1)
			d := vertexAt(x, z+1)

			tri1, err := pathtracer.NewTriangle(a, b, c)
			if err != nil {
				return nil, err
			}
			tri2, err := pathtracer.NewTriangle(a, c, d)
			if err != nil {
				return nil, err
			}
			tris = append(tris, tri1, tri2)
		}
	}
	return tris, nil
}

// CreateSphere generates a UV-sphere of the given radius, subdivided into
// segments longitude bands and rings latitude bands.
func CreateSphere(radius float32, segments, rings int) []pathtracer.Triangle {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	type vert struct {
		pos, normal math.Vec3
		uv          math.Vec2
	}
	verts := make([]vert, 0, (rings+1)*(segments+1))
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi, cosPhi := float32(stdmath.Sin(phi)), float32(stdmath.Cos(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * stdmath.Pi / float64(segments)
			sinTheta, cosTheta := float32(stdmath.Sin(theta)), float32(stdmath.Cos(theta))
			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			verts = append(verts, vert{
				pos:    normal.Mul(radius),
				normal: normal,
				uv:     math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	toVertex := func(i int) pathtracer.Vertex {
		vv := verts[i]
		return pathtracer.Vertex{Position: vv.pos, Normal: vv.normal, UV: vv.uv}
	}

	var tris []pathtracer.Triangle
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := ring*(segments+1) + seg
			next := current + segments + 1
			tris = append(tris, mustTriangles(
				[3]pathtracer.Vertex{toVertex(current), toVertex(next), toVertex(current + 1)},
				[3]pathtracer.Vertex{toVertex(current + 1), toVertex(next), toVertex(next + 1)},
			)...)
		}
	}
	return tris
}

// mustTriangles builds triangles from vertex triples, silently dropping
// any that are degenerate (shared edges at the poles of a UV-sphere
// produce these at low segment counts).
func mustTriangles(triples ...[3]pathtracer.Vertex) []pathtracer.Triangle {
	var out []pathtracer.Triangle
	for _, t := range triples {
		tri, err := pathtracer.NewTriangle(t[0], t[1], t[2])
		if err != nil {
			continue
		}
		out = append(out, tri)
	}
	return out
}
