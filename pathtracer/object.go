package pathtracer

import "github.com/lumenforge/pathtracer/math"

// blindsMaterialName is the scene-authoring convention (inherited from the
// original renderer's asset set) that marks an object invisible to rays:
// such objects exist only to cast shadows for the rasterizer sibling
// renderer and must be skipped entirely by the path tracer's scene BVH.
const blindsMaterialName = "Blinds"

// Object owns an ordered list of triangles, a material, and the derived
// quantities (bounds, total area) the scene BVH needs to treat it as a
// single leaf. Ownership: the Scene owns all Objects; the object's BVH
// shares the Triangles slice of Triangle values and its leaves refer to
// triangles by index into it.
type Object struct {
	Name      string
	Triangles []Triangle
	Material  Material
	IsLight   bool
	Radiance  math.Vec3 // meaningful only if IsLight

	Bounds AABB
	Area   float32

	bvh *ObjectBVH
}

// NewObject computes Bounds/Area and builds the object's BVH. Triangles
// must already be validated (non-degenerate) by the caller.
func NewObject(name string, tris []Triangle, mat Material, isLight bool, radiance math.Vec3) *Object {
	bounds := EmptyAABB()
	var area float32
	for _, t := range tris {
		bounds = bounds.Union(t.Bounds)
		area += t.Area
	}
	return &Object{
		Name:      name,
		Triangles: tris,
		Material:  mat,
		IsLight:   isLight,
		Radiance:  radiance,
		Bounds:    bounds,
		Area:      area,
		bvh:       BuildObjectBVH(tris),
	}
}

// IsBlinds reports whether this object is the "invisible to rays"
// scene-authoring convention described in spec §4.4.
func (o *Object) IsBlinds() bool {
	return o.Material.Name == blindsMaterialName
}

// Intersect delegates to the object's BVH.
func (o *Object) Intersect(ray *Ray) (ObjectHit, bool) {
	return o.bvh.Intersect(ray)
}

// Sample draws a uniformly area-weighted point and its density 1/Area on
// the object's surface.
func (o *Object) Sample(p, u, v float32) (point Point, normal Direction, pdf float32) {
	return o.bvh.Sample(p, u, v)
}
