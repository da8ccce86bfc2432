package pathtracer

import "sort"

// noChild marks the absence of a child index in a BVH node array.
const noChild = ^uint32(0)

// bvhNode is one entry of a flat, topologically-ordered node array: every
// child index refers to a node later in the array, so node 0 is always
// the root. Internal nodes carry child indices; leaves carry a triangle
// index into the owning Object.Triangles slice.
type bvhNode struct {
	Bounds AABB
	Area   float32
	Leaf   bool

	TriangleIndex int // valid when Leaf

	Left, Right uint32 // valid when !Leaf
}

// ObjectBVH accelerates ray intersection and area-weighted sampling over
// the triangles of a single Object.
type ObjectBVH struct {
	nodes     []bvhNode
	triangles []Triangle
}

// BuildObjectBVH constructs a top-down, median-split BVH over tris. The
// split axis is always the longest axis of the current node's bounds;
// ties in the sort are broken by slice order, which combined with
// Go's stable sort makes the build deterministic.
func BuildObjectBVH(tris []Triangle) *ObjectBVH {
	b := &ObjectBVH{triangles: tris}
	indices := make([]int, len(tris))
	for i := range indices {
		indices[i] = i
	}
	if len(tris) > 0 {
		b.build(indices)
	}
	return b
}

// build appends nodes for the given triangle index set and returns the
// index of the node it created. That node is appended before its
// children, so it is the first node of its own subtree; a right child
// follows the whole left subtree rather than its sibling, so callers must
// capture the returned index rather than assume adjacency.
func (b *ObjectBVH) build(indices []int) uint32 {
	bounds := EmptyAABB()
	var area float32
	for _, i := range indices {
		bounds = bounds.Union(b.triangles[i].Bounds)
		area += b.triangles[i].Area
	}

	if len(indices) == 1 {
		idx := uint32(len(b.nodes))
		b.nodes = append(b.nodes, bvhNode{
			Bounds:        bounds,
			Area:          area,
			Leaf:          true,
			TriangleIndex: indices[0],
		})
		return idx
	}

	if len(indices) == 2 {
		idx := uint32(len(b.nodes))
		b.nodes = append(b.nodes, bvhNode{Bounds: bounds, Area: area}) // placeholder, patched below
		leftIdx := b.build(indices[:1])
		rightIdx := b.build(indices[1:])
		b.nodes[idx].Left = leftIdx
		b.nodes[idx].Right = rightIdx
		return idx
	}

	axis := bounds.LongestAxis()
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return b.triangles[sorted[i]].Bounds.Min.Component(axis) < b.triangles[sorted[j]].Bounds.Min.Component(axis)
	})
	mid := len(sorted) / 2

	idx := uint32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{Bounds: bounds, Area: area})
	leftIdx := b.build(sorted[:mid])
	rightIdx := b.build(sorted[mid:])
	b.nodes[idx].Left = leftIdx
	b.nodes[idx].Right = rightIdx
	return idx
}

// Root returns the AABB and area of the root node, or EmptyAABB() and
// zero area for an empty BVH.
func (b *ObjectBVH) Root() (AABB, float32) {
	if len(b.nodes) == 0 {
		return EmptyAABB(), 0
	}
	return b.nodes[0].Bounds, b.nodes[0].Area
}

// ObjectHit is the result of intersecting a ray against a single Object's
// triangles via its BVH.
type ObjectHit struct {
	Triangle      Triangle
	TriangleIndex int
	Hit           TriangleHit
}

// Intersect walks the BVH, shrinking ray.T as closer hits are found so
// that sibling subtrees can be pruned by their AABB test. It returns the
// closest hit within the original ray.T, if any.
func (b *ObjectBVH) Intersect(ray *Ray) (ObjectHit, bool) {
	if len(b.nodes) == 0 {
		return ObjectHit{}, false
	}
	return b.intersectNode(0, ray)
}

func (b *ObjectBVH) intersectNode(nodeIdx uint32, ray *Ray) (ObjectHit, bool) {
	node := &b.nodes[nodeIdx]
	if !RayAABBIntersect(*ray, node.Bounds) {
		return ObjectHit{}, false
	}

	if node.Leaf {
		tri := b.triangles[node.TriangleIndex]
		hit, ok := RayTriangleIntersect(*ray, tri)
		if !ok {
			return ObjectHit{}, false
		}
		ray.T = hit.T
		return ObjectHit{Triangle: tri, TriangleIndex: node.TriangleIndex, Hit: hit}, true
	}

	leftHit, leftOK := b.intersectNode(node.Left, ray)
	rightHit, rightOK := b.intersectNode(node.Right, ray)
	switch {
	case leftOK && rightOK:
		// Ties go to the child visited first (left); the two hit points
		// are geometrically identical to within epsilon in that case.
		if rightHit.Hit.T < leftHit.Hit.T {
			return rightHit, true
		}
		return leftHit, true
	case leftOK:
		return leftHit, true
	case rightOK:
		return rightHit, true
	default:
		return ObjectHit{}, false
	}
}

// Sample draws a uniformly area-weighted point on the object's surface
// from two independent uniforms p (selecting a leaf, scaled by area) and
// (u,v) (selecting a point within that leaf's triangle). The returned
// density is 1/A_root.
func (b *ObjectBVH) Sample(p, u, v float32) (point Point, normal Direction, pdf float32) {
	if len(b.nodes) == 0 {
		return Point{}, Direction{}, 0
	}
	_, rootArea := b.Root()
	point, normal = b.sampleNode(0, p, u, v)
	if rootArea <= 0 {
		return point, normal, 0
	}
	return point, normal, 1 / rootArea
}

func (b *ObjectBVH) sampleNode(nodeIdx uint32, p, u, v float32) (Point, Direction) {
	node := &b.nodes[nodeIdx]
	if node.Leaf {
		tri := b.triangles[node.TriangleIndex]
		return tri.SamplePoint(u, v)
	}
	leftArea := b.nodes[node.Left].Area
	if p < leftArea {
		return b.sampleNode(node.Left, p, u, v)
	}
	return b.sampleNode(node.Right, p-leftArea, u, v)
}
