package pathtracer

import "sort"

// sceneBVHNode mirrors bvhNode's shape but its leaves carry an object
// index rather than a triangle.
type sceneBVHNode struct {
	Bounds AABB
	Area   float32
	Leaf   bool

	ObjectIndex int

	Left, Right uint32
}

// SceneBVH accelerates ray intersection over the objects of a Scene,
// delegating leaf-level intersection to each object's own BVH. Objects
// with the "Blinds" material convention are excluded entirely at build
// time: the renderer must never report a hit against one.
type SceneBVH struct {
	nodes   []sceneBVHNode
	objects []*Object
	// indices maps a compacted build-time index back into objects, since
	// Blinds objects are filtered out before the tree is built.
	indices []int
}

// BuildSceneBVH constructs the scene-level BVH over objects, skipping any
// object whose material is named "Blinds" per spec §4.4.
func BuildSceneBVH(objects []*Object) *SceneBVH {
	b := &SceneBVH{objects: objects}
	for i, o := range objects {
		if o.IsBlinds() {
			continue
		}
		b.indices = append(b.indices, i)
	}
	if len(b.indices) > 0 {
		b.build(rangeIndices(len(b.indices)))
	}
	return b
}

func rangeIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// build operates on indices into b.indices (not directly into b.objects).
func (b *SceneBVH) build(localIdx []int) uint32 {
	bounds := EmptyAABB()
	var area float32
	for _, li := range localIdx {
		o := b.objects[b.indices[li]]
		bounds = bounds.Union(o.Bounds)
		area += o.Area
	}

	if len(localIdx) == 1 {
		idx := uint32(len(b.nodes))
		b.nodes = append(b.nodes, sceneBVHNode{
			Bounds:      bounds,
			Area:        area,
			Leaf:        true,
			ObjectIndex: b.indices[localIdx[0]],
		})
		return idx
	}

	if len(localIdx) == 2 {
		idx := uint32(len(b.nodes))
		b.nodes = append(b.nodes, sceneBVHNode{Bounds: bounds, Area: area})
		left := b.build(localIdx[:1])
		right := b.build(localIdx[1:])
		b.nodes[idx].Left = left
		b.nodes[idx].Right = right
		return idx
	}

	axis := bounds.LongestAxis()
	sorted := make([]int, len(localIdx))
	copy(sorted, localIdx)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi := b.objects[b.indices[sorted[i]]]
		oj := b.objects[b.indices[sorted[j]]]
		return oi.Bounds.Min.Component(axis) < oj.Bounds.Min.Component(axis)
	})
	mid := len(sorted) / 2

	idx := uint32(len(b.nodes))
	b.nodes = append(b.nodes, sceneBVHNode{Bounds: bounds, Area: area})
	left := b.build(sorted[:mid])
	right := b.build(sorted[mid:])
	b.nodes[idx].Left = left
	b.nodes[idx].Right = right
	return idx
}

// SceneHit is the result of intersecting a ray against the whole scene.
type SceneHit struct {
	ObjectIndex int
	Object      *Object
	Triangle    Triangle
	Hit         TriangleHit
}

// Intersect walks the scene BVH, delegating to each leaf object's own BVH
// and keeping the closer of the two subtree results at every internal
// node, exactly as the object-level traversal does.
func (b *SceneBVH) Intersect(ray *Ray) (SceneHit, bool) {
	if len(b.nodes) == 0 {
		return SceneHit{}, false
	}
	return b.intersectNode(0, ray)
}

func (b *SceneBVH) intersectNode(nodeIdx uint32, ray *Ray) (SceneHit, bool) {
	node := &b.nodes[nodeIdx]
	if !RayAABBIntersect(*ray, node.Bounds) {
		return SceneHit{}, false
	}

	if node.Leaf {
		obj := b.objects[node.ObjectIndex]
		objHit, ok := obj.Intersect(ray)
		if !ok {
			return SceneHit{}, false
		}
		return SceneHit{ObjectIndex: node.ObjectIndex, Object: obj, Triangle: objHit.Triangle, Hit: objHit.Hit}, true
	}

	leftHit, leftOK := b.intersectNode(node.Left, ray)
	rightHit, rightOK := b.intersectNode(node.Right, ray)
	switch {
	case leftOK && rightOK:
		if rightHit.Hit.T < leftHit.Hit.T {
			return rightHit, true
		}
		return leftHit, true
	case leftOK:
		return leftHit, true
	case rightOK:
		return rightHit, true
	default:
		return SceneHit{}, false
	}
}
