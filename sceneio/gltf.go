package sceneio

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/lumenforge/pathtracer/core"
	"github.com/lumenforge/pathtracer/math"
	"github.com/lumenforge/pathtracer/pathtracer"
)

// LoadGLTF opens a .glb or .gltf file and flattens its node hierarchy
// into world-space pathtracer.Objects, one per mesh primitive. Unlike a
// rasterizer consumer, the core never sees the node tree itself — only
// the resulting triangles — so the hierarchy is walked once at load time
// and discarded.
func LoadGLTF(path string) ([]*pathtracer.Object, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf open %q", path)
	}
	// Materials are built from PBR factors only; base-color/normal image
	// textures referenced by URI are not decoded (see DESIGN.md).
	matCache := make([]pathtracer.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := pathtracer.NewDiffuseMaterial(gm.Name, math.Vec3One)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			albedo := math.Vec3{X: float32(cf[0]), Y: float32(cf[1]), Z: float32(cf[2])}
			roughness := float32(pbr.RoughnessFactorOrDefault())
			metallic := float32(pbr.MetallicFactorOrDefault())
			if metallic > 0.05 {
				shininess := (1-roughness)*(1-roughness)*128 + 1
				specular := math.Vec3One.Mul(metallic * 0.7)
				mat = pathtracer.NewGlossyMaterial(gm.Name, albedo, specular, shininess)
			} else {
				mat = pathtracer.NewDiffuseMaterial(gm.Name, albedo)
			}
		}
		matCache[i] = mat
	}

	var objects []*pathtracer.Object

	var walk func(nodeIdx int, parent core.Transform) error
	walk = func(nodeIdx int, parent core.Transform) error {
		gn := doc.Nodes[nodeIdx]

		local := core.NewTransform()
		t := gn.TranslationOrDefault()
		local.Position = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
		sc := gn.ScaleOrDefault()
		local.Scale = math.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])}
		r := gn.RotationOrDefault()
		local.Rotation = math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}

		world := core.Transform{
			Position: parent.Position.Add(parent.Rotation.RotateVector(local.Position.MulVec(parent.Scale))),
			Rotation: parent.Rotation.Mul(local.Rotation),
			Scale:    parent.Scale.MulVec(local.Scale),
		}
		worldMat := world.GetMatrix()

		if gn.Mesh != nil {
			mesh := doc.Meshes[*gn.Mesh]
			for pi, prim := range mesh.Primitives {
				obj, err := buildGLTFPrimitive(doc, matCache, mesh.Name, pi, *prim, worldMat)
				if err != nil {
					continue
				}
				if obj != nil {
					objects = append(objects, obj)
				}
			}
		}

		for _, child := range gn.Children {
			if err := walk(int(child), world); err != nil {
				return err
			}
		}
		return nil
	}

	roots := rootNodes(doc)
	for _, r := range roots {
		if err := walk(r, core.NewTransform()); err != nil {
			return nil, err
		}
	}
	if len(objects) == 0 {
		return nil, errors.Errorf("no mesh geometry found in %q", path)
	}
	return objects, nil
}

func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		roots := make([]int, 0, len(doc.Scenes[*doc.Scene].Nodes))
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			roots = append(roots, int(idx))
		}
		return roots
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if int(c) < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func buildGLTFPrimitive(doc *gltf.Document, matCache []pathtracer.Material, meshName string, primIdx int, prim gltf.Primitive, worldMat math.Mat4) (*pathtracer.Object, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "positions")
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	normalMat := worldMat // uniform-scale assumption: reuse the world matrix for normals
	verts := make([]pathtracer.Vertex, len(positions))
	for i, p := range positions {
		world := worldMat.MulVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
		n := math.Vec3Up
		if i < len(normals) {
			nn := normals[i]
			n = normalMat.MulVec3(math.Vec3{X: nn[0], Y: nn[1], Z: nn[2]}).Sub(normalMat.MulVec3(math.Vec3Zero)).Normalize()
		}
		uv := math.Vec2{}
		if i < len(uvs) {
			uv = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = pathtracer.Vertex{Position: world, Normal: n, UV: uv}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, errors.Wrap(err, "indices")
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var tris []pathtracer.Triangle
	for i := 0; i+2 < len(indices); i += 3 {
		tri, err := pathtracer.NewTriangle(verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]])
		if errors.Is(err, pathtracer.ErrDegenerateTriangle) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tris = append(tris, tri)
	}
	if len(tris) == 0 {
		return nil, errors.New("primitive has no non-degenerate triangles")
	}

	mat := pathtracer.NewDiffuseMaterial("default", math.Vec3One)
	if prim.Material != nil && int(*prim.Material) < len(matCache) {
		mat = matCache[*prim.Material]
	}

	name := meshName
	if name == "" {
		name = "prim"
	}
	return pathtracer.NewObject(name, tris, mat, false, math.Vec3{}), nil
}
