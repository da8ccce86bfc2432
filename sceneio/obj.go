// Package sceneio loads Scene Input records (§6) from on-disk formats —
// Wavefront OBJ+MTL, glTF, and a small native JSON scene format — and
// builds the immutable pathtracer.Object/Triangle data the core consumes.
// None of this package is part of the core; it is the loader collaborator
// the core's documentation describes but does not implement itself.
package sceneio

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lumenforge/pathtracer/math"
	"github.com/lumenforge/pathtracer/pathtracer"
)

type objFace struct {
	vIdx, vtIdx, vnIdx [3]int
}

// LoadOBJ parses a Wavefront .obj file and returns one Object per
// OBJ object/group, each ready to hand to pathtracer.NewScene. A
// companion .mtl file is loaded automatically if referenced via
// "mtllib". Degenerate faces are skipped rather than rejecting the
// whole file, per the triangle-level invariant of spec §3.
func LoadOBJ(path string) ([]*pathtracer.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open obj %q", path)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	materials := map[string]pathtracer.Material{}

	type objObject struct {
		name    string
		matName string
		faces   []objFace
	}
	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			positions = append(positions, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vn":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			normals = append(normals, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				loaded, err := loadMTL(filepath.Join(dir, fields[1]), dir)
				if err == nil {
					for k, v := range loaded {
						materials[k] = v
					}
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			type fv struct{ v, vt, vn int }
			var fverts []fv
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok))
			}
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan obj")
	}
	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, errors.Errorf("no geometry found in %q", path)
	}

	result := make([]*pathtracer.Object, 0, len(objects))
	for _, obj := range objects {
		tris, err := buildTriangles(obj.faces, positions, normals, uvs)
		if err != nil {
			return nil, err
		}
		mat, ok := materials[obj.matName]
		if !ok {
			mat = pathtracer.NewDiffuseMaterial("default", math.Vec3One)
		}
		result = append(result, pathtracer.NewObject(obj.name, tris, mat, false, math.Vec3{}))
	}
	return result, nil
}

func parseFaceVertex(tok string) struct{ v, vt, vn int } {
	parseIdx := func(s string) int {
		if s == "" {
			return -1
		}
		n, _ := strconv.Atoi(s)
		if n > 0 {
			return n - 1
		}
		return n
	}
	parts := strings.Split(tok, "/")
	res := struct{ v, vt, vn int }{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0])
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1])
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2])
	}
	return res
}

func buildTriangles(faces []objFace, positions, normals []math.Vec3, uvs []math.Vec2) ([]pathtracer.Triangle, error) {
	safePos := func(i int) math.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return math.Vec3Zero
	}
	safeNorm := func(i int) math.Vec3 {
		if i >= 0 && i < len(normals) {
			return normals[i]
		}
		return math.Vec3Up
	}
	safeUV := func(i int) math.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return math.Vec2{}
	}

	tris := make([]pathtracer.Triangle, 0, len(faces))
	for _, face := range faces {
		v0 := pathtracer.Vertex{Position: safePos(face.vIdx[0]), Normal: safeNorm(face.vnIdx[0]), UV: safeUV(face.vtIdx[0])}
		v1 := pathtracer.Vertex{Position: safePos(face.vIdx[1]), Normal: safeNorm(face.vnIdx[1]), UV: safeUV(face.vtIdx[1])}
		v2 := pathtracer.Vertex{Position: safePos(face.vIdx[2]), Normal: safeNorm(face.vnIdx[2]), UV: safeUV(face.vtIdx[2])}

		tri, err := pathtracer.NewTriangle(v0, v1, v2)
		if errors.Is(err, pathtracer.ErrDegenerateTriangle) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tris = append(tris, tri)
	}
	if len(tris) == 0 {
		return nil, errors.New("object has no non-degenerate triangles")
	}
	return tris, nil
}

func loadMTL(path, dir string) (map[string]pathtracer.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]pathtracer.Material{}
	var curName string
	var diffuse, specular math.Vec3
	var shininess float32 = 32

	flush := func() {
		if curName == "" {
			return
		}
		if specular.LengthSqr() > 0 {
			mats[curName] = pathtracer.NewGlossyMaterial(curName, diffuse, specular, shininess)
		} else {
			mats[curName] = pathtracer.NewDiffuseMaterial(curName, diffuse)
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "newmtl":
			flush()
			curName = fields[1]
			diffuse, specular = math.Vec3One, math.Vec3{}
			shininess = 32
		case "Kd":
			if len(fields) >= 4 {
				r, _ := strconv.ParseFloat(fields[1], 32)
				g, _ := strconv.ParseFloat(fields[2], 32)
				b, _ := strconv.ParseFloat(fields[3], 32)
				diffuse = math.Vec3{X: float32(r), Y: float32(g), Z: float32(b)}
			}
		case "Ks":
			if len(fields) >= 4 {
				r, _ := strconv.ParseFloat(fields[1], 32)
				g, _ := strconv.ParseFloat(fields[2], 32)
				b, _ := strconv.ParseFloat(fields[3], 32)
				specular = math.Vec3{X: float32(r), Y: float32(g), Z: float32(b)}
			}
		case "Ns":
			if len(fields) >= 2 {
				ns, _ := strconv.ParseFloat(fields[1], 32)
				shininess = float32(ns)
			}
		}
	}
	flush()
	return mats, scanner.Err()
}
