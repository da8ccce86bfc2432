package sceneio

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/lumenforge/pathtracer/math"
	"github.com/lumenforge/pathtracer/pathtracer"
)

// SceneFile is the top-level structure of the native .ptscene format: a
// direct JSON rendering of the Scene Input record of spec §6, rather than
// the editor-state-heavy format it is descended from (no grid/snap
// settings, no light types beyond emissive geometry).
type SceneFile struct {
	Version string       `json:"version"`
	Name    string       `json:"name"`
	Camera  CameraData   `json:"camera"`
	Objects []ObjectData `json:"objects"`
	Ambient [3]float32   `json:"ambient"`
}

type CameraData struct {
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	FovDeg   float32    `json:"fov_deg"`
	Position [3]float32 `json:"position"`
	LookAt   [3]float32 `json:"look_at"`
	Up       [3]float32 `json:"up"`
	Kind     string     `json:"kind"` // "perspective" or "orthographic"
}

type ObjectData struct {
	Name     string        `json:"name"`
	Triangles []TriangleData `json:"triangles"`
	Material MaterialData  `json:"material"`
	IsLight  bool          `json:"is_light"`
	Radiance [3]float32    `json:"radiance,omitempty"`
}

type VertexData struct {
	Position [3]float32 `json:"position"`
	Normal   [3]float32 `json:"normal"`
	UV       [2]float32 `json:"uv"`
}

type TriangleData struct {
	V0 VertexData `json:"v0"`
	V1 VertexData `json:"v1"`
	V2 VertexData `json:"v2"`
}

type MaterialData struct {
	Name          string     `json:"name"`
	Kind          string     `json:"kind"` // "diffuse", "glossy", "specular", "refraction"
	Ambient       [3]float32 `json:"ambient,omitempty"`
	Diffuse       [3]float32 `json:"diffuse,omitempty"`
	Specular      [3]float32 `json:"specular,omitempty"`
	Transmittance [3]float32 `json:"transmittance,omitempty"`
	Shininess     float32    `json:"shininess,omitempty"`
	IOR           float32    `json:"ior,omitempty"`
}

// LoadScene reads a .ptscene JSON file and builds a ready-to-render
// pathtracer.Scene. Degenerate triangles are rejected object by object,
// surfacing pathtracer.ErrDegenerateTriangle wrapped with the offending
// object's name.
func LoadScene(path string, maxDepth int) (*pathtracer.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scene file %q", path)
	}

	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrapf(err, "parse scene file %q", path)
	}

	camera := decodeCamera(sf.Camera)

	objects := make([]*pathtracer.Object, 0, len(sf.Objects))
	for _, od := range sf.Objects {
		obj, err := decodeObject(od)
		if err != nil {
			return nil, errors.Wrapf(err, "object %q", od.Name)
		}
		objects = append(objects, obj)
	}

	ambient := arrayToVec3(sf.Ambient)
	return pathtracer.NewScene(sf.Name, camera, objects, maxDepth, ambient)
}

// SaveScene serializes a Scene Input record (built independently of any
// live pathtracer.Scene, since the core's own types carry no JSON tags)
// to a .ptscene file.
func SaveScene(path string, sf *SceneFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal scene file")
	}
	return os.WriteFile(path, data, 0644)
}

func decodeCamera(cd CameraData) pathtracer.Camera {
	kind := pathtracer.Perspective
	if cd.Kind == "orthographic" {
		kind = pathtracer.Orthographic
	}
	return pathtracer.Camera{
		Width: cd.Width, Height: cd.Height, FovDeg: cd.FovDeg,
		Position: arrayToVec3(cd.Position),
		LookAt:   arrayToVec3(cd.LookAt),
		Up:       arrayToVec3(cd.Up),
		Kind:     kind,
	}
}

func decodeObject(od ObjectData) (*pathtracer.Object, error) {
	mat := decodeMaterial(od.Material)

	tris := make([]pathtracer.Triangle, 0, len(od.Triangles))
	for _, td := range od.Triangles {
		tri, err := pathtracer.NewTriangle(decodeVertex(td.V0), decodeVertex(td.V1), decodeVertex(td.V2))
		if err != nil {
			return nil, err
		}
		tris = append(tris, tri)
	}

	return pathtracer.NewObject(od.Name, tris, mat, od.IsLight, arrayToVec3(od.Radiance)), nil
}

func decodeVertex(vd VertexData) pathtracer.Vertex {
	return pathtracer.Vertex{
		Position: arrayToVec3(vd.Position),
		Normal:   arrayToVec3(vd.Normal),
		UV:       math.Vec2{X: vd.UV[0], Y: vd.UV[1]},
	}
}

func decodeMaterial(md MaterialData) pathtracer.Material {
	switch md.Kind {
	case "glossy":
		return pathtracer.NewGlossyMaterial(md.Name, arrayToVec3(md.Diffuse), arrayToVec3(md.Specular), md.Shininess)
	case "specular":
		return pathtracer.NewSpecularMaterial(md.Name, arrayToVec3(md.Specular))
	case "refraction":
		ior := md.IOR
		if ior < 1 {
			ior = 1
		}
		return pathtracer.NewRefractionMaterial(md.Name, arrayToVec3(md.Transmittance), ior)
	default:
		return pathtracer.NewDiffuseMaterial(md.Name, arrayToVec3(md.Diffuse))
	}
}

func arrayToVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
