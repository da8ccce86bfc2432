package pathtracer

import (
	"github.com/pkg/errors"

	"github.com/lumenforge/pathtracer/math"
)

// ErrEmptyScene, ErrMissingCamera and ErrDegenerateCamera are the
// structured invalid-scene failures of §7: rejected at render start,
// fatal to the request, never retried.
var (
	ErrEmptyScene       = errors.New("invalid scene: object list is empty")
	ErrMissingCamera    = errors.New("invalid scene: camera is not set")
	ErrDegenerateCamera = errors.New("invalid scene: camera up is parallel to view direction")
)

// Scene owns every object, the scene-level BVH over them, the list of
// emissive objects, the max bounce depth, and the ambient radiance
// returned when a ray escapes the geometry entirely.
type Scene struct {
	Name    string
	Camera  Camera
	Objects []*Object
	BVH     *SceneBVH

	Lights         []*Object
	lightTotalArea float32

	MaxDepth int
	Ambient  math.Vec3
}

// NewScene validates objects and camera, builds the scene BVH, and
// collects the emissive-object list. It returns one of the Err* sentinels
// above on an invalid scene; callers must not proceed to Render on error.
func NewScene(name string, camera Camera, objects []*Object, maxDepth int, ambient math.Vec3) (*Scene, error) {
	if len(objects) == 0 {
		return nil, ErrEmptyScene
	}
	if camera.Width == 0 || camera.Height == 0 {
		return nil, ErrMissingCamera
	}
	if !camera.Valid() {
		return nil, ErrDegenerateCamera
	}
	if maxDepth <= 0 {
		maxDepth = 1
	}

	var lights []*Object
	for _, o := range objects {
		if o.IsLight {
			lights = append(lights, o)
		}
	}

	return &Scene{
		Name:           name,
		Camera:         camera,
		Objects:        objects,
		BVH:            BuildSceneBVH(objects),
		Lights:         lights,
		lightTotalArea: totalLightArea(lights),
		MaxDepth:       maxDepth,
		Ambient:        ambient,
	}, nil
}

// Intersect delegates to the scene BVH.
func (s *Scene) Intersect(ray *Ray) (SceneHit, bool) {
	return s.BVH.Intersect(ray)
}

// SampleLight delegates to the package-level light sampler over this
// scene's emissive objects.
func (s *Scene) SampleLight(pSelect, p, u, v float32) (LightSample, bool) {
	return SampleLight(s.Lights, s.lightTotalArea, pSelect, p, u, v)
}
