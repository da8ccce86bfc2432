package pathtracer

import "github.com/lumenforge/pathtracer/math"

// LightSample is a point drawn on an emissive object's surface, together
// with its outward normal, the density of having drawn that point (in
// units of inverse area), and the object's emitted radiance.
type LightSample struct {
	Point    Point
	Normal   Direction
	Pdf      float32
	Radiance math.Vec3
	Object   *Object
}

// SampleLight picks one of the scene's emissive objects with probability
// proportional to its area, then draws a uniform point on it. The
// returned Pdf is the product of the object-selection probability and
// the object's own per-point density (1/Area), i.e. the density of the
// chosen point with respect to the combined light surface of the scene.
func SampleLight(lights []*Object, totalArea float32, pSelect, p, u, v float32) (LightSample, bool) {
	if len(lights) == 0 || totalArea <= 0 {
		return LightSample{}, false
	}

	target := pSelect * totalArea
	var accum float32
	chosen := lights[len(lights)-1]
	for _, obj := range lights {
		accum += obj.Area
		if target <= accum {
			chosen = obj
			break
		}
	}

	point, normal, objPdf := chosen.Sample(p*chosen.Area, u, v)
	selectPdf := chosen.Area / totalArea
	return LightSample{
		Point:    point,
		Normal:   normal,
		Pdf:      selectPdf * objPdf,
		Radiance: chosen.Radiance,
		Object:   chosen,
	}, true
}

// totalLightArea sums the surface area of every emissive object.
func totalLightArea(lights []*Object) float32 {
	var total float32
	for _, o := range lights {
		total += o.Area
	}
	return total
}
