// Package core holds the rigid transform used to flatten an imported node
// hierarchy (glTF nodes) into world-space triangles.
package core

import (
	"github.com/lumenforge/pathtracer/math"
)

// Transform is a position/rotation/scale node used while flattening an
// imported scene graph (glTF nodes) into world-space triangles.
// It plays no part in the path tracer itself, which only ever sees the
// resulting triangles.
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

func (t Transform) GetMatrix() math.Mat4 {
	translation := math.Mat4Translation(t.Position)
	rotation := t.Rotation.ToMat4()
	scale := math.Mat4Scale(t.Scale)
	return translation.Mul(rotation).Mul(scale)
}
