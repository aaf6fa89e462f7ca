// Package geom holds the small amount of pose and bounding-volume math shared by
// the shape, polytope and GJK packages. Vectors are mgl64 values throughout.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a rigid pose in 3D space: a rotation followed by a translation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// Translation creates a transform with no rotation.
func Translation(position mgl64.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl64.QuatIdent()}
}

// Apply maps a point from local space to world space.
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(point))
}

// ApplyVector rotates a direction from local space to world space.
func (t Transform) ApplyVector(vector mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(vector)
}

// InverseApplyVector rotates a direction from world space to local space.
// The rotation is assumed to be a unit quaternion.
func (t Transform) InverseApplyVector(vector mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(vector)
}

// InverseApply maps a point from world space to local space.
func (t Transform) InverseApply(point mgl64.Vec3) mgl64.Vec3 {
	return t.InverseApplyVector(point.Sub(t.Position))
}

// Vec3Equal compares two vectors component-wise within tolerance.
func Vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance &&
		math.Abs(a.Y()-b.Y()) <= tolerance &&
		math.Abs(a.Z()-b.Z()) <= tolerance
}

// NaNVec3 returns a vector whose components are all NaN, used for values that
// have not been resolved.
func NaNVec3() mgl64.Vec3 {
	return mgl64.Vec3{math.NaN(), math.NaN(), math.NaN()}
}

// IsNaNVec3 reports whether any component of v is NaN.
func IsNaNVec3(v mgl64.Vec3) bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}
