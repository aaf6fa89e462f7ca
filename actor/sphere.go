package actor

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/geom"
)

// Sphere represents a spherical collision shape centered on its position.
type Sphere struct {
	pose
	radius float64
}

func NewSphere(radius float64, transform geom.Transform) *Sphere {
	return &Sphere{pose: newPose(transform), radius: radius}
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

func (s *Sphere) Radius() float64 { return s.radius }

func (s *Sphere) SetRadius(radius float64) {
	s.radius = radius
	s.aabb.Invalidate()
}

func (s *Sphere) SetTransform(transform geom.Transform) {
	s.setTransform(transform)
}

func (s *Sphere) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	dir := safeNormalize(direction, mgl64.Vec3{1, 0, 0})
	return s.transform.Position.Add(dir.Mul(s.radius)), true
}

func (s *Sphere) Centroid() mgl64.Vec3 {
	return s.transform.Position
}

// AABB is not affected by rotation, only by position.
func (s *Sphere) AABB() geom.AABB {
	return s.aabb.Get(func() geom.AABB {
		r := mgl64.Vec3{s.radius, s.radius, s.radius}
		return geom.AABB{Min: s.transform.Position.Sub(r), Max: s.transform.Position.Add(r)}
	})
}

func (s *Sphere) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	p, _ := s.SupportingVertex(direction)
	return []mgl64.Vec3{p}
}
