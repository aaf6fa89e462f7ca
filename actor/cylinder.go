package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/lazy"
)

// segment caches the world-space end points of a shape's local z axis segment of
// the given length, centered on the shape's position.
type segment struct {
	axis   lazy.Value[mgl64.Vec3]
	top    lazy.Value[mgl64.Vec3]
	bottom lazy.Value[mgl64.Vec3]
}

func (s *segment) Invalidate() {
	lazy.InvalidateAll(&s.axis, &s.top, &s.bottom)
}

func (s *segment) worldAxis(transform geom.Transform) mgl64.Vec3 {
	return s.axis.Get(func() mgl64.Vec3 { return transform.ApplyVector(mgl64.Vec3{0, 0, 1}) })
}

func (s *segment) topCenter(transform geom.Transform, length float64) mgl64.Vec3 {
	return s.top.Get(func() mgl64.Vec3 { return transform.Apply(mgl64.Vec3{0, 0, length / 2}) })
}

func (s *segment) bottomCenter(transform geom.Transform, length float64) mgl64.Vec3 {
	return s.bottom.Get(func() mgl64.Vec3 { return transform.Apply(mgl64.Vec3{0, 0, -length / 2}) })
}

// end returns the end point lying the farthest along direction. Ties go to the top.
func (s *segment) end(transform geom.Transform, length float64, direction mgl64.Vec3) mgl64.Vec3 {
	if direction.Dot(s.worldAxis(transform)) >= 0 {
		return s.topCenter(transform, length)
	}
	return s.bottomCenter(transform, length)
}

// Cylinder is a right circular cylinder along its local z axis, centered on its
// position.
type Cylinder struct {
	pose
	radius float64
	height float64
	caps   segment
}

func NewCylinder(radius, height float64, transform geom.Transform) *Cylinder {
	return &Cylinder{pose: newPose(transform), radius: radius, height: height}
}

func (c *Cylinder) Type() ShapeType { return ShapeTypeCylinder }

func (c *Cylinder) Radius() float64 { return c.radius }
func (c *Cylinder) Height() float64 { return c.height }

func (c *Cylinder) SetRadius(radius float64) {
	c.radius = radius
	c.aabb.Invalidate()
}

func (c *Cylinder) SetHeight(height float64) {
	c.height = height
	c.aabb.Invalidate()
	c.caps.Invalidate()
}

func (c *Cylinder) SetTransform(transform geom.Transform) {
	c.setTransform(transform)
	c.caps.Invalidate()
}

// TopCenter returns the center of the +z cap in world space.
func (c *Cylinder) TopCenter() mgl64.Vec3 {
	return c.caps.topCenter(c.transform, c.height)
}

// BottomCenter returns the center of the -z cap in world space.
func (c *Cylinder) BottomCenter() mgl64.Vec3 {
	return c.caps.bottomCenter(c.transform, c.height)
}

// SupportingVertex picks the cap facing direction, then moves to the rim along
// the part of direction perpendicular to the axis.
func (c *Cylinder) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	axis := c.caps.worldAxis(c.transform)
	support := c.caps.end(c.transform, c.height, direction)
	radial := direction.Sub(axis.Mul(direction.Dot(axis)))
	if radial.Len() > 1e-12 {
		support = support.Add(radial.Normalize().Mul(c.radius))
	}
	return support, true
}

func (c *Cylinder) Centroid() mgl64.Vec3 {
	return c.transform.Position
}

func (c *Cylinder) AABB() geom.AABB {
	return c.aabb.Get(func() geom.AABB {
		axis := c.caps.worldAxis(c.transform)
		var extent mgl64.Vec3
		for i := 0; i < 3; i++ {
			extent[i] = c.height/2*math.Abs(axis[i]) + c.radius*math.Sqrt(math.Max(0, 1-axis[i]*axis[i]))
		}
		return geom.AABB{Min: c.transform.Position.Sub(extent), Max: c.transform.Position.Add(extent)}
	})
}

func (c *Cylinder) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	p, _ := c.SupportingVertex(direction)
	return []mgl64.Vec3{p}
}

// Capsule is the set of points within radius of a segment of the given height
// along its local z axis, centered on its position.
type Capsule struct {
	pose
	radius float64
	height float64
	ends   segment
}

func NewCapsule(radius, height float64, transform geom.Transform) *Capsule {
	return &Capsule{pose: newPose(transform), radius: radius, height: height}
}

func (c *Capsule) Type() ShapeType { return ShapeTypeCapsule }

func (c *Capsule) Radius() float64 { return c.radius }
func (c *Capsule) Height() float64 { return c.height }

func (c *Capsule) SetRadius(radius float64) {
	c.radius = radius
	c.aabb.Invalidate()
}

func (c *Capsule) SetHeight(height float64) {
	c.height = height
	c.aabb.Invalidate()
	c.ends.Invalidate()
}

func (c *Capsule) SetTransform(transform geom.Transform) {
	c.setTransform(transform)
	c.ends.Invalidate()
}

// TopCenter returns the center of the +z hemisphere in world space.
func (c *Capsule) TopCenter() mgl64.Vec3 {
	return c.ends.topCenter(c.transform, c.height)
}

// BottomCenter returns the center of the -z hemisphere in world space.
func (c *Capsule) BottomCenter() mgl64.Vec3 {
	return c.ends.bottomCenter(c.transform, c.height)
}

func (c *Capsule) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	end := c.ends.end(c.transform, c.height, direction)
	return end.Add(safeNormalize(direction, mgl64.Vec3{1, 0, 0}).Mul(c.radius)), true
}

func (c *Capsule) Centroid() mgl64.Vec3 {
	return c.transform.Position
}

func (c *Capsule) AABB() geom.AABB {
	return c.aabb.Get(func() geom.AABB {
		r := mgl64.Vec3{c.radius, c.radius, c.radius}
		return geom.AABBFromPoints([]mgl64.Vec3{
			c.TopCenter().Add(r), c.TopCenter().Sub(r),
			c.BottomCenter().Add(r), c.BottomCenter().Sub(r),
		})
	})
}

func (c *Capsule) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	p, _ := c.SupportingVertex(direction)
	return []mgl64.Vec3{p}
}
