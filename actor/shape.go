// Package actor holds the convex shapes the proximity queries run on.
//
// Every shape has a pose (geom.Transform) and exposes a support function and a
// centroid. Quantities derived from the pose and size (world corners, cap
// centers, axes, bounding boxes) are cached in lazy.Value cells; SetTransform and
// the size setters flip those flags directly and nothing is recomputed before the
// next read.
package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/lazy"
	"github.com/akmonengine/proximity/polytope"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeRamp
	ShapeTypeCylinder
	ShapeTypeCapsule
	ShapeTypeHull
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypeRamp:
		return "ramp"
	case ShapeTypeCylinder:
		return "cylinder"
	case ShapeTypeCapsule:
		return "capsule"
	case ShapeTypeHull:
		return "hull"
	}
	return "unknown"
}

// Shape is the interface that all collision shapes implement.
type Shape interface {
	Type() ShapeType
	Transform() geom.Transform
	SetTransform(transform geom.Transform)
	// SupportingVertex returns the world-space point of the shape farthest along
	// direction, or false if the shape has no geometry.
	SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool)
	// Centroid returns a world-space point representative of the shape.
	Centroid() mgl64.Vec3
	AABB() geom.AABB
	// ContactFeature returns the world-space feature (face polygon, or a single
	// point for curved shapes) the shape presents along direction.
	ContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// pose is the transform shared by every shape together with its cached bounds.
type pose struct {
	transform geom.Transform
	aabb      lazy.Value[geom.AABB]
}

func newPose(transform geom.Transform) pose {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}
	return pose{transform: transform}
}

func (p *pose) Transform() geom.Transform {
	return p.transform
}

func (p *pose) setTransform(transform geom.Transform) {
	p.transform = newPose(transform).transform
	p.aabb.Invalidate()
}

// safeNormalize returns the unit vector of v, or fallback when v is too short to
// have a direction.
func safeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length < 1e-12 {
		return fallback
	}
	return v.Mul(1.0 / length)
}

// bestFace returns the world-space vertices of the face of p whose normal points
// the most along direction.
func bestFace(p polytope.ConvexPolytope, direction mgl64.Vec3) []mgl64.Vec3 {
	bestDot := -math.MaxFloat64
	best := polytope.FaceID(polytope.None)
	for _, f := range p.Faces() {
		if dot := p.FaceNormal(f).Dot(direction); dot > bestDot {
			bestDot = dot
			best = f
		}
	}
	if best == polytope.None {
		return nil
	}
	return lo.Map(p.FaceVertices(best), func(v polytope.VertexID, _ int) mgl64.Vec3 { return p.Position(v) })
}

// worldAxes returns the local x, y and z axes rotated into world space.
func worldAxes(transform geom.Transform) [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		transform.ApplyVector(mgl64.Vec3{1, 0, 0}),
		transform.ApplyVector(mgl64.Vec3{0, 1, 0}),
		transform.ApplyVector(mgl64.Vec3{0, 0, 1}),
	}
}
