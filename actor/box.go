package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/lazy"
	"github.com/akmonengine/proximity/polytope"
)

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	pose
	halfExtents mgl64.Vec3
	axes        lazy.Value[[3]mgl64.Vec3]
	view        *polytope.View
}

func NewBox(halfExtents mgl64.Vec3, transform geom.Transform) *Box {
	b := &Box{pose: newPose(transform), halfExtents: halfExtents}
	b.view = polytope.NewView(polytope.BoxTemplate(), b.corner, b.faceNormal)
	return b
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }

func (b *Box) HalfExtents() mgl64.Vec3 { return b.halfExtents }

func (b *Box) SetHalfExtents(halfExtents mgl64.Vec3) {
	b.halfExtents = halfExtents
	b.aabb.Invalidate()
	b.view.Invalidate()
}

func (b *Box) SetTransform(transform geom.Transform) {
	b.setTransform(transform)
	b.axes.Invalidate()
	b.view.Invalidate()
}

// Axes returns the box's local x, y and z axes in world space.
func (b *Box) Axes() [3]mgl64.Vec3 {
	return b.axes.Get(func() [3]mgl64.Vec3 { return worldAxes(b.transform) })
}

func (b *Box) corner(v polytope.VertexID) mgl64.Vec3 {
	return b.transform.Apply(polytope.BoxCorner(int(v), b.halfExtents))
}

// faceNormal links every face to one of the box's own axes, negated for the
// faces on the negative side.
func (b *Box) faceNormal(f polytope.FaceID) (mgl64.Vec3, bool) {
	axis, sign := polytope.BoxFaceAxis(f)
	return b.Axes()[axis].Mul(sign), true
}

// Vertex returns corner i in world space. Bit 0, 1 and 2 of i select the positive
// side along the local x, y and z axes.
func (b *Box) Vertex(i int) mgl64.Vec3 {
	return b.view.Position(polytope.VertexID(i))
}

// Polytope returns the read-only half-edge view of the box. It follows every
// change of pose or size.
func (b *Box) Polytope() *polytope.View {
	return b.view
}

func (b *Box) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	local := b.transform.InverseApplyVector(direction)
	hx, hy, hz := b.halfExtents.X(), b.halfExtents.Y(), b.halfExtents.Z()

	if local.X() < 0 {
		hx = -hx
	}
	if local.Y() < 0 {
		hy = -hy
	}
	if local.Z() < 0 {
		hz = -hz
	}

	return b.transform.Apply(mgl64.Vec3{hx, hy, hz}), true
}

func (b *Box) Centroid() mgl64.Vec3 {
	return b.transform.Position
}

func (b *Box) AABB() geom.AABB {
	return b.aabb.Get(func() geom.AABB {
		return geom.AABBFromPoints(lo.Times(8, b.Vertex))
	})
}

// ContactFeature returns the face most aligned with direction.
func (b *Box) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return bestFace(b.view, direction)
}
