package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/lazy"
	"github.com/akmonengine/proximity/polytope"
)

// Ramp is a wedge: a rectangular base of the given length (local x) and width
// (local y) whose far edge rises to height (local z). The origin of its local
// frame is the middle of the low edge.
type Ramp struct {
	pose
	size mgl64.Vec3
	axes lazy.Value[[3]mgl64.Vec3]
	view *polytope.View
}

func NewRamp(length, width, height float64, transform geom.Transform) *Ramp {
	r := &Ramp{pose: newPose(transform), size: mgl64.Vec3{length, width, height}}
	r.view = polytope.NewView(polytope.RampTemplate(), r.corner, r.faceNormal)
	return r
}

func (r *Ramp) Type() ShapeType { return ShapeTypeRamp }

// Size returns length, width and height.
func (r *Ramp) Size() mgl64.Vec3 { return r.size }

func (r *Ramp) SetSize(length, width, height float64) {
	r.size = mgl64.Vec3{length, width, height}
	r.aabb.Invalidate()
	r.view.Invalidate()
}

func (r *Ramp) SetTransform(transform geom.Transform) {
	r.setTransform(transform)
	r.axes.Invalidate()
	r.view.Invalidate()
}

func (r *Ramp) corner(v polytope.VertexID) mgl64.Vec3 {
	return r.transform.Apply(polytope.RampCorner(int(v), r.size))
}

// faceNormal links the four axis-aligned faces to the ramp's axes. The slope is
// left to the view.
func (r *Ramp) faceNormal(f polytope.FaceID) (mgl64.Vec3, bool) {
	axis, sign, ok := polytope.RampFaceAxis(f)
	if !ok {
		return mgl64.Vec3{}, false
	}
	axes := r.axes.Get(func() [3]mgl64.Vec3 { return worldAxes(r.transform) })
	return axes[axis].Mul(sign), true
}

// Polytope returns the read-only half-edge view of the ramp.
func (r *Ramp) Polytope() *polytope.View {
	return r.view
}

func (r *Ramp) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	return r.view.SupportingVertex(direction)
}

// Centroid returns the center of mass of the wedge, which is also the mean of
// its six corners.
func (r *Ramp) Centroid() mgl64.Vec3 {
	return r.transform.Apply(mgl64.Vec3{2 * r.size.X() / 3, 0, r.size.Z() / 3})
}

func (r *Ramp) AABB() geom.AABB {
	return r.aabb.Get(func() geom.AABB {
		return geom.AABBFromPoints(lo.Map(r.view.Vertices(), func(v polytope.VertexID, _ int) mgl64.Vec3 {
			return r.view.Position(v)
		}))
	})
}

func (r *Ramp) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return bestFace(r.view, direction)
}
