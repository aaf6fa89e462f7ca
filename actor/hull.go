package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/polytope"
)

// Hull is a convex polytope, given in local coordinates, used as a shape. Its
// support function scans the polytope's vertices.
type Hull struct {
	pose
	mesh *polytope.Polytope
}

func NewHull(mesh *polytope.Polytope, transform geom.Transform) *Hull {
	if mesh == nil {
		mesh = polytope.New()
	}
	return &Hull{pose: newPose(transform), mesh: mesh}
}

func (h *Hull) Type() ShapeType { return ShapeTypeHull }

// Mesh returns the local-space polytope for reading.
func (h *Hull) Mesh() polytope.ConvexPolytope {
	return h.mesh
}

// Edit runs fn on the local-space polytope and invalidates what depends on it.
func (h *Hull) Edit(fn func(mesh *polytope.Polytope) error) error {
	defer h.aabb.Invalidate()
	return fn(h.mesh)
}

func (h *Hull) SetTransform(transform geom.Transform) {
	h.setTransform(transform)
}

// SupportingVertex returns false when the polytope has no vertex.
func (h *Hull) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	local, ok := h.mesh.SupportingVertex(h.transform.InverseApplyVector(direction))
	if !ok {
		return mgl64.Vec3{}, false
	}
	return h.transform.Apply(local), true
}

func (h *Hull) Centroid() mgl64.Vec3 {
	return h.transform.Apply(h.mesh.Centroid())
}

func (h *Hull) AABB() geom.AABB {
	return h.aabb.Get(func() geom.AABB {
		return geom.AABBFromPoints(lo.Map(h.mesh.Vertices(), func(v polytope.VertexID, _ int) mgl64.Vec3 {
			return h.transform.Apply(h.mesh.Position(v))
		}))
	})
}

// ContactFeature returns the face most aligned with direction, in world space.
func (h *Hull) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	local := bestFace(h.mesh, h.transform.InverseApplyVector(direction))
	return lo.Map(local, func(p mgl64.Vec3, _ int) mgl64.Vec3 { return h.transform.Apply(p) })
}
