package polytope

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/lazy"
)

// faceAttributes holds the derived quantities of one face. They are never set,
// only invalidated and recomputed from the face's vertex positions on read.
type faceAttributes struct {
	normal   lazy.Value[mgl64.Vec3]
	centroid lazy.Value[mgl64.Vec3]
	area     lazy.Value[float64]
	bounds   lazy.Value[geom.AABB]
}

func (a *faceAttributes) Invalidate() {
	lazy.InvalidateAll(&a.normal, &a.centroid, &a.area, &a.bounds)
}

// newellNormal returns the unit normal of a polygon using Newell's method, which
// stays well defined for slightly non-planar or nearly collinear loops.
// A degenerate polygon yields the zero vector.
func newellNormal(points []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i, current := range points {
		next := points[(i+1)%len(points)]
		n[0] += (current.Y() - next.Y()) * (current.Z() + next.Z())
		n[1] += (current.Z() - next.Z()) * (current.X() + next.X())
		n[2] += (current.X() - next.X()) * (current.Y() + next.Y())
	}
	length := n.Len()
	if length < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Mul(1.0 / length)
}

func vertexMean(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}

// polygonArea sums the triangle fan around the first vertex.
func polygonArea(points []mgl64.Vec3) float64 {
	if len(points) < 3 {
		return 0
	}
	var twice mgl64.Vec3
	for i := 1; i+1 < len(points); i++ {
		twice = twice.Add(points[i].Sub(points[0]).Cross(points[i+1].Sub(points[0])))
	}
	return 0.5 * twice.Len()
}

// supportingVertex scans ids for the position maximizing the dot product with
// direction. Ties keep the first vertex encountered.
func supportingVertex(ids []VertexID, position func(VertexID) mgl64.Vec3, direction mgl64.Vec3) (mgl64.Vec3, bool) {
	if len(ids) == 0 {
		return mgl64.Vec3{}, false
	}
	best := position(ids[0])
	bestDot := best.Dot(direction)
	for _, v := range ids[1:] {
		p := position(v)
		if d := p.Dot(direction); d > bestDot {
			best, bestDot = p, d
		}
	}
	return best, true
}
