package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/gjk"
)

// Face is a triangle of the expanding polytope. Its vertices keep their support
// points so that witness points can be rebuilt from the face.
type Face struct {
	Vertices [3]gjk.Vertex3D
	Normal   mgl64.Vec3 // unit, pointing out of the polytope
	Distance float64    // signed distance from the origin to the face plane
}

// createFaceOutward creates a Face whose normal points away from inside, a point
// strictly inside the polytope.
func createFaceOutward(a, b, c gjk.Vertex3D, inside mgl64.Vec3) Face {
	face := Face{Vertices: [3]gjk.Vertex3D{a, b, c}}

	normal := b.Point.Sub(a.Point).Cross(c.Point.Sub(a.Point))
	length := normal.Len()
	if length < 1e-12 {
		// sliver triangle: fall back to the direction away from the interior
		normal = a.Point.Sub(inside)
		length = normal.Len()
		if length < 1e-12 {
			normal, length = mgl64.Vec3{0, 1, 0}, 1
		}
	}
	normal = normal.Mul(1.0 / length)

	if normal.Dot(inside.Sub(a.Point)) > 0 {
		normal = normal.Mul(-1)
	}

	face.Normal = normal
	face.Distance = a.Point.Dot(normal)
	return face
}

// contact projects the origin on the face and interpolates the support points
// with the barycentric coordinates of the projection.
func (f Face) contact() Contact {
	depth := math.Max(0, f.Distance)
	weights := f.barycentric(f.Normal.Mul(f.Distance))

	var pointOnA, pointOnB mgl64.Vec3
	for i, v := range f.Vertices {
		pointOnA = pointOnA.Add(v.SupportA.Mul(weights[i]))
		pointOnB = pointOnB.Add(v.SupportB.Mul(weights[i]))
	}

	return Contact{
		Normal:   snapNormalToAxis(f.Normal),
		Depth:    depth,
		PointOnA: pointOnA,
		PointOnB: pointOnB,
	}
}

// barycentric returns the coordinates of p in the face triangle, clamped to the
// triangle.
func (f Face) barycentric(p mgl64.Vec3) [3]float64 {
	a, b, c := f.Vertices[0].Point, f.Vertices[1].Point, f.Vertices[2].Point
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Sub(a)

	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-18 {
		return [3]float64{1, 0, 0}
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	weights := [3]float64{math.Max(0, 1-v-w), math.Max(0, v), math.Max(0, w)}

	sum := weights[0] + weights[1] + weights[2]
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Edge is an undirected polytope edge, normalized so that A < B.
type Edge struct {
	A, B gjk.Vertex3D
}

func normalizeEdge(a, b gjk.Vertex3D) Edge {
	if compareVec3(a.Point, b.Point) > 0 {
		return Edge{b, a}
	}
	return Edge{a, b}
}

// compareVec3 orders vectors lexicographically (x, then y, then z).
func compareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
