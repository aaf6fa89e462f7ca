package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// tieTolerance is the relative magnitude below which a cofactor counts as zero in
// the same-sign test, so that an origin lying on a boundary stays inside.
const tieTolerance = 1e-12

// SignedVolumes returns the smallest sub-simplex of vertices that contains the
// projection of the origin onto their convex hull, with its barycentric weights.
//
// The last vertex is the one just added by GJK and is never discarded. When the
// projection falls outside the full simplex, every sub-simplex dropping one of the
// older vertices is tried recursively and the one closest to the origin wins.
// Projections are computed on the coordinate axis (segments) or coordinate plane
// (triangles) with the largest extent, which avoids dividing by near-zero
// determinants. It returns nil when every candidate is degenerate.
//
// Method: D. Montanari, N. Petrinic, E. Barbieri, "Improving the GJK algorithm for
// faster and more reliable distance queries between convex objects" (2017).
func SignedVolumes(vertices []Vertex3D) *Simplex {
	switch len(vertices) {
	case 1:
		return NewSimplex(vertices, []float64{1})
	case 2:
		return s1d(vertices)
	case 3:
		return s2d(vertices)
	case 4:
		return s3d(vertices)
	}
	return nil
}

// s1d handles a segment.
func s1d(vertices []Vertex3D) *Simplex {
	p0, p1 := vertices[0].Point, vertices[1].Point
	t := p1.Sub(p0)
	lenSq := t.Dot(t)
	if lenSq == 0 {
		return nil
	}
	projection := p0.Sub(t.Mul(p0.Dot(t) / lenSq))

	k := largestComponent(t)
	det := p0[k] - p1[k]
	if weights, ok := barycentric(det, projection[k]-p1[k], p0[k]-projection[k]); ok {
		return NewSimplex(vertices, weights)
	}
	return NewSimplex(vertices[1:], []float64{1})
}

// s2d handles a triangle.
func s2d(vertices []Vertex3D) *Simplex {
	p0, p1, p2 := vertices[0].Point, vertices[1].Point, vertices[2].Point
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	nLenSq := n.Dot(n)
	if nLenSq == 0 {
		return closestFacet(vertices)
	}
	projection := n.Mul(p0.Dot(n) / nLenSq)

	// drop the coordinate along which the triangle has its largest projected area
	k := largestComponent(n)
	u, v := (k+1)%3, (k+2)%3
	area := func(a, b, c mgl64.Vec3) float64 {
		return (b[u]-a[u])*(c[v]-a[v]) - (b[v]-a[v])*(c[u]-a[u])
	}

	det := area(p0, p1, p2)
	weights, ok := barycentric(det,
		area(projection, p1, p2),
		area(p0, projection, p2),
		area(p0, p1, projection),
	)
	if ok {
		return NewSimplex(vertices, weights)
	}
	return closestFacet(vertices)
}

// s3d handles a tetrahedron. Each cofactor is the signed volume of the
// tetrahedron with one vertex replaced by the origin.
func s3d(vertices []Vertex3D) *Simplex {
	p0, p1, p2, p3 := vertices[0].Point, vertices[1].Point, vertices[2].Point, vertices[3].Point
	var origin mgl64.Vec3

	det := signedVolume(p0, p1, p2, p3)
	weights, ok := barycentric(det,
		signedVolume(origin, p1, p2, p3),
		signedVolume(p0, origin, p2, p3),
		signedVolume(p0, p1, origin, p3),
		signedVolume(p0, p1, p2, origin),
	)
	if ok {
		return NewSimplex(vertices, weights)
	}
	return closestFacet(vertices)
}

// closestFacet runs the sub-algorithm on every sub-simplex keeping the newest
// vertex and returns the one closest to the origin.
func closestFacet(vertices []Vertex3D) *Simplex {
	var best *Simplex
	newest := len(vertices) - 1
	for drop := 0; drop < newest; drop++ {
		sub := make([]Vertex3D, 0, newest)
		sub = append(sub, vertices[:drop]...)
		sub = append(sub, vertices[drop+1:]...)

		candidate := SignedVolumes(sub)
		if candidate != nil && (best == nil || candidate.SquaredDistance() < best.SquaredDistance()) {
			best = candidate
		}
	}
	return best
}

// barycentric turns cofactors into weights when they all share the sign of det.
// Cofactors within tieTolerance of zero are ties: their slightly negative weights
// are clamped to zero and the rest renormalized.
func barycentric(det float64, cofactors ...float64) ([]float64, bool) {
	if det == 0 {
		return nil, false
	}
	weights := make([]float64, len(cofactors))
	var sum float64
	for i, c := range cofactors {
		if !sameSign(det, c) {
			return nil, false
		}
		weights[i] = math.Max(0, c/det)
		sum += weights[i]
	}
	if sum == 0 {
		return nil, false
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights, true
}

func sameSign(det, c float64) bool {
	return c*det > 0 || math.Abs(c) <= tieTolerance*math.Abs(det)
}

func signedVolume(a, b, c, d mgl64.Vec3) float64 {
	return b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a)))
}

func largestComponent(v mgl64.Vec3) int {
	k := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[k]) {
			k = i
		}
	}
	return k
}
