package gjk

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex3D is a vertex of the Minkowski difference A - B. It keeps the two support
// points it was built from so that closest points on each shape can be rebuilt
// from barycentric weights. Values are immutable once created.
type Vertex3D struct {
	Point    mgl64.Vec3
	SupportA mgl64.Vec3
	SupportB mgl64.Vec3
}

func NewVertex3D(supportA, supportB mgl64.Vec3) Vertex3D {
	return Vertex3D{Point: supportA.Sub(supportB), SupportA: supportA, SupportB: supportB}
}

// Simplex represents a set of 1-4 points in the Minkowski difference space together
// with the barycentric weights of its point closest to the origin.
//
// A Simplex is never modified after construction: every GJK iteration builds a new
// one. It is safe to share between goroutines.
type Simplex struct {
	vertices []Vertex3D
	weights  []float64
	closest  mgl64.Vec3
	distSq   float64
}

// newSimplex takes ownership of vertices and weights. Weights must be non-negative
// and sum to one.
func newSimplex(vertices []Vertex3D, weights []float64) *Simplex {
	s := &Simplex{vertices: vertices, weights: weights}
	for i, v := range vertices {
		s.closest = s.closest.Add(v.Point.Mul(weights[i]))
	}
	s.distSq = s.closest.Dot(s.closest)
	return s
}

// NewSimplex builds a simplex from vertices and weights, copying both.
func NewSimplex(vertices []Vertex3D, weights []float64) *Simplex {
	return newSimplex(append([]Vertex3D(nil), vertices...), append([]float64(nil), weights...))
}

func (s *Simplex) Len() int { return len(s.vertices) }

func (s *Simplex) Vertex(i int) Vertex3D { return s.vertices[i] }

func (s *Simplex) Weight(i int) float64 { return s.weights[i] }

// Vertices returns a copy of the vertices, oldest first.
func (s *Simplex) Vertices() []Vertex3D {
	return append([]Vertex3D(nil), s.vertices...)
}

// Weights returns a copy of the barycentric weights.
func (s *Simplex) Weights() []float64 {
	return append([]float64(nil), s.weights...)
}

// ClosestPoint is the point of the simplex closest to the origin.
func (s *Simplex) ClosestPoint() mgl64.Vec3 { return s.closest }

func (s *Simplex) SquaredDistance() float64 { return s.distSq }

// Contains reports whether p is exactly one of the simplex vertices.
func (s *Simplex) Contains(p mgl64.Vec3) bool {
	for _, v := range s.vertices {
		if v.Point == p {
			return true
		}
	}
	return false
}

// MaxSquaredNorm returns the largest squared distance of a vertex to the origin.
func (s *Simplex) MaxSquaredNorm() float64 {
	var max float64
	for _, v := range s.vertices {
		if d := v.Point.Dot(v.Point); d > max {
			max = d
		}
	}
	return max
}

// PointOnA combines the support points on A with the simplex weights.
func (s *Simplex) PointOnA() mgl64.Vec3 {
	var p mgl64.Vec3
	for i, v := range s.vertices {
		p = p.Add(v.SupportA.Mul(s.weights[i]))
	}
	return p
}

// PointOnB combines the support points on B with the simplex weights.
func (s *Simplex) PointOnB() mgl64.Vec3 {
	var p mgl64.Vec3
	for i, v := range s.vertices {
		p = p.Add(v.SupportB.Mul(s.weights[i]))
	}
	return p
}
