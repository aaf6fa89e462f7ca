package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/geom"
)

// Termination tells why a query stopped.
type Termination int

const (
	TerminationNone Termination = iota
	// TerminationColliding: the simplex encloses the origin or touches it.
	TerminationColliding
	// TerminationConverged: the new support vertex brought no measurable progress.
	TerminationConverged
	// TerminationDuplicateVertex: the support vertex already was in the simplex.
	TerminationDuplicateVertex
	// TerminationDegenerate: the signed-volumes step found no valid sub-simplex.
	TerminationDegenerate
	// TerminationNoDecrease: the new simplex was not strictly closer to the origin.
	TerminationNoDecrease
	// TerminationMaxIterations: the iteration cap was reached.
	TerminationMaxIterations
	// TerminationNoSupport: a shape returned no supporting vertex.
	TerminationNoSupport
)

func (t Termination) String() string {
	switch t {
	case TerminationColliding:
		return "colliding"
	case TerminationConverged:
		return "converged"
	case TerminationDuplicateVertex:
		return "duplicate vertex"
	case TerminationDegenerate:
		return "degenerate"
	case TerminationNoDecrease:
		return "no decrease"
	case TerminationMaxIterations:
		return "max iterations"
	case TerminationNoSupport:
		return "no support"
	}
	return "none"
}

// Result is the outcome of one query.
//
// When Colliding is false, Distance is the separation and PointOnA, PointOnB the
// closest points. When Colliding is true, Distance is 0 and the points are NaN until
// a penetration solver fills them in with a negative Distance. Normals are only
// ever set by the penetration solver. Distance is NaN when Valid is false.
type Result struct {
	Colliding bool
	Distance  float64
	PointOnA  mgl64.Vec3
	PointOnB  mgl64.Vec3
	NormalOnA mgl64.Vec3
	NormalOnB mgl64.Vec3
	ShapeA    Shape
	ShapeB    Shape

	// Simplex is the last accepted simplex, nil when Valid is false.
	Simplex     *Simplex
	Iterations  int
	Termination Termination
	// Trace lists the squared distance of every accepted simplex, in order.
	Trace []float64
	// Valid is false when a shape exposed no geometry.
	Valid bool
}

func newResult(a, b Shape) Result {
	return Result{
		ShapeA:    a,
		ShapeB:    b,
		Distance:  math.NaN(),
		PointOnA:  geom.NaNVec3(),
		PointOnB:  geom.NaNVec3(),
		NormalOnA: geom.NaNVec3(),
		NormalOnB: geom.NaNVec3(),
	}
}
