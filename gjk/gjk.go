// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for proximity
// and collision queries between convex shapes.
//
// GJK works on the Minkowski difference A - B: the shapes overlap if and only if it
// contains the origin, and otherwise their distance is the distance from the origin
// to it. The algorithm only needs a support function per shape and refines a simplex
// of Minkowski vertices toward the origin, using the signed-volumes sub-algorithm to
// pick the sub-simplex closest to the origin at each step.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Montanari, Petrinic, Barbieri: "Improving the GJK algorithm for faster and more
//     reliable distance queries between convex objects" (2017)
package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/logging"
)

// Shape is the capability GJK needs from a convex shape.
type Shape interface {
	// SupportingVertex returns the point of the shape farthest along direction,
	// or false if the shape has no geometry.
	SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool)
	// Centroid returns any point representative of the shape. It only seeds the
	// first search direction.
	Centroid() mgl64.Vec3
}

// MinkowskiSupport computes a support vertex of the Minkowski difference (A - B):
// the support point of A along direction minus the support point of B along the
// opposite direction.
func MinkowskiSupport(a, b Shape, direction mgl64.Vec3) (Vertex3D, bool) {
	supportA, ok := a.SupportingVertex(direction)
	if !ok {
		return Vertex3D{}, false
	}
	supportB, ok := b.SupportingVertex(direction.Mul(-1))
	if !ok {
		return Vertex3D{}, false
	}
	return NewVertex3D(supportA, supportB), true
}

// Evaluate runs one query between a and b. hint, when not nil, replaces the
// centroid-to-centroid vector as the first search direction.
//
// Algorithm overview:
//  1. Take a first support vertex along the initial direction
//  2. Query a new support vertex along the current search direction
//  3. Stop if it is already in the simplex (after one perturbed retry) or if it
//     does not bring the simplex measurably closer to the origin
//  4. Reduce simplex + vertex to the sub-simplex closest to the origin
//  5. Stop if that sub-simplex is not strictly closer than the previous one
//  6. Report a collision for a tetrahedron or a simplex touching the origin
//  7. Otherwise search toward the origin from the new simplex and repeat
//
// Evaluate never fails on convex input: when it cannot progress it returns the
// last simplex as a separated result. It has no shared state and may be called
// concurrently.
func Evaluate(a, b Shape, s Settings, hint *mgl64.Vec3) Result {
	res := newResult(a, b)

	direction := initialDirection(a, b, hint)
	retried := false

	w, ok := MinkowskiSupport(a, b, direction)
	if !ok {
		return noSupport(res)
	}
	simplex := newSimplex([]Vertex3D{w}, []float64{1})
	res.Trace = append(res.Trace, simplex.SquaredDistance())
	if touchesOrigin(simplex, s) {
		return collided(res, simplex)
	}
	direction = searchDirection(simplex, s)

	for res.Iterations < s.MaxIterations {
		res.Iterations++

		w, ok = MinkowskiSupport(a, b, direction)
		if !ok {
			return noSupport(res)
		}

		// Duplicate vertex: no progress is possible along this direction. The
		// sentinel components are the only arbitrary part of it, so flip them once.
		if simplex.Contains(w.Point) {
			if !retried && hasSentinel(direction) {
				retried = true
				direction = flipSentinel(direction)
				continue
			}
			return separated(res, simplex, TerminationDuplicateVertex)
		}

		prev := simplex.SquaredDistance()
		if math.Abs(prev-simplex.ClosestPoint().Dot(w.Point)) <= s.TerminalEpsilon*prev {
			return separated(res, simplex, TerminationConverged)
		}

		candidate := SignedVolumes(append(simplex.Vertices(), w))
		if candidate == nil {
			return separated(res, simplex, TerminationDegenerate)
		}
		if candidate.SquaredDistance() >= prev {
			return separated(res, simplex, TerminationNoDecrease)
		}

		simplex = candidate
		res.Trace = append(res.Trace, simplex.SquaredDistance())
		if touchesOrigin(simplex, s) {
			return collided(res, simplex)
		}
		direction = searchDirection(simplex, s)
	}

	logging.GJKWarning("no convergence after %d iterations, distance² %g", res.Iterations, simplex.SquaredDistance())
	return separated(res, simplex, TerminationMaxIterations)
}

// initialDirection points from A's centroid toward B's, or follows the hint.
func initialDirection(a, b Shape, hint *mgl64.Vec3) mgl64.Vec3 {
	var direction mgl64.Vec3
	if hint != nil {
		direction = *hint
	} else {
		direction = b.Centroid().Sub(a.Centroid())
	}
	if direction.Dot(direction) == 0 {
		direction = mgl64.Vec3{1, 0, 0}
	}
	return withSentinel(direction)
}

// touchesOrigin is the collision test: a tetrahedron only survives the signed
// volumes step when it encloses the origin, and a smaller simplex collides when its
// distance vanishes relative to its size.
func touchesOrigin(simplex *Simplex, s Settings) bool {
	return simplex.Len() == 4 || simplex.SquaredDistance() <= s.TerminalEpsilon*simplex.MaxSquaredNorm()
}

// searchDirection points from the simplex toward the origin. Close to the origin
// a triangle uses its own normal, which stays accurate when the closest point
// does not.
func searchDirection(simplex *Simplex, s Settings) mgl64.Vec3 {
	direction := simplex.ClosestPoint().Mul(-1)
	if simplex.Len() == 3 && simplex.SquaredDistance() < s.TriangleNormalSwitchEpsilon*simplex.MaxSquaredNorm() {
		a, b, c := simplex.Vertex(0).Point, simplex.Vertex(1).Point, simplex.Vertex(2).Point
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(n) > 0 {
			if n.Dot(a) < 0 {
				direction = n
			} else {
				direction = n.Mul(-1)
			}
		}
	}
	return withSentinel(direction)
}

// withSentinel replaces exactly-zero components by the sentinel.
func withSentinel(direction mgl64.Vec3) mgl64.Vec3 {
	for i := range direction {
		if direction[i] == 0 {
			direction[i] = directionSentinel
		}
	}
	return direction
}

func hasSentinel(direction mgl64.Vec3) bool {
	return direction[0] == directionSentinel || direction[1] == directionSentinel || direction[2] == directionSentinel
}

func flipSentinel(direction mgl64.Vec3) mgl64.Vec3 {
	for i := range direction {
		if direction[i] == directionSentinel {
			direction[i] = -directionSentinel
		}
	}
	return direction
}

func collided(res Result, simplex *Simplex) Result {
	res.Colliding = true
	res.Distance = 0
	res.Simplex = simplex
	res.Termination = TerminationColliding
	res.Valid = true
	logging.GJKDebug("colliding after %d iterations (%d vertices)", res.Iterations, simplex.Len())
	return res
}

func separated(res Result, simplex *Simplex, termination Termination) Result {
	res.Distance = math.Sqrt(simplex.SquaredDistance())
	res.PointOnA = simplex.PointOnA()
	res.PointOnB = simplex.PointOnB()
	res.Simplex = simplex
	res.Termination = termination
	res.Valid = true
	logging.GJKDebug("separated by %g after %d iterations (%s)", res.Distance, res.Iterations, termination)
	return res
}

func noSupport(res Result) Result {
	res.Termination = TerminationNoSupport
	logging.GJKDebug("shape without geometry, no result")
	return res
}

// Detector runs queries with fixed settings and remembers the last result.
// It is not safe for concurrent use; Evaluate is.
type Detector struct {
	Settings Settings
	last     Result
}

func NewDetector(settings Settings) *Detector {
	return &Detector{Settings: settings}
}

// Evaluate queries a and b starting from their centroids.
func (d *Detector) Evaluate(a, b Shape) Result {
	d.last = Evaluate(a, b, d.Settings, nil)
	return d.last
}

// EvaluateFrom queries a and b starting along hint, for instance the separating
// direction of the previous frame.
func (d *Detector) EvaluateFrom(a, b Shape, hint mgl64.Vec3) Result {
	d.last = Evaluate(a, b, d.Settings, &hint)
	return d.last
}

// Last returns the result of the previous query.
func (d *Detector) Last() Result {
	return d.last
}

// LastSimplex returns the final simplex of the previous query, or nil.
func (d *Detector) LastSimplex() *Simplex {
	return d.last.Simplex
}
