// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA runs after GJK reports a collision and determines:
//   - Penetration depth (how far the shapes overlap)
//   - Contact normal (direction along which B must move to separate from A)
//   - Witness points on each shape, and a contact manifold of up to 4 points
//
// The algorithm expands a polytope, starting from GJK's final simplex, inside the
// Minkowski difference A - B until its face closest to the origin lies on the
// boundary of the difference. That face gives the minimum translation vector.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/proximity/gjk"
	"github.com/akmonengine/proximity/logging"
)

const (
	// DefaultMaxIterations limits polytope expansion.
	// Typical convergence: 5-15 iterations for polyhedra, a few dozen for curved shapes.
	DefaultMaxIterations = 128

	// DefaultTolerance bounds the gap between the closest face and the support point
	// along its normal, relative to the depth once it exceeds 1. The gap bounds the
	// depth error: curved shapes only approach it quadratically in the face size.
	DefaultTolerance = 1e-3

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// inflateEpsilon is the squared size under which a vertex does not extend a
	// simplex to a higher dimension.
	inflateEpsilon = 1e-20

	polytopeInitialCapacity = 16
)

var (
	// ErrNoConvergence is returned when the iteration limit is reached. The contact
	// returned alongside it is the best estimate found.
	ErrNoConvergence = errors.New("epa did not converge")
	// ErrNoSupport is returned when a shape exposes no geometry.
	ErrNoSupport = errors.New("epa shape without support")
	// ErrInvalidSettings is returned by Settings.Validate.
	ErrInvalidSettings = errors.New("invalid epa settings")
)

// Settings holds the tuning parameters of a penetration query.
type Settings struct {
	Tolerance     float64
	MaxIterations int
}

func DefaultSettings() Settings {
	return Settings{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

func (s Settings) Validate() error {
	if s.MaxIterations <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "max iterations must be positive, got %d", s.MaxIterations)
	}
	if s.Tolerance <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "tolerance must be positive, got %g", s.Tolerance)
	}
	return nil
}

// Contact describes the penetration of two shapes. Normal points from A toward B,
// Depth is non-negative, and PointOnA - PointOnB = Normal * Depth.
type Contact struct {
	Normal   mgl64.Vec3
	Depth    float64
	PointOnA mgl64.Vec3
	PointOnB mgl64.Vec3
}

// EPA computes the penetration of two overlapping shapes from the simplex GJK
// ended with.
//
// Algorithm overview:
//  1. Inflate the simplex to a tetrahedron if GJK stopped on a smaller one
//  2. Build the initial polytope faces from the tetrahedron
//  3. Find the face closest to the origin
//  4. Get the support point along that face's normal
//  5. If it lies within tolerance of the face, or already is a vertex, stop
//  6. Otherwise expand the polytope with the support point and repeat from 3
//
// When the shapes only touch, so that no tetrahedron can be built, the contact
// has a zero depth. When the iteration limit is reached, the best contact found so
// far is returned together with ErrNoConvergence.
func EPA(a, b gjk.Shape, simplex *gjk.Simplex, s Settings) (Contact, error) {
	vertices, ok, err := inflate(a, b, simplex.Vertices())
	if err != nil {
		return Contact{}, err
	}
	if !ok {
		return touchingContact(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	builder.BuildInitialFaces([4]gjk.Vertex3D(vertices))

	for i := 0; i < s.MaxIterations; i++ {
		closestFaceIndex := builder.FindClosestFaceIndex()
		closestFace := builder.faces[closestFaceIndex]

		support, ok := gjk.MinkowskiSupport(a, b, closestFace.Normal)
		if !ok {
			return Contact{}, errors.Wrap(ErrNoSupport, "expanding polytope")
		}

		gap := support.Point.Dot(closestFace.Normal) - closestFace.Distance
		if gap <= s.Tolerance*math.Max(1, closestFace.Distance) || builder.HasVertex(support.Point) {
			logging.EPADebug("converged after %d iterations, depth %g", i, closestFace.Distance)
			return closestFace.contact(), nil
		}

		builder.AddPointAndRebuildFaces(support, closestFaceIndex)
	}

	closestFace := builder.faces[builder.FindClosestFaceIndex()]
	logging.EPAWarning("no convergence after %d iterations, depth estimate %g", s.MaxIterations, closestFace.Distance)
	return closestFace.contact(), errors.Wrapf(ErrNoConvergence, "after %d iterations", s.MaxIterations)
}

// Resolve runs EPA on a colliding GJK result and completes it: Distance becomes
// the negated penetration depth, NormalOnA the contact normal, NormalOnB its
// opposite, and PointOnA, PointOnB the witness points. Separated or invalid
// results are left untouched.
//
// On ErrNoConvergence the result is still filled with the best estimate.
func Resolve(result *gjk.Result, s Settings) error {
	if !result.Valid || !result.Colliding {
		return nil
	}

	contact, err := EPA(result.ShapeA, result.ShapeB, result.Simplex, s)
	if err != nil && !errors.Is(err, ErrNoConvergence) {
		return err
	}

	result.Distance = -contact.Depth
	result.PointOnA = contact.PointOnA
	result.PointOnB = contact.PointOnB
	result.NormalOnA = contact.Normal
	result.NormalOnB = contact.Normal.Mul(-1)
	return err
}

var inflateDirections = [6]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// inflate grows a GJK simplex to a tetrahedron by searching along axis directions,
// then along directions orthogonal to the current simplex. It returns false when
// the Minkowski difference has no volume around the simplex.
func inflate(a, b gjk.Shape, vertices []gjk.Vertex3D) ([]gjk.Vertex3D, bool, error) {
	for len(vertices) < 4 {
		var candidates []mgl64.Vec3
		switch len(vertices) {
		case 1:
			candidates = inflateDirections[:]
		case 2:
			axis := vertices[1].Point.Sub(vertices[0].Point)
			for _, direction := range inflateDirections {
				if perpendicular := axis.Cross(direction); perpendicular.Dot(perpendicular) > 0 {
					candidates = append(candidates, perpendicular)
				}
			}
		case 3:
			normal := vertices[1].Point.Sub(vertices[0].Point).Cross(vertices[2].Point.Sub(vertices[0].Point))
			candidates = []mgl64.Vec3{normal, normal.Mul(-1)}
		}

		extended := false
		for _, direction := range candidates {
			support, ok := gjk.MinkowskiSupport(a, b, direction)
			if !ok {
				return nil, false, errors.Wrap(ErrNoSupport, "inflating simplex")
			}
			if extends(vertices, support.Point) {
				vertices = append(vertices, support)
				extended = true
				break
			}
		}
		if !extended {
			return vertices, false, nil
		}
	}
	return vertices, true, nil
}

// extends reports whether p is affinely independent of vertices.
func extends(vertices []gjk.Vertex3D, p mgl64.Vec3) bool {
	origin := vertices[0].Point
	offset := p.Sub(origin)
	switch len(vertices) {
	case 1:
		return offset.Dot(offset) > inflateEpsilon
	case 2:
		axis := vertices[1].Point.Sub(origin)
		cross := axis.Cross(offset)
		return cross.Dot(cross) > inflateEpsilon*axis.Dot(axis)
	default:
		normal := vertices[1].Point.Sub(origin).Cross(vertices[2].Point.Sub(origin))
		height := normal.Dot(offset)
		return height*height > inflateEpsilon*normal.Dot(normal)
	}
}

// touchingContact describes shapes whose Minkowski difference is flat around the
// origin: they touch without overlapping volume.
func touchingContact(a, b gjk.Shape, simplex *gjk.Simplex) Contact {
	normal := b.Centroid().Sub(a.Centroid())
	if normal.Len() < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Normalize()
	}
	logging.EPADebug("flat simplex of %d vertices, touching contact", simplex.Len())
	return Contact{
		Normal:   snapNormalToAxis(normal),
		PointOnA: simplex.PointOnA(),
		PointOnB: simplex.PointOnB(),
	}
}

// snapNormalToAxis clamps nearly-zero components of a normal vector to exactly zero,
// then renormalizes it. Axis-aligned contacts (box on ground) keep exact tangents.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := range normal {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length < NormalSnapThreshold {
		return mgl64.Vec3{0, 1, 0}
	}
	return normal.Mul(1.0 / length)
}
