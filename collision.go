// Package proximity answers proximity queries between convex shapes: separation
// distance and closest points when they are apart, penetration depth, normals and
// contact points when they overlap.
//
// A query runs in two stages:
//   - GJK computes the distance, or reports that the shapes intersect
//   - EPA then measures the penetration and a manifold is clipped from the
//     contact features of both shapes
package proximity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/proximity/epa"
	"github.com/akmonengine/proximity/gjk"
)

// Pair holds two shapes to query against each other.
type Pair struct {
	A gjk.Shape
	B gjk.Shape
}

// Collision is the outcome of a query. For overlapping shapes the embedded result
// carries a negative Distance, the contact normals and witness points, and Contacts
// the manifold. Separated shapes have no contacts.
type Collision struct {
	gjk.Result
	Contacts []epa.ContactPoint
}

// Penetrating reports whether the shapes overlap and EPA measured the overlap.
func (c Collision) Penetrating() bool {
	return c.Valid && c.Colliding && len(c.Contacts) > 0
}

// Collide queries a and b.
//
// A query on shapes without geometry is not an error: the collision is returned
// with Valid false. epa.ErrNoConvergence is returned alongside the best estimate,
// which is still filled in.
func Collide(a, b gjk.Shape, cfg Config) (Collision, error) {
	if err := cfg.Validate(); err != nil {
		return Collision{}, err
	}
	return resolve(gjk.Evaluate(a, b, cfg.GJK, nil), cfg)
}

// CollideAll queries every pair in order, on the calling goroutine. It stops at
// the first error other than epa.ErrNoConvergence and returns the collisions
// computed so far with it.
func CollideAll(pairs []Pair, cfg Config) ([]Collision, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	collisions := make([]Collision, 0, len(pairs))
	for i, p := range pairs {
		c, err := resolve(gjk.Evaluate(p.A, p.B, cfg.GJK, nil), cfg)
		if err != nil && !errors.Is(err, epa.ErrNoConvergence) {
			return collisions, errors.Wrapf(err, "pair %d", i)
		}
		collisions = append(collisions, c)
	}
	return collisions, nil
}

// resolve completes a colliding result with EPA and the contact manifold.
func resolve(result gjk.Result, cfg Config) (Collision, error) {
	collision := Collision{Result: result}
	if !result.Valid || !result.Colliding {
		return collision, nil
	}

	err := epa.Resolve(&collision.Result, cfg.EPA)
	if err != nil && !errors.Is(err, epa.ErrNoConvergence) {
		return collision, errors.Wrap(err, "resolving penetration")
	}

	contact := epa.Contact{
		Normal:   collision.NormalOnA,
		Depth:    -collision.Distance,
		PointOnA: collision.PointOnA,
		PointOnB: collision.PointOnB,
	}
	collision.Contacts = epa.Manifold(result.ShapeA, result.ShapeB, contact)
	return collision, err
}

// separatingHint returns the direction a following query on the same pair should
// start from: from A toward B, along the contact normal or the closest points.
func separatingHint(c Collision) (mgl64.Vec3, bool) {
	if !c.Valid {
		return mgl64.Vec3{}, false
	}
	if c.Colliding {
		if c.Contacts == nil {
			return mgl64.Vec3{}, false
		}
		return c.NormalOnA, true
	}
	hint := c.PointOnB.Sub(c.PointOnA)
	return hint, hint.Dot(hint) > 0
}
