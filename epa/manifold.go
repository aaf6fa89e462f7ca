package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/gjk"
)

// ContactPoint is one point of a contact manifold.
type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// FeatureShape is implemented by shapes able to report the world-space feature
// (vertex, edge or face polygon) they expose along a direction.
type FeatureShape interface {
	ContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// Manifold creates contact points for a penetration using Sutherland-Hodgman clipping.
//
// A contact manifold is a set of 1-4 points representing where two shapes touch.
//
// Algorithm:
//  1. Get the contact feature of A along the normal and of B against it
//  2. Pick the incident (fewer points) and reference (more points) features
//  3. Clip the incident feature against the side planes of the reference
//  4. Keep the points lying behind the reference face
//  5. Reduce to 4 points if needed
//
// Shapes that do not implement FeatureShape contribute the contact witness point.
func Manifold(a, b gjk.Shape, contact Contact) []ContactPoint {
	featureA := feature(a, contact.Normal, contact.PointOnA)
	featureB := feature(b, contact.Normal.Mul(-1), contact.PointOnB)

	// the reference normal points out of the reference shape
	incident, reference, referenceNormal := featureB, featureA, contact.Normal
	if len(featureB) > len(featureA) {
		incident, reference, referenceNormal = featureA, featureB, contact.Normal.Mul(-1)
	}

	if len(incident) == 1 {
		return []ContactPoint{{Position: incident[0], Penetration: contact.Depth}}
	}
	// edge against edge: no reference face to clip against
	if len(reference) < 3 {
		midpoint := contact.PointOnA.Add(contact.PointOnB).Mul(0.5)
		return []ContactPoint{{Position: midpoint, Penetration: contact.Depth}}
	}

	clipped := clipIncidentAgainstReference(incident, reference, contact.Normal)

	faceNormal := reference[1].Sub(reference[0]).Cross(reference[2].Sub(reference[0]))
	if faceNormal.Len() < 1e-12 {
		faceNormal = referenceNormal
	}
	faceNormal = faceNormal.Normalize()
	if faceNormal.Dot(referenceNormal) < 0 {
		faceNormal = faceNormal.Mul(-1)
	}
	offset := reference[0].Dot(faceNormal)

	var points []ContactPoint
	for _, point := range clipped {
		distance := point.Dot(faceNormal) - offset
		if distance <= clipTolerance {
			points = append(points, ContactPoint{Position: point, Penetration: math.Max(0, -distance)})
		}
	}

	if len(points) == 0 {
		return []ContactPoint{{Position: contact.PointOnB, Penetration: contact.Depth}}
	}
	if len(points) > 4 {
		points = reduceTo4Points(points, contact.Normal)
	}
	return points
}

const clipTolerance = 1e-6

func feature(shape gjk.Shape, direction, witness mgl64.Vec3) []mgl64.Vec3 {
	if fs, ok := shape.(FeatureShape); ok {
		if points := fs.ContactFeature(direction); len(points) > 0 {
			return points
		}
	}
	return []mgl64.Vec3{witness}
}

// clipIncidentAgainstReference clips the incident polygon against the planes
// through each reference edge, perpendicular to the contact normal and facing
// the reference center.
func clipIncidentAgainstReference(incident, reference []mgl64.Vec3, normal mgl64.Vec3) []mgl64.Vec3 {
	if len(reference) < 2 {
		return incident
	}

	center := computeCenter(reference)
	output := incident
	for i := 0; i < len(reference) && len(output) > 0; i++ {
		v1 := reference[i]
		v2 := reference[(i+1)%len(reference)]

		clipNormal := v2.Sub(v1).Cross(normal)
		if clipNormal.Len() < 1e-12 {
			continue
		}
		clipNormal = clipNormal.Normalize()
		if center.Sub(v1).Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}

		output = clipPolygonAgainstPlane(output, v1, clipNormal)
	}
	return output
}

// clipPolygonAgainstPlane implements Sutherland-Hodgman for a single plane,
// keeping the side planeNormal points to.
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return polygon
	}

	var output []mgl64.Vec3
	for i := 0; i < len(polygon); i++ {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		if currentDist >= -clipTolerance {
			output = append(output, current)
			if nextDist < -clipTolerance {
				output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
			}
		} else if nextDist >= -clipTolerance {
			output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
		}
	}
	return output
}

// lineIntersectPlane returns the intersection of segment p1p2 with a plane,
// clamped to the segment.
func lineIntersectPlane(p1, p2, planePoint, planeNormal mgl64.Vec3) mgl64.Vec3 {
	dir := p2.Sub(p1)
	denom := dir.Dot(planeNormal)
	if math.Abs(denom) < 1e-10 {
		return p1
	}

	t := -p1.Sub(planePoint).Dot(planeNormal) / denom
	t = math.Max(0, math.Min(1, t))
	return p1.Add(dir.Mul(t))
}

func computeCenter(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{}
	}

	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}

func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	tangent1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()
	return tangent1, tangent2
}

// reduceTo4Points keeps the extreme points along the two tangent directions.
func reduceTo4Points(points []ContactPoint, normal mgl64.Vec3) []ContactPoint {
	tangent1, tangent2 := getTangentBasis(normal)

	minX, maxX, minY, maxY := 0, 0, 0, 0
	for i, p := range points {
		x, y := p.Position.Dot(tangent1), p.Position.Dot(tangent2)
		if x < points[minX].Position.Dot(tangent1) {
			minX = i
		}
		if x > points[maxX].Position.Dot(tangent1) {
			maxX = i
		}
		if y < points[minY].Position.Dot(tangent2) {
			minY = i
		}
		if y > points[maxY].Position.Dot(tangent2) {
			maxY = i
		}
	}

	return lo.Map(lo.Uniq([]int{minX, maxX, minY, maxY}), func(idx int, _ int) ContactPoint {
		return points[idx]
	})
}
