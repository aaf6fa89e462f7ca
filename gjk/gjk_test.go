package gjk

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/polytope"
)

// Test helper functions

func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return geom.Vec3Equal(a, b, tolerance)
}

func sphereAt(position mgl64.Vec3, radius float64) *actor.Sphere {
	return actor.NewSphere(radius, geom.Translation(position))
}

func boxAt(position mgl64.Vec3, halfExtents mgl64.Vec3) *actor.Box {
	return actor.NewBox(halfExtents, geom.Translation(position))
}

func rotated(position mgl64.Vec3, angle float64, axis mgl64.Vec3) geom.Transform {
	return geom.Transform{Position: position, Rotation: mgl64.QuatRotate(angle, axis.Normalize())}
}

// MinkowskiSupport tests

func TestMinkowskiSupport(t *testing.T) {
	t.Run("two separated spheres along x-axis", func(t *testing.T) {
		a := sphereAt(mgl64.Vec3{0, 0, 0}, 1.0)
		b := sphereAt(mgl64.Vec3{3, 0, 0}, 1.0)

		support, ok := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0})
		if !ok {
			t.Fatalf("MinkowskiSupport() returned no vertex")
		}
		if !vec3Equal(support.SupportA, mgl64.Vec3{1, 0, 0}, 1e-12) {
			t.Errorf("SupportA = %v, want (1, 0, 0)", support.SupportA)
		}
		if !vec3Equal(support.SupportB, mgl64.Vec3{2, 0, 0}, 1e-12) {
			t.Errorf("SupportB = %v, want (2, 0, 0)", support.SupportB)
		}
		if !vec3Equal(support.Point, mgl64.Vec3{-1, 0, 0}, 1e-12) {
			t.Errorf("Point = %v, want (-1, 0, 0)", support.Point)
		}
	})

	t.Run("box corners", func(t *testing.T) {
		a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
		b := boxAt(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 1, 1})

		support, ok := MinkowskiSupport(a, b, mgl64.Vec3{1, 1, 1})
		if !ok {
			t.Fatalf("MinkowskiSupport() returned no vertex")
		}
		if !vec3Equal(support.Point, mgl64.Vec3{-3, 2, 2}, 1e-12) {
			t.Errorf("Point = %v, want (-3, 2, 2)", support.Point)
		}
	})

	t.Run("shape without geometry", func(t *testing.T) {
		a := sphereAt(mgl64.Vec3{0, 0, 0}, 1.0)
		b := actor.NewHull(nil, geom.NewTransform())

		if _, ok := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0}); ok {
			t.Errorf("MinkowskiSupport() with an empty hull should fail")
		}
	})
}

// Evaluate tests

func TestEvaluateSeparated(t *testing.T) {
	tetrahedron, err := polytope.NewTetrahedron(
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("NewTetrahedron() error = %v", err)
	}

	tests := []struct {
		name     string
		a, b     Shape
		distance float64
		pointA   *mgl64.Vec3
		pointB   *mgl64.Vec3
	}{
		{
			name:     "spheres",
			a:        sphereAt(mgl64.Vec3{0, 0, 0}, 1.0),
			b:        sphereAt(mgl64.Vec3{3, 0, 0}, 1.0),
			distance: 1.0,
			pointA:   &mgl64.Vec3{1, 0, 0},
			pointB:   &mgl64.Vec3{2, 0, 0},
		},
		{
			name:     "boxes face to face",
			a:        boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			b:        boxAt(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
			distance: 2.0,
		},
		{
			name:     "sphere above a box",
			a:        sphereAt(mgl64.Vec3{0, 0, 3}, 1.0),
			b:        boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			distance: 1.0,
			pointA:   &mgl64.Vec3{0, 0, 2},
			pointB:   &mgl64.Vec3{0, 0, 1},
		},
		{
			name:     "rotated box corner facing a box",
			a:        actor.NewBox(mgl64.Vec3{1, 1, 1}, rotated(mgl64.Vec3{0, 0, 0}, math.Pi/4, mgl64.Vec3{0, 0, 1})),
			b:        boxAt(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{1, 1, 1}),
			distance: 3 - math.Sqrt2,
		},
		{
			name:     "sphere above a ramp slope",
			a:        actor.NewRamp(2, 2, 1, geom.NewTransform()),
			b:        sphereAt(mgl64.Vec3{0.5, 0, 3}, 0.5),
			distance: 2.75/math.Sqrt(1.25) - 0.5,
		},
		{
			name:     "capsules side by side",
			a:        actor.NewCapsule(0.5, 2, geom.NewTransform()),
			b:        actor.NewCapsule(0.5, 2, geom.Translation(mgl64.Vec3{3, 0, 0})),
			distance: 2.0,
		},
		{
			name:     "hull and sphere",
			a:        actor.NewHull(tetrahedron, geom.Translation(mgl64.Vec3{-1, 0, 0})),
			b:        sphereAt(mgl64.Vec3{2, 0, 0}, 1.0),
			distance: 1.0,
			pointA:   &mgl64.Vec3{0, 0, 0},
			pointB:   &mgl64.Vec3{1, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.a, tt.b, DefaultSettings(), nil)

			if !result.Valid {
				t.Fatalf("result is not valid (%s)", result.Termination)
			}
			if result.Colliding {
				t.Fatalf("shapes should not collide")
			}
			if math.Abs(result.Distance-tt.distance) > 1e-6 {
				t.Errorf("Distance = %v, want %v", result.Distance, tt.distance)
			}
			if tt.pointA != nil && !vec3Equal(result.PointOnA, *tt.pointA, 1e-6) {
				t.Errorf("PointOnA = %v, want %v", result.PointOnA, *tt.pointA)
			}
			if tt.pointB != nil && !vec3Equal(result.PointOnB, *tt.pointB, 1e-6) {
				t.Errorf("PointOnB = %v, want %v", result.PointOnB, *tt.pointB)
			}
			if gap := result.PointOnB.Sub(result.PointOnA).Len(); math.Abs(gap-result.Distance) > 1e-9 {
				t.Errorf("closest points are %v apart, Distance = %v", gap, result.Distance)
			}
			if !geom.IsNaNVec3(result.NormalOnA) || !geom.IsNaNVec3(result.NormalOnB) {
				t.Errorf("normals should stay NaN, got %v and %v", result.NormalOnA, result.NormalOnB)
			}
			if result.ShapeA != tt.a || result.ShapeB != tt.b {
				t.Errorf("result does not reference the queried shapes")
			}
		})
	}
}

func TestEvaluateColliding(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
	}{
		{
			name: "overlapping spheres",
			a:    sphereAt(mgl64.Vec3{0, 0, 0}, 1.0),
			b:    sphereAt(mgl64.Vec3{1, 0, 0}, 1.0),
		},
		{
			name: "identical boxes",
			a:    boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:    boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
		},
		{
			name: "overlapping boxes",
			a:    boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:    boxAt(mgl64.Vec3{1.5, 0.3, -0.2}, mgl64.Vec3{1, 1, 1}),
		},
		{
			name: "sphere inside a box",
			a:    boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2}),
			b:    sphereAt(mgl64.Vec3{0.1, 0.2, 0.3}, 0.5),
		},
		{
			name: "cylinder crossing a rotated box",
			a:    actor.NewCylinder(0.5, 2, geom.NewTransform()),
			b:    actor.NewBox(mgl64.Vec3{1, 0.2, 0.2}, rotated(mgl64.Vec3{0.5, 0, 0}, 0.3, mgl64.Vec3{1, 1, 0})),
		},
		{
			name: "capsule resting in a ramp",
			a:    actor.NewRamp(2, 2, 1, geom.NewTransform()),
			b:    actor.NewCapsule(0.3, 1, geom.Translation(mgl64.Vec3{1.5, 0, 0.5})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.a, tt.b, DefaultSettings(), nil)

			if !result.Valid {
				t.Fatalf("result is not valid (%s)", result.Termination)
			}
			if !result.Colliding {
				t.Fatalf("shapes should collide, got distance %v (%s)", result.Distance, result.Termination)
			}
			if result.Distance != 0 {
				t.Errorf("Distance = %v, want 0", result.Distance)
			}
			if result.Termination != TerminationColliding {
				t.Errorf("Termination = %s, want %s", result.Termination, TerminationColliding)
			}
			if !geom.IsNaNVec3(result.PointOnA) || !geom.IsNaNVec3(result.PointOnB) {
				t.Errorf("witness points should stay NaN, got %v and %v", result.PointOnA, result.PointOnB)
			}
			if result.Simplex == nil {
				t.Fatalf("Simplex = nil")
			}
			checkBarycentric(t, result.Simplex)
		})
	}
}

func TestEvaluateNoSupport(t *testing.T) {
	a := sphereAt(mgl64.Vec3{0, 0, 0}, 1.0)
	b := actor.NewHull(nil, geom.NewTransform())

	result := Evaluate(a, b, DefaultSettings(), nil)

	if result.Valid {
		t.Errorf("result should not be valid")
	}
	if result.Colliding {
		t.Errorf("result should not report a collision")
	}
	if result.Termination != TerminationNoSupport {
		t.Errorf("Termination = %s, want %s", result.Termination, TerminationNoSupport)
	}
	if result.Simplex != nil {
		t.Errorf("Simplex should be nil")
	}
	if !math.IsNaN(result.Distance) {
		t.Errorf("Distance = %v, want NaN", result.Distance)
	}
}

func TestEvaluateHint(t *testing.T) {
	a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := sphereAt(mgl64.Vec3{0, 4, 0}, 1.0)

	for _, hint := range []mgl64.Vec3{{0, 1, 0}, {0, -1, 0}, {1, 0, 0}, {0, 0, 0}} {
		result := Evaluate(a, b, DefaultSettings(), &hint)
		if result.Colliding {
			t.Errorf("hint %v: shapes should not collide", hint)
			continue
		}
		if math.Abs(result.Distance-2) > 1e-6 {
			t.Errorf("hint %v: Distance = %v, want 2", hint, result.Distance)
		}
	}
}

func TestEvaluateMaxIterations(t *testing.T) {
	a := actor.NewBox(mgl64.Vec3{1, 0.5, 0.25}, rotated(mgl64.Vec3{0, 0, 0}, 0.7, mgl64.Vec3{1, 2, 3}))
	b := actor.NewCylinder(0.5, 1, rotated(mgl64.Vec3{3, 1, -1}, 1.1, mgl64.Vec3{-1, 0, 2}))

	full := Evaluate(a, b, DefaultSettings(), nil)
	if full.Colliding {
		t.Fatalf("shapes should not collide")
	}

	settings := DefaultSettings()
	settings.MaxIterations = 1
	capped := Evaluate(a, b, settings, nil)

	if !capped.Valid {
		t.Fatalf("capped result is not valid (%s)", capped.Termination)
	}
	if capped.Iterations > 1 {
		t.Errorf("Iterations = %d, want at most 1", capped.Iterations)
	}
	if capped.Colliding {
		t.Errorf("capped query should not report a collision")
	}
	// every simplex lies inside the Minkowski difference, so its distance bounds the true one from above
	if capped.Distance < full.Distance-1e-9 {
		t.Errorf("capped Distance %v is below the converged %v", capped.Distance, full.Distance)
	}
}

func TestSearchDirection(t *testing.T) {
	settings := DefaultSettings()

	t.Run("triangle close to the origin uses its normal", func(t *testing.T) {
		simplex := SignedVolumes(vertices(
			mgl64.Vec3{-1, -1, 0.001}, mgl64.Vec3{1, -1, 0.001}, mgl64.Vec3{0, 1, 0.001}))
		if simplex == nil || simplex.Len() != 3 {
			t.Fatalf("expected a triangle simplex")
		}

		direction := searchDirection(simplex, settings)
		if direction.Normalize().Dot(mgl64.Vec3{0, 0, -1}) < 0.999999 {
			t.Errorf("direction = %v, want (0, 0, -1)", direction)
		}
		if direction[0] != directionSentinel || direction[1] != directionSentinel {
			t.Errorf("zero components should carry the sentinel, got %v", direction)
		}
	})

	t.Run("triangle far from the origin uses the closest point", func(t *testing.T) {
		simplex := SignedVolumes(vertices(
			mgl64.Vec3{-1, -1, 1}, mgl64.Vec3{1, -1, 1}, mgl64.Vec3{0, 1, 1}))
		if simplex == nil || simplex.Len() != 3 {
			t.Fatalf("expected a triangle simplex")
		}

		direction := searchDirection(simplex, settings)
		if !vec3Equal(direction, mgl64.Vec3{directionSentinel, directionSentinel, -1}, 1e-12) {
			t.Errorf("direction = %v, want (0, 0, -1) with sentinels", direction)
		}
	})
}

func TestSentinel(t *testing.T) {
	direction := withSentinel(mgl64.Vec3{0, 2, 0})
	if direction != (mgl64.Vec3{directionSentinel, 2, directionSentinel}) {
		t.Errorf("withSentinel() = %v", direction)
	}
	if !hasSentinel(direction) {
		t.Errorf("hasSentinel() = false")
	}

	flipped := flipSentinel(direction)
	if flipped != (mgl64.Vec3{-directionSentinel, 2, -directionSentinel}) {
		t.Errorf("flipSentinel() = %v", flipped)
	}
	if hasSentinel(flipped) {
		t.Errorf("hasSentinel() after a flip = true")
	}

	if hasSentinel(withSentinel(mgl64.Vec3{1, 2, 3})) {
		t.Errorf("a direction without zero components should not carry the sentinel")
	}
}

// Detector tests

func TestDetector(t *testing.T) {
	detector := NewDetector(DefaultSettings())
	if detector.LastSimplex() != nil {
		t.Errorf("new detector should have no simplex")
	}

	a := sphereAt(mgl64.Vec3{0, 0, 0}, 1.0)
	b := sphereAt(mgl64.Vec3{0, 0, 5}, 2.0)

	result := detector.Evaluate(a, b)
	if math.Abs(result.Distance-2) > 1e-6 {
		t.Errorf("Distance = %v, want 2", result.Distance)
	}
	if detector.Last().Distance != result.Distance {
		t.Errorf("Last() does not match the returned result")
	}
	if detector.LastSimplex() != result.Simplex {
		t.Errorf("LastSimplex() does not match the returned result")
	}

	hinted := detector.EvaluateFrom(a, b, result.PointOnB.Sub(result.PointOnA))
	if math.Abs(hinted.Distance-result.Distance) > 1e-9 {
		t.Errorf("hinted Distance = %v, want %v", hinted.Distance, result.Distance)
	}
}

// Settings tests

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
		valid  bool
	}{
		{"defaults", func(s *Settings) {}, true},
		{"zero epsilons", func(s *Settings) { s.TerminalEpsilon, s.TriangleNormalSwitchEpsilon = 0, 0 }, true},
		{"zero iterations", func(s *Settings) { s.MaxIterations = 0 }, false},
		{"negative terminal epsilon", func(s *Settings) { s.TerminalEpsilon = -1 }, false},
		{"negative switch epsilon", func(s *Settings) { s.TriangleNormalSwitchEpsilon = -1e-6 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Validate() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestTerminationString(t *testing.T) {
	tests := map[Termination]string{
		TerminationNone:            "none",
		TerminationColliding:       "colliding",
		TerminationConverged:       "converged",
		TerminationDuplicateVertex: "duplicate vertex",
		TerminationDegenerate:      "degenerate",
		TerminationNoDecrease:      "no decrease",
		TerminationMaxIterations:   "max iterations",
		TerminationNoSupport:       "no support",
	}
	for termination, expected := range tests {
		if termination.String() != expected {
			t.Errorf("String() = %q, want %q", termination.String(), expected)
		}
	}
}

// Randomized tests

func randomVec3(r *rand.Rand, scale float64) mgl64.Vec3 {
	return mgl64.Vec3{(r.Float64()*2 - 1) * scale, (r.Float64()*2 - 1) * scale, (r.Float64()*2 - 1) * scale}
}

func randomTransform(r *rand.Rand) geom.Transform {
	axis := randomVec3(r, 1)
	if axis.Len() < 1e-3 {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return rotated(randomVec3(r, 4), r.Float64()*2*math.Pi, axis)
}

func randomShape(r *rand.Rand) Shape {
	transform := randomTransform(r)
	switch r.Intn(5) {
	case 0:
		return actor.NewSphere(0.2+r.Float64(), transform)
	case 1:
		return actor.NewBox(mgl64.Vec3{0.2 + r.Float64(), 0.2 + r.Float64(), 0.2 + r.Float64()}, transform)
	case 2:
		return actor.NewCapsule(0.2+r.Float64()/2, 0.5+r.Float64(), transform)
	case 3:
		return actor.NewCylinder(0.2+r.Float64()/2, 0.5+r.Float64(), transform)
	default:
		return actor.NewRamp(0.5+r.Float64(), 0.5+r.Float64(), 0.5+r.Float64(), transform)
	}
}

func TestEvaluateRandomPairs(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	settings := DefaultSettings()
	settings.MaxIterations = 64

	for i := 0; i < 500; i++ {
		a, b := randomShape(r), randomShape(r)
		result := Evaluate(a, b, settings, nil)

		if !result.Valid {
			t.Fatalf("pair %d: result is not valid (%s)", i, result.Termination)
		}
		if result.Iterations > settings.MaxIterations {
			t.Errorf("pair %d: %d iterations exceed the cap", i, result.Iterations)
		}
		for k := 1; k < len(result.Trace); k++ {
			if result.Trace[k] >= result.Trace[k-1] {
				t.Errorf("pair %d: trace is not strictly decreasing at %d: %v", i, k, result.Trace)
				break
			}
		}
		checkBarycentric(t, result.Simplex)

		if result.Colliding {
			if result.Distance != 0 {
				t.Errorf("pair %d: colliding with Distance %v", i, result.Distance)
			}
			continue
		}
		if result.Distance < 0 {
			t.Errorf("pair %d: negative Distance %v", i, result.Distance)
		}
		if gap := result.PointOnB.Sub(result.PointOnA).Len(); math.Abs(gap-result.Distance) > 1e-9 {
			t.Errorf("pair %d: closest points are %v apart, Distance = %v", i, gap, result.Distance)
		}
	}
}

func TestEvaluateRandomSpheres(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		ra, rb := 0.1+r.Float64(), 0.1+r.Float64()
		ca, cb := randomVec3(r, 3), randomVec3(r, 3)
		a, b := sphereAt(ca, ra), sphereAt(cb, rb)

		expected := cb.Sub(ca).Len() - ra - rb
		if math.Abs(expected) < 1e-3 {
			continue
		}

		ab := Evaluate(a, b, DefaultSettings(), nil)
		ba := Evaluate(b, a, DefaultSettings(), nil)

		if ab.Colliding != (expected < 0) || ba.Colliding != (expected < 0) {
			t.Errorf("pair %d: Colliding = %v/%v, expected distance %v", i, ab.Colliding, ba.Colliding, expected)
			continue
		}
		if expected < 0 {
			continue
		}
		if math.Abs(ab.Distance-expected) > 1e-6 || math.Abs(ba.Distance-expected) > 1e-6 {
			t.Errorf("pair %d: Distance = %v/%v, want %v", i, ab.Distance, ba.Distance, expected)
		}
		if !vec3Equal(ab.PointOnA, ba.PointOnB, 1e-6) || !vec3Equal(ab.PointOnB, ba.PointOnA, 1e-6) {
			t.Errorf("pair %d: swapped query did not swap the closest points", i)
		}
	}
}

func TestEvaluateSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 300; i++ {
		a, b := randomShape(r), randomShape(r)
		ab := Evaluate(a, b, DefaultSettings(), nil)
		ba := Evaluate(b, a, DefaultSettings(), nil)

		// near-touching pairs may legitimately flip between the two orders
		if (!ab.Colliding && ab.Distance < 1e-3) || (!ba.Colliding && ba.Distance < 1e-3) {
			continue
		}
		if ab.Colliding != ba.Colliding {
			t.Errorf("pair %d: Colliding = %v one way, %v the other", i, ab.Colliding, ba.Colliding)
			continue
		}
		if !ab.Colliding && math.Abs(ab.Distance-ba.Distance) > 1e-6 {
			t.Errorf("pair %d: Distance = %v one way, %v the other", i, ab.Distance, ba.Distance)
		}
	}
}

// Benchmarks

func BenchmarkEvaluateSpheresSeparated(b *testing.B) {
	a := sphereAt(mgl64.Vec3{0, 0, 0}, 1.0)
	c := sphereAt(mgl64.Vec3{3, 0.5, 0}, 1.0)
	settings := DefaultSettings()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(a, c, settings, nil)
	}
}

func BenchmarkEvaluateBoxesIntersecting(b *testing.B) {
	a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	c := actor.NewBox(mgl64.Vec3{1, 1, 1}, rotated(mgl64.Vec3{1.5, 0.5, 0}, 0.4, mgl64.Vec3{1, 1, 0}))
	settings := DefaultSettings()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(a, c, settings, nil)
	}
}

func BenchmarkEvaluateMixedShapes(b *testing.B) {
	a := actor.NewCapsule(0.5, 2, geom.NewTransform())
	c := actor.NewRamp(2, 2, 1, geom.Translation(mgl64.Vec3{2, 0, 0}))
	settings := DefaultSettings()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(a, c, settings, nil)
	}
}
