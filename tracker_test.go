package proximity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/proximity/epa"
	"github.com/akmonengine/proximity/geom"
)

func TestTracker(t *testing.T) {
	a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := boxAt(mgl64.Vec3{3, 0.2, 0.3}, mgl64.Vec3{1, 1, 1})
	tracker := NewTracker(a, b, DefaultConfig())

	steps := []struct {
		position mgl64.Vec3
		distance float64
	}{
		{mgl64.Vec3{3, 0.2, 0.3}, 1},
		{mgl64.Vec3{2.5, 0.2, 0.3}, 0.5},
		{mgl64.Vec3{2.1, 0.2, 0.3}, 0.1},
		{mgl64.Vec3{1.9, 0.2, 0.3}, -0.1},
	}

	for i, step := range steps {
		b.SetTransform(geom.Translation(step.position))

		c, err := tracker.Update()
		if err != nil {
			t.Fatalf("step %d: Update() error = %v", i, err)
		}
		if math.Abs(c.Distance-step.distance) > 1e-5 {
			t.Errorf("step %d: Distance = %v, want %v", i, c.Distance, step.distance)
		}
		if c.Colliding != (step.distance < 0) {
			t.Errorf("step %d: Colliding = %v", i, c.Colliding)
		}
		if tracker.Last().Distance != c.Distance {
			t.Errorf("step %d: Last() does not return the latest collision", i)
		}
		if !tracker.hasHint {
			t.Errorf("step %d: no hint kept for the next query", i)
		}
	}

	if !vec3Equal(tracker.hint, mgl64.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("hint = %v, want the contact normal (1, 0, 0)", tracker.hint)
	}

	tracker.Reset()
	if tracker.hasHint || tracker.Last().Valid {
		t.Error("Reset() kept the previous query")
	}
}

func TestTrackerInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EPA.MaxIterations = 0
	tracker := NewTracker(sphereAt(mgl64.Vec3{}, 1), sphereAt(mgl64.Vec3{3, 0, 0}, 1), cfg)

	if _, err := tracker.Update(); !errors.Is(err, epa.ErrInvalidSettings) {
		t.Errorf("Update() error = %v, want %v", err, epa.ErrInvalidSettings)
	}
	if tracker.hasHint {
		t.Error("failed Update() stored a hint")
	}
}
