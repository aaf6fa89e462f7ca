package proximity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/gjk"
)

// Tracker queries the same pair repeatedly, for instance once per simulation tick.
// Each query starts from the separating direction of the previous one, which
// usually saves iterations when the shapes move little between queries.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	Pair   Pair
	Config Config

	last    Collision
	hint    mgl64.Vec3
	hasHint bool
}

func NewTracker(a, b gjk.Shape, cfg Config) *Tracker {
	return &Tracker{
		Pair:   Pair{A: a, B: b},
		Config: cfg,
	}
}

// Update queries the pair at its current poses.
func (t *Tracker) Update() (Collision, error) {
	if err := t.Config.Validate(); err != nil {
		return Collision{}, err
	}

	var hint *mgl64.Vec3
	if t.hasHint {
		hint = &t.hint
	}

	collision, err := resolve(gjk.Evaluate(t.Pair.A, t.Pair.B, t.Config.GJK, hint), t.Config)
	t.last = collision
	t.hint, t.hasHint = separatingHint(collision)
	return collision, err
}

// Last returns the collision of the previous Update.
func (t *Tracker) Last() Collision {
	return t.last
}

// Reset forgets the previous query, so that the next Update starts from the
// centroids again.
func (t *Tracker) Reset() {
	t.last = Collision{}
	t.hint = mgl64.Vec3{}
	t.hasHint = false
}
