package gjk

import (
	"github.com/pkg/errors"
)

const (
	// DefaultTerminalEpsilon is the relative tolerance of the progress and
	// collision tests.
	DefaultTerminalEpsilon = 1e-16

	// DefaultTriangleNormalSwitchEpsilon is the relative squared distance below
	// which a triangle simplex searches along its normal instead of along the
	// negated closest point, whose direction is unreliable that close to the origin.
	DefaultTriangleNormalSwitchEpsilon = 1e-6

	// DefaultMaxIterations bounds the loop. Exceeding it is not an error.
	DefaultMaxIterations = 500

	// directionSentinel replaces exactly-zero components of a search direction.
	// A duplicate support vertex found along a direction carrying it triggers
	// one retry with the sentinel components negated.
	directionSentinel = 1e-9
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid gjk settings")

// Settings holds the tuning parameters of a query.
type Settings struct {
	TerminalEpsilon             float64
	TriangleNormalSwitchEpsilon float64
	MaxIterations               int
}

func DefaultSettings() Settings {
	return Settings{
		TerminalEpsilon:             DefaultTerminalEpsilon,
		TriangleNormalSwitchEpsilon: DefaultTriangleNormalSwitchEpsilon,
		MaxIterations:               DefaultMaxIterations,
	}
}

func (s Settings) Validate() error {
	if s.MaxIterations <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "max iterations must be positive, got %d", s.MaxIterations)
	}
	if s.TerminalEpsilon < 0 {
		return errors.Wrapf(ErrInvalidSettings, "terminal epsilon must not be negative, got %g", s.TerminalEpsilon)
	}
	if s.TriangleNormalSwitchEpsilon < 0 {
		return errors.Wrapf(ErrInvalidSettings, "triangle normal switch epsilon must not be negative, got %g", s.TriangleNormalSwitchEpsilon)
	}
	return nil
}
