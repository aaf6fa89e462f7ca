package proximity

import (
	"github.com/pkg/errors"

	"github.com/akmonengine/proximity/epa"
	"github.com/akmonengine/proximity/gjk"
)

// Config groups the settings of both stages of a query.
type Config struct {
	GJK gjk.Settings
	EPA epa.Settings
}

func DefaultConfig() Config {
	return Config{
		GJK: gjk.DefaultSettings(),
		EPA: epa.DefaultSettings(),
	}
}

// Validate reports the first invalid setting. The returned error wraps
// gjk.ErrInvalidSettings or epa.ErrInvalidSettings.
func (c Config) Validate() error {
	if err := c.GJK.Validate(); err != nil {
		return errors.Wrap(err, "proximity config")
	}
	if err := c.EPA.Validate(); err != nil {
		return errors.Wrap(err, "proximity config")
	}
	return nil
}
