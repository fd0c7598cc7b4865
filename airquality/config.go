package airquality

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration of the sampling pipeline.
type Config struct {
	SensorAddress    string
	BurnIn           time.Duration
	PollInterval     time.Duration
	TopicPrefix      string
	HumidityBaseline float64
	HumidityWeight   float64
	Verbose          bool
}

// DefaultConfig returns the defaults of the command line surface.
func DefaultConfig() Config {
	return Config{
		SensorAddress:    "0x76",
		BurnIn:           300 * time.Second,
		PollInterval:     5 * time.Second,
		TopicPrefix:      "hass_bme680/",
		HumidityBaseline: 40,
		HumidityWeight:   0.25,
	}
}

// Validate rejects configurations that would make calibration or scoring
// degenerate. It must pass before the sensor or the broker is touched.
func (c Config) Validate() error {
	switch {
	case c.SensorAddress == "":
		return errors.Wrap(ErrInvalidConfig, "sensor address is empty")
	case c.BurnIn <= 0:
		return errors.Wrapf(ErrInvalidConfig, "burn-in must be positive, got %s", c.BurnIn)
	case c.PollInterval <= 0:
		return errors.Wrapf(ErrInvalidConfig, "poll interval must be positive, got %s", c.PollInterval)
	case c.HumidityWeight < 0 || c.HumidityWeight > 1:
		return errors.Wrapf(ErrInvalidConfig, "humidity weight must be within [0,1], got %v", c.HumidityWeight)
	case c.HumidityBaseline <= 0 || c.HumidityBaseline >= 100:
		return errors.Wrapf(ErrInvalidConfig, "humidity baseline must be within (0,100), got %v", c.HumidityBaseline)
	}
	if _, err := c.Address(); err != nil {
		return err
	}
	return nil
}

// Address parses SensorAddress ("0x76", "118") as a bus address.
func (c Config) Address() (uint16, error) {
	addr, err := strconv.ParseUint(c.SensorAddress, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "bad sensor address %q", c.SensorAddress)
	}
	return uint16(addr), nil
}
