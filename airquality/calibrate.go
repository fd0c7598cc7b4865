package airquality

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// number of most recent stable samples averaged into the gas baseline
	BaselineWindow = 50

	burnInSampleInterval = time.Second
)

var (
	ErrCalibrationUnderrun = errors.New("no heat-stable readings collected during burn-in")
	ErrDegenerateBaseline  = errors.New("degenerate baseline")
)

// Baseline is the reference the live readings are scored against.
type Baseline struct {
	// measured during burn-in, units: Ohms
	Gas float64

	// configured, units: % of relative humidity
	Humidity float64
}

type Calibrator struct {
	Source Source
	Clock  Clock
	Log    logrus.FieldLogger
}

// Calibrate samples the source once per second until burnIn has elapsed and
// returns the mean gas resistance of the last BaselineWindow stable readings.
// If fewer stable readings were collected the mean is taken over those.
func (c *Calibrator) Calibrate(ctx context.Context, burnIn time.Duration) (float64, error) {
	window := make([]float64, 0, BaselineWindow)
	stable := 0

	start := c.Clock.Now()
	for elapsed := time.Duration(0); elapsed < burnIn; elapsed = c.Clock.Now().Sub(start) {
		reading, err := c.Source.Read()
		switch {
		case err != nil:
			c.Log.Debugf("burn-in read failed: %s", err)
		case reading.HeatStable:
			stable++
			if len(window) == BaselineWindow {
				window = append(window[:0], window[1:]...)
			}
			window = append(window, reading.GasResistance)
			c.Log.Debugf("Gas: %.2f Ohms  Time:%.2f", reading.GasResistance, elapsed.Seconds())
		}
		if err := c.Clock.Sleep(ctx, burnInSampleInterval); err != nil {
			return 0, errors.Wrap(err, "burn-in interrupted")
		}
	}

	if len(window) == 0 {
		return 0, errors.Wrapf(ErrCalibrationUnderrun, "burn-in of %s", burnIn)
	}
	if len(window) < BaselineWindow {
		c.Log.Warnf("only %d stable readings during burn-in, baseline averages fewer than %d samples", len(window), BaselineWindow)
	}

	sum := 0.0
	for _, gas := range window {
		sum += gas
	}
	baseline := sum / float64(len(window))
	if baseline <= 0 {
		return 0, errors.Wrapf(ErrDegenerateBaseline, "gas baseline %v", baseline)
	}

	c.Log.WithField("stable_samples", stable).Infof("Computed gas baseline: %v Ohms", baseline)
	return baseline, nil
}
