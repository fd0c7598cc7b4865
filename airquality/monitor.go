package airquality

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Monitor calibrates against source and then polls it forever.
type Monitor struct {
	Config    Config
	Source    Source
	Publisher Publisher
	Observer  Observer
	Clock     Clock
	Log       logrus.FieldLogger
}

func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Config.Validate(); err != nil {
		return err
	}
	clock := m.Clock
	if clock == nil {
		clock = RealClock
	}
	observer := m.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	m.Log.Infof("burning in sensor for %s", m.Config.BurnIn)
	calibrator := Calibrator{Source: m.Source, Clock: clock, Log: m.Log}
	gas, err := calibrator.Calibrate(ctx, m.Config.BurnIn)
	if err != nil {
		return errors.Wrap(err, "calibration failed")
	}
	baseline := Baseline{Gas: gas, Humidity: m.Config.HumidityBaseline}
	observer.Calibrated(baseline)

	m.Log.Infof("polling sensor every %s", m.Config.PollInterval)
	poller := Poller{
		Config:    m.Config,
		Baseline:  baseline,
		Source:    m.Source,
		Publisher: m.Publisher,
		Observer:  observer,
		Clock:     clock,
		Log:       m.Log,
	}
	return poller.Run(ctx)
}
