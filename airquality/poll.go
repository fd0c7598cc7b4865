package airquality

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Poller reads, scores and publishes one sample per cycle.
type Poller struct {
	Config    Config
	Baseline  Baseline
	Source    Source
	Publisher Publisher
	Observer  Observer
	Clock     Clock
	Log       logrus.FieldLogger
}

// Run polls until ctx is cancelled or scoring fails. Cycles are spaced at
// least Config.PollInterval apart, measured from the end of a cycle.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := p.Poll(); err != nil {
			return err
		}
		if err := p.Clock.Sleep(ctx, p.Config.PollInterval); err != nil {
			return errors.Wrap(err, "polling stopped")
		}
	}
}

// Poll runs a single cycle. Failed and unstable readings are skipped
// without publishing anything; only a scoring failure is returned.
func (p *Poller) Poll() error {
	observer := p.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	reading, err := p.Source.Read()
	if err != nil {
		p.Log.Warnf("failed to read from sensor: %s", err)
		observer.Skipped(SkipError)
		return nil
	}
	if !reading.HeatStable {
		p.Log.Debug("reading not heat-stable, skipping")
		observer.Skipped(SkipUnstable)
		return nil
	}

	m, err := Score(reading, p.Baseline, p.Config.HumidityWeight)
	if err != nil {
		return errors.Wrap(err, "failed to score reading")
	}

	p.Log.WithField("corrected_temperature", m.HeaterCorrectedTemperature).
		Debugf("Gas: %.2f Ohms,humidity: %.2f %%RH,air quality: %.2f", m.GasOhms, m.Humidity, m.AirQualityScore)

	for _, v := range []struct {
		metric string
		value  float64
	}{
		{MetricHumidity, m.Humidity},
		{MetricTemperature, m.Temperature},
		{MetricPressure, m.Pressure},
		{MetricAirQuality, m.AirQualityScore},
		{MetricGasOhms, m.GasOhms},
	} {
		p.Publisher.Publish(Topic(p.Config.TopicPrefix, p.Config.SensorAddress, v.metric), FormatValue(v.value))
	}
	observer.Sampled(m)
	return nil
}
