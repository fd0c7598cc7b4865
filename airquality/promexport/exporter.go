// Package promexport exposes the air quality pipeline as Prometheus metrics.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"

	"github.com/alepar/bme680-mqtt/airquality"
)

const program = "bme680_mqtt"

// Exporter implements airquality.Observer for a single sensor.
type Exporter struct {
	humidity    prometheus.Gauge
	temperature prometheus.Gauge
	pressure    prometheus.Gauge
	gas         prometheus.Gauge
	score       prometheus.Gauge
	baseline    prometheus.Gauge
	skipped     *prometheus.CounterVec
}

func newGauge(name string, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		[]string{"address"},
	)
}

// New registers the sensor metrics, labelled with address, on reg.
func New(reg prometheus.Registerer, address string) (*Exporter, error) {
	var (
		humidity    = newGauge("bme680_humidity", "Humidity (units: % of relative Humidity)")
		temperature = newGauge("bme680_temperature", "Air Temperature (units: degrees Celsius)")
		pressure    = newGauge("bme680_pressure", "Atmospheric Pressure (units: hPa)")
		gas         = newGauge("bme680_gas_resistance", "Gas Resistance (units: Ohms)")
		score       = newGauge("bme680_air_quality_score", "Air Quality Score (0-100, higher is better)")
		baseline    = newGauge("bme680_gas_baseline", "Gas Resistance baseline from burn-in (units: Ohms)")
		skipped     = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bme680_skipped_readings_total",
				Help: "Poll cycles that published nothing, by reason",
			},
			[]string{"address", "reason"},
		)
	)
	for _, c := range []prometheus.Collector{humidity, temperature, pressure, gas, score, baseline, skipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &Exporter{
		humidity:    humidity.WithLabelValues(address),
		temperature: temperature.WithLabelValues(address),
		pressure:    pressure.WithLabelValues(address),
		gas:         gas.WithLabelValues(address),
		score:       score.WithLabelValues(address),
		baseline:    baseline.WithLabelValues(address),
		skipped:     skipped.MustCurryWith(prometheus.Labels{"address": address}),
	}, nil
}

// RegisterRuntime adds the Go runtime, process and build info collectors.
func RegisterRuntime(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
		versioncollector.NewCollector(program),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) Calibrated(b airquality.Baseline) {
	e.baseline.Set(b.Gas)
}

func (e *Exporter) Sampled(m airquality.Metrics) {
	e.humidity.Set(m.Humidity)
	e.temperature.Set(m.Temperature)
	e.pressure.Set(m.Pressure)
	e.gas.Set(m.GasOhms)
	e.score.Set(m.AirQualityScore)
}

func (e *Exporter) Skipped(reason airquality.SkipReason) {
	e.skipped.WithLabelValues(string(reason)).Inc()
}
