package airquality

import (
	"math"

	"github.com/pkg/errors"
)

// heater runs the sensor die about 2 degrees above ambient
const heaterTemperatureBias = 2.0

// Metrics are derived from one stable reading.
type Metrics struct {
	Humidity        float64
	Temperature     float64
	Pressure        float64
	GasOhms         float64
	AirQualityScore float64

	// Temperature minus the heater bias. Not published.
	HeaterCorrectedTemperature float64
}

// Score computes the composite air quality of a heat-stable reading.
//
// The humidity part is at most humidityWeight*100 and shrinks with the
// distance of the humidity from the baseline in either direction. The gas
// part is at most the remainder up to 100 and shrinks as gas resistance
// falls below the baseline.
func Score(r Reading, b Baseline, humidityWeight float64) (Metrics, error) {
	if b.Gas == 0 || b.Humidity == 0 || b.Humidity == 100 {
		return Metrics{}, errors.Wrapf(ErrDegenerateBaseline, "gas %v Ohms, humidity %v %%RH", b.Gas, b.Humidity)
	}

	humidityPart := humidityWeight * 100
	gasPart := 100 - humidityPart

	var humidityScore float64
	humidityOffset := r.Humidity - b.Humidity
	if humidityOffset > 0 {
		humidityScore = (100 - b.Humidity - humidityOffset) / (100 - b.Humidity) * humidityPart
	} else {
		humidityScore = (b.Humidity + humidityOffset) / b.Humidity * humidityPart
	}

	var gasScore float64
	gasOffset := b.Gas - r.GasResistance
	if gasOffset > 0 {
		gasScore = (r.GasResistance / b.Gas) * gasPart
	} else {
		gasScore = gasPart
	}

	score := humidityScore + gasScore
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Metrics{}, errors.Wrapf(ErrDegenerateBaseline, "non-finite air quality score %v", score)
	}

	return Metrics{
		Humidity:                   r.Humidity,
		Temperature:                r.Temperature,
		Pressure:                   r.Pressure,
		GasOhms:                    r.GasResistance,
		AirQualityScore:            score,
		HeaterCorrectedTemperature: r.Temperature - heaterTemperatureBias,
	}, nil
}
