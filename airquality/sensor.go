package airquality

// Reading is a single compensated sample from the sensor.
type Reading struct {
	// units: degrees Celsius
	Temperature float64

	// units: % of relative humidity
	Humidity float64

	// units: hPa
	Pressure float64

	// units: Ohms
	GasResistance float64

	// true once the gas heater reached its target temperature,
	// only then GasResistance is meaningful
	HeatStable bool
}

// Source produces readings on demand. An error means no reading was
// available for this attempt.
type Source interface {
	Read() (Reading, error)
}
