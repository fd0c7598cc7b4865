package airquality

import (
	"math"
	"strconv"
	"strings"
)

// metric names as they appear in topics
const (
	MetricHumidity    = "humidity"
	MetricTemperature = "temperature"
	MetricPressure    = "pressure"
	MetricAirQuality  = "air_qual"
	MetricGasOhms     = "gas_ohms"
)

// Topic returns "<prefix>bme680-<address>-<metric>". Home automation
// configurations key off these names, so the format must not change.
func Topic(prefix, address, metric string) string {
	return prefix + "bme680-" + address + "-" + metric
}

// FormatValue rounds v to two decimals and always keeps a fractional part,
// e.g. 40 -> "40.0", 91.6666 -> "91.67".
func FormatValue(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
