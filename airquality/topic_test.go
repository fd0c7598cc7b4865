package airquality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "hass_bme680/bme680-0x76-air_qual", Topic("hass_bme680/", "0x76", MetricAirQuality))
	assert.Equal(t, "home/bme680-0x77-gas_ohms", Topic("home/", "0x77", MetricGasOhms))
	assert.Equal(t, "bme680-118-humidity", Topic("", "118", MetricHumidity))
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		40:                "40.0",
		91.66666666666667: "91.67",
		1003.251:          "1003.25",
		23.456:            "23.46",
		-3.5:              "-3.5",
		125431.123:        "125431.12",
		0:                 "0.0",
	}
	for v, want := range tests {
		assert.Equal(t, want, FormatValue(v), "%v", v)
	}
}
