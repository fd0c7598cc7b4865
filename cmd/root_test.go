package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alepar/bme680-mqtt/airquality"
)

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, airquality.DefaultConfig(), configFromViper())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BME680_TOPIC", "home/sensors/")
	t.Setenv("BME680_HUMID_BASELINE", "45")
	initConfig()
	cfg := configFromViper()
	assert.Equal(t, "home/sensors/", cfg.TopicPrefix)
	assert.Equal(t, 45.0, cfg.HumidityBaseline)
}

func TestFlags(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{
		"-a", "0x77",
		"--burn_in", "60",
		"-p", "10",
		"--humid_weight", "0.5",
		"-d",
	}))
	cfg := configFromViper()
	assert.Equal(t, "0x77", cfg.SensorAddress)
	assert.Equal(t, 60*time.Second, cfg.BurnIn)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 0.5, cfg.HumidityWeight)
	assert.True(t, cfg.Verbose)
	require.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, newLogger(true).GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(false).GetLevel())
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "bme680_mqtt")
}
