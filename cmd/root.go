package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alepar/bme680-mqtt/airquality"
	"github.com/alepar/bme680-mqtt/airquality/bme680"
	"github.com/alepar/bme680-mqtt/airquality/mqtt"
	"github.com/alepar/bme680-mqtt/airquality/promexport"
	"github.com/alepar/bme680-mqtt/internal/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "bme680-mqtt",
	Short:         "Collect data from a BME680 I²C sensor and publish to MQTT",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromViper()
		logger := newLogger(cfg.Verbose)
		if err := cfg.Validate(); err != nil {
			logger.Errorf("%s", err)
			return err
		}
		if err := run(cmd.Context(), cfg, logger); err != nil {
			logger.Errorf("%s", err)
			return err
		}
		return nil
	},
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/bme680-mqtt/config.toml)")

	defaults := airquality.DefaultConfig()
	f := rootCmd.Flags()
	f.BoolP("debug", "d", false, "Debug mode")
	f.StringP("address", "a", defaults.SensorAddress, "i2c address of BME680")
	f.IntP("burn_in", "b", int(defaults.BurnIn/time.Second), "Seconds to warm up gas sensor")
	f.IntP("poll_time", "p", int(defaults.PollInterval/time.Second), "How often in seconds to poll sensor")
	f.StringP("topic", "t", defaults.TopicPrefix, "MQTT Topic")
	f.String("broker", "127.0.0.1", "MQTT Broker")
	f.Float64("humid_baseline", defaults.HumidityBaseline, "Humidity baseline")
	f.Float64("humid_weight", defaults.HumidityWeight, "Humidity weight for air quality calc")
	f.String("bus", "", "i2c bus name, empty for the first available")
	f.Uint16("heater_temp", bme680.DefaultOpts.HeaterTemperature, "Gas heater target temperature in degrees Celsius")
	f.Uint16("heater_duration", bme680.DefaultOpts.HeaterDuration, "Gas heater duration in ms")
	f.String("listen_address", ":8080", "Address to serve metrics on, empty to disable")

	cobra.CheckErr(viper.BindPFlags(f))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc/bme680-mqtt")
		viper.AddConfigPath("$HOME/.bme680-mqtt")
		viper.SetConfigName("config")
	}
	viper.SetEnvPrefix("bme680")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.WithField("config", viper.ConfigFileUsed()).Info("Using config file")
	}
}

func configFromViper() airquality.Config {
	return airquality.Config{
		SensorAddress:    viper.GetString("address"),
		BurnIn:           time.Duration(viper.GetInt("burn_in")) * time.Second,
		PollInterval:     time.Duration(viper.GetInt("poll_time")) * time.Second,
		TopicPrefix:      viper.GetString("topic"),
		HumidityBaseline: viper.GetFloat64("humid_baseline"),
		HumidityWeight:   viper.GetFloat64("humid_weight"),
		Verbose:          viper.GetBool("debug"),
	}
}

func newLogger(verbose bool) *log.Logger {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func run(ctx context.Context, cfg airquality.Config, logger *log.Logger) error {
	addr, err := cfg.Address()
	if err != nil {
		return err
	}

	opts := bme680.DefaultOpts
	opts.HeaterTemperature = uint16(viper.GetUint("heater_temp"))
	opts.HeaterDuration = uint16(viper.GetUint("heater_duration"))
	sensor, bus, err := bme680.Open(viper.GetString("bus"), addr, &opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sensor.Halt(); err != nil {
			logger.Warnf("failed to halt sensor: %s", err)
		}
		_ = bus.Close()
	}()
	logger.Infof("initialized %s", sensor)

	publisher, err := mqtt.Connect(viper.GetString("broker"), logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	if err := promexport.RegisterRuntime(reg); err != nil {
		return errors.Wrap(err, "failed to register runtime metrics")
	}
	exporter, err := promexport.New(reg, cfg.SensorAddress)
	if err != nil {
		return errors.Wrap(err, "failed to register sensor metrics")
	}

	if listen := viper.GetString("listen_address"); listen != "" {
		accessLog := logger.WriterLevel(log.DebugLevel)
		defer accessLog.Close()
		go func() {
			if err := server.ListenAndServe(ctx, listen, server.New(reg, accessLog), logger); err != nil {
				logger.Errorf("failed to start HTTP server: %s", err)
			}
		}()
	}

	monitor := &airquality.Monitor{
		Config:    cfg,
		Source:    sensor,
		Publisher: publisher,
		Observer:  exporter,
		Clock:     airquality.RealClock,
		Log:       logger,
	}
	err = monitor.Run(ctx)
	if ctx.Err() != nil {
		logger.Info("shutting down")
		return nil
	}
	return err
}
