package bme680

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Open initializes the host drivers, opens the named I²C bus ("" for the
// first one available) and the sensor at addr on it. The returned bus must
// be closed by the caller.
func Open(busName string, addr uint16, opts *Opts, log logrus.FieldLogger) (*Dev, i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize host drivers")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open I²C bus %q", busName)
	}
	dev, err := NewI2C(bus, addr, opts, log)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	return dev, bus, nil
}
