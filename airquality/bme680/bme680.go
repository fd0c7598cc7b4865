package bme680

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"

	"github.com/alepar/bme680-mqtt/airquality"
)

var ErrNoNewData = errors.New("no new data from sensor")

// Opts configures the measurement. The zero value is not usable, start
// from DefaultOpts.
type Opts struct {
	Humidity    Oversampling
	Pressure    Oversampling
	Temperature Oversampling
	Filter      FilterCoefficient

	// gas heater profile 0, units: degrees Celsius and ms
	HeaterTemperature uint16
	HeaterDuration    uint16

	// used to derive the heater resistance, units: degrees Celsius
	AmbientTemperature float64
}

// DefaultOpts mirror the recommended indoor air quality setup.
var DefaultOpts = Opts{
	Humidity:           Sampling2X,
	Pressure:           Sampling4X,
	Temperature:        Sampling8X,
	Filter:             Coeff0,
	HeaterTemperature:  320,
	HeaterDuration:     150,
	AmbientTemperature: 25,
}

// Dev is a handle to an initialized BME680.
type Dev struct {
	d     i2c.Dev
	opts  Opts
	calib calibration
	log   logrus.FieldLogger

	// polls for the end of a forced measurement
	Attempts     int
	PollInterval time.Duration
}

// NewI2C returns a BME680 on bus at addr, configured with opts.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts, log logrus.FieldLogger) (*Dev, error) {
	d := &Dev{
		d:            i2c.Dev{Bus: b, Addr: addr},
		opts:         *opts,
		log:          log,
		Attempts:     15,
		PollInterval: 20 * time.Millisecond,
	}
	if err := d.init(); err != nil {
		return nil, errors.Wrapf(err, "cannot initialize BME680 at addr 0x%02x", addr)
	}
	return d, nil
}

func (d *Dev) init() error {
	id, err := d.readReg(regChipID)
	if err != nil {
		return errors.Wrap(err, "failed to read chip id")
	}
	if id != chipID {
		return errors.Errorf("unexpected chip id 0x%02x, want 0x%02x", id, chipID)
	}
	if err := d.writeRegs(regSoftReset, softResetCmd); err != nil {
		return errors.Wrap(err, "soft reset failed")
	}
	time.Sleep(10 * time.Millisecond)

	if err := d.readCalibration(); err != nil {
		return err
	}
	d.log.Debugf("calibration: %+v", d.calib)

	meas := byte(d.opts.Temperature)<<5 | byte(d.opts.Pressure)<<2 | byte(sleepMode)
	if err := d.writeRegs(
		regCtrlHum, byte(d.opts.Humidity),
		regCtrlMeas, meas,
		regConfig, byte(d.opts.Filter)<<2,
		regResHeat0, d.calib.heaterResistance(float64(d.opts.HeaterTemperature), d.opts.AmbientTemperature),
		regGasWait0, heaterDuration(d.opts.HeaterDuration),
		regCtrlGas0, 0x00,
		regCtrlGas1, runGas, // heater profile 0
	); err != nil {
		return errors.Wrap(err, "failed to configure sensor")
	}
	return nil
}

func (d *Dev) readCalibration() error {
	c := make([]byte, coeff1Length+coeff2Length)
	if err := d.d.Tx([]byte{regCoeff1}, c[:coeff1Length]); err != nil {
		return errors.Wrap(err, "failed to read calibration")
	}
	if err := d.d.Tx([]byte{regCoeff2}, c[coeff1Length:]); err != nil {
		return errors.Wrap(err, "failed to read calibration")
	}
	d.calib = parseCalibration(c)

	var extra [3]byte
	for i, reg := range []byte{regResHeatRange, regResHeatVal, regRangeSwErr} {
		v, err := d.readReg(reg)
		if err != nil {
			return errors.Wrap(err, "failed to read heater calibration")
		}
		extra[i] = v
	}
	d.calib.resHeatRange = (extra[0] & 0x30) >> 4
	d.calib.resHeatVal = int8(extra[1])
	d.calib.rangeSwErr = int8(extra[2]&0xF0) >> 4
	return nil
}

// Read triggers a forced measurement and waits for its result.
func (d *Dev) Read() (airquality.Reading, error) {
	meas := byte(d.opts.Temperature)<<5 | byte(d.opts.Pressure)<<2 | byte(forcedMode)
	if err := d.writeRegs(regCtrlMeas, meas); err != nil {
		return airquality.Reading{}, errors.Wrap(err, "failed to trigger measurement")
	}

	field := make([]byte, fieldLength)
	for i := 0; i < d.Attempts; i++ {
		if err := d.d.Tx([]byte{regField0}, field); err != nil {
			return airquality.Reading{}, errors.Wrap(err, "failed to read data field")
		}
		raw := parseField(field)
		if !raw.newData {
			time.Sleep(d.PollInterval)
			continue
		}
		if !raw.gasValid {
			d.log.Debug("gas measurement not valid")
		}
		return d.compensate(raw), nil
	}
	return airquality.Reading{}, ErrNoNewData
}

func (d *Dev) compensate(raw rawField) airquality.Reading {
	tFine := d.calib.tFine(raw.temp)
	return airquality.Reading{
		Temperature:   temperature(tFine),
		Pressure:      d.calib.pressure(raw.press, tFine) / 100,
		Humidity:      d.calib.humidity(raw.hum, tFine),
		GasResistance: d.calib.gasResistance(raw.gas, raw.gasRange),
		HeatStable:    raw.heatStable,
	}
}

// Halt puts the sensor to sleep.
func (d *Dev) Halt() error {
	meas := byte(d.opts.Temperature)<<5 | byte(d.opts.Pressure)<<2 | byte(sleepMode)
	return d.writeRegs(regCtrlMeas, meas)
}

func (d *Dev) String() string {
	return "BME680{" + d.d.String() + "}"
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.d.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeRegs writes register/value pairs in a single transaction.
func (d *Dev) writeRegs(pairs ...byte) error {
	return d.d.Tx(pairs, nil)
}
