// Package bme680 drives Bosch's BME680 gas, pressure, humidity and
// temperature sensor over I²C.
// The datasheet can be found here: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bme680-ds001.pdf
package bme680

const (
	DefaultAddress   uint16 = 0x76
	SecondaryAddress uint16 = 0x77
)

const (
	regChipID    byte = 0xD0
	regSoftReset byte = 0xE0
	regCtrlHum   byte = 0x72
	regCtrlMeas  byte = 0x74
	regConfig    byte = 0x75
	regCtrlGas0  byte = 0x70
	regCtrlGas1  byte = 0x71
	regResHeat0  byte = 0x5A
	regGasWait0  byte = 0x64
	regField0    byte = 0x1D // meas_status_0, start of the 15 byte data field

	regCoeff1 byte = 0x89 // 25 bytes
	regCoeff2 byte = 0xE1 // 16 bytes

	regResHeatVal   byte = 0x00
	regResHeatRange byte = 0x02
	regRangeSwErr   byte = 0x04
)

const (
	chipID         byte = 0x61 // correct response if reading from chip id register
	softResetCmd   byte = 0xB6
	fieldLength         = 15
	coeff1Length        = 25
	coeff2Length        = 16
	newDataMask    byte = 0x80
	gasValidMask   byte = 0x20
	heatStableMask byte = 0x10
	gasRangeMask   byte = 0x0F
	runGas         byte = 0x10
)

// Oversampling trades measurement time for precision.
type Oversampling byte

const (
	Skipped Oversampling = iota
	Sampling1X
	Sampling2X
	Sampling4X
	Sampling8X
	Sampling16X
)

// FilterCoefficient is the IIR filter size, higher values means steadier
// measurements but slower reaction times.
type FilterCoefficient byte

const (
	Coeff0 FilterCoefficient = iota
	Coeff1
	Coeff3
	Coeff7
	Coeff15
	Coeff31
	Coeff63
	Coeff127
)

type mode byte

const (
	sleepMode  mode = 0x00
	forcedMode mode = 0x01
)
