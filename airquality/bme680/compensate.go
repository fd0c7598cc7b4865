package bme680

import "math"

// calibration holds the factory trimming parameters read from the chip.
type calibration struct {
	t1 uint16
	t2 int16
	t3 int8

	p1  uint16
	p2  int16
	p3  int8
	p4  int16
	p5  int16
	p6  int8
	p7  int8
	p8  int16
	p9  int16
	p10 uint8

	h1 uint16
	h2 uint16
	h3 int8
	h4 int8
	h5 int8
	h6 uint8
	h7 int8

	gh1 int8
	gh2 int16
	gh3 int8

	resHeatRange uint8
	resHeatVal   int8
	rangeSwErr   int8
}

// parseCalibration decodes the concatenated 0x89 and 0xE1 coefficient blocks.
func parseCalibration(c []byte) calibration {
	u16 := func(msb, lsb int) uint16 { return uint16(c[msb])<<8 | uint16(c[lsb]) }
	return calibration{
		t1: u16(34, 33),
		t2: int16(u16(2, 1)),
		t3: int8(c[3]),

		p1:  u16(6, 5),
		p2:  int16(u16(8, 7)),
		p3:  int8(c[9]),
		p4:  int16(u16(12, 11)),
		p5:  int16(u16(14, 13)),
		p6:  int8(c[16]),
		p7:  int8(c[15]),
		p8:  int16(u16(20, 19)),
		p9:  int16(u16(22, 21)),
		p10: c[23],

		h1: uint16(c[27])<<4 | uint16(c[26]&0x0F),
		h2: uint16(c[25])<<4 | uint16(c[26]>>4),
		h3: int8(c[28]),
		h4: int8(c[29]),
		h5: int8(c[30]),
		h6: c[31],
		h7: int8(c[32]),

		gh1: int8(c[37]),
		gh2: int16(u16(36, 35)),
		gh3: int8(c[38]),
	}
}

// rawField is the uncompensated content of the data field registers.
type rawField struct {
	newData    bool
	gasValid   bool
	heatStable bool
	temp       uint32
	press      uint32
	hum        uint16
	gas        uint16
	gasRange   uint8
}

func parseField(f []byte) rawField {
	return rawField{
		newData:    f[0]&newDataMask != 0,
		press:      uint32(f[2])<<12 | uint32(f[3])<<4 | uint32(f[4])>>4,
		temp:       uint32(f[5])<<12 | uint32(f[6])<<4 | uint32(f[7])>>4,
		hum:        uint16(f[8])<<8 | uint16(f[9]),
		gas:        uint16(f[13])<<2 | uint16(f[14])>>6,
		gasRange:   f[14] & gasRangeMask,
		gasValid:   f[14]&gasValidMask != 0,
		heatStable: f[14]&heatStableMask != 0,
	}
}

// tFine returns the fine temperature shared by all compensations.
func (c *calibration) tFine(adc uint32) float64 {
	v1 := (float64(adc)/16384 - float64(c.t1)/1024) * float64(c.t2)
	v2 := float64(adc)/131072 - float64(c.t1)/8192
	v2 = v2 * v2 * float64(c.t3) * 16
	return v1 + v2
}

// temperature in degrees Celsius
func temperature(tFine float64) float64 {
	return tFine / 5120
}

// pressure in Pa
func (c *calibration) pressure(adc uint32, tFine float64) float64 {
	v1 := tFine/2 - 64000
	v2 := v1 * v1 * (float64(c.p6) / 131072)
	v2 += v1 * float64(c.p5) * 2
	v2 = v2/4 + float64(c.p4)*65536
	v1 = (float64(c.p3)*v1*v1/16384 + float64(c.p2)*v1) / 524288
	v1 = (1 + v1/32768) * float64(c.p1)
	if v1 == 0 {
		return 0
	}
	p := 1048576 - float64(adc)
	p = (p - v2/4096) * 6250 / v1
	v1 = float64(c.p9) * p * p / 2147483648
	v2 = p * (float64(c.p8) / 32768)
	v3 := (p / 256) * (p / 256) * (p / 256) * (float64(c.p10) / 131072)
	return p + (v1+v2+v3+float64(c.p7)*128)/16
}

// humidity in % of relative humidity, clamped to [0,100]
func (c *calibration) humidity(adc uint16, tFine float64) float64 {
	t := tFine / 5120
	v1 := float64(adc) - (float64(c.h1)*16 + float64(c.h3)/2*t)
	v2 := v1 * (float64(c.h2) / 262144 * (1 + float64(c.h4)/16384*t + float64(c.h5)/1048576*t*t))
	v3 := float64(c.h6) / 16384
	v4 := float64(c.h7) / 2097152
	h := v2 + (v3+v4*t)*v2*v2
	return math.Max(0, math.Min(100, h))
}

var (
	gasRangeK1 = [16]float64{0, 0, 0, 0, 0, -1, 0, -0.8, 0, 0, -0.2, -0.5, 0, -1, 0, 0}
	gasRangeK2 = [16]float64{0, 0, 0, 0, 0.1, 0.7, 0, -0.8, -0.1, 0, 0, 0, 0, 0, 0, 0}
)

// gasResistance in Ohms
func (c *calibration) gasResistance(adc uint16, gasRange uint8) float64 {
	r := gasRange & gasRangeMask
	v1 := 1340 + 5*float64(c.rangeSwErr)
	v2 := v1 * (1 + gasRangeK1[r]/100)
	v3 := 1 + gasRangeK2[r]/100
	return 1 / (v3 * 0.000000125 * float64(uint32(1)<<r) * ((float64(adc)-512)/v2 + 1))
}

// heaterResistance converts a heater target temperature into the
// res_heat register code for the given ambient temperature.
func (c *calibration) heaterResistance(target, ambient float64) byte {
	if target > 400 {
		target = 400
	}
	v1 := float64(c.gh1)/16 + 49
	v2 := float64(c.gh2)/32768*0.0005 + 0.00235
	v3 := float64(c.gh3) / 1024
	v4 := v1 * (1 + v2*target)
	v5 := v4 + v3*ambient
	code := 3.4 * (v5*(4/(4+float64(c.resHeatRange)))*(1/(1+float64(c.resHeatVal)*0.002)) - 25)
	return byte(math.Max(0, math.Min(255, code)))
}

// heaterDuration encodes a heating time in ms as gas_wait register code:
// 6 bit value with a 2 bit multiplication factor of 1, 4, 16 or 64.
func heaterDuration(ms uint16) byte {
	if ms >= 0xFC0 {
		return 0xFF
	}
	var factor byte
	for ms > 0x3F {
		ms /= 4
		factor++
	}
	return byte(ms) + factor*64
}
