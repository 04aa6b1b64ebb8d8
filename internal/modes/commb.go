package modes

import (
	"math"
	"strings"
)

// mbField returns n bits of the 56-bit Comm-B MB field (MB bit offsets).
func mbField(data []byte, i, n int) int {
	return field(data, 32+i, n)
}

func mbBit(data []byte, i int) int {
	return bit(data, 32+i)
}

func commbFrame(msg string) ([]byte, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return nil, err
	}
	if len(data) != 14 {
		return nil, ErrNotApplicable
	}
	df := int(data[0] >> 3)
	if df != 20 && df != 21 {
		return nil, ErrNotApplicable
	}
	return data, nil
}

// statusField returns an MB value guarded by a status bit: cleared status
// means the field carries no data.
func statusField(data []byte, statusBit, start, n int) (int, error) {
	if mbBit(data, statusBit) == 0 {
		return 0, ErrNotApplicable
	}
	return mbField(data, start, n), nil
}

// OVC10 returns the overlay command capability bit of a BDS 1,0 register.
func OVC10(msg string) (int, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	return mbBit(data, 14), nil
}

// gicbServices lists the registers announced by the BDS 1,7 capability
// bitmap, in transmitted bit order.
var gicbServices = [24]string{
	"05", "06", "07", "08", "09", "0A", "20", "21",
	"40", "41", "42", "43", "44", "45", "48", "50",
	"51", "52", "53", "54", "55", "56", "5F", "60",
}

// Cap17 returns the register codes a transponder announces as available in
// its BDS 1,7 capability report.
func Cap17(msg string) ([]string, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return nil, err
	}
	var caps []string
	for i, code := range gicbServices {
		if mbBit(data, i) == 1 {
			caps = append(caps, code)
		}
	}
	return caps, nil
}

// CS20 decodes the callsign of a BDS 2,0 aircraft identification register.
func CS20(msg string) (string, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		c := aisCharset[mbField(data, 8+i*6, 6)]
		if c == '#' {
			continue
		}
		if c == ' ' {
			c = '_'
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// SelAlt40MCP returns the MCP/FCU selected altitude (ft) of a BDS 4,0
// register.
func SelAlt40MCP(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 0, 1, 12)
	if err != nil {
		return 0, err
	}
	return float64(v * 16), nil
}

// SelAlt40FMS returns the FMS selected altitude (ft) of a BDS 4,0 register.
func SelAlt40FMS(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 13, 14, 12)
	if err != nil {
		return 0, err
	}
	return float64(v * 16), nil
}

// P40Baro returns the barometric pressure setting (hPa) of a BDS 4,0
// register.
func P40Baro(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 26, 27, 12)
	if err != nil {
		return 0, err
	}
	return float64(v)*0.1 + 800, nil
}

// Wind44 returns wind speed (kt) and direction (deg) from a BDS 4,4
// meteorological routine report.
func Wind44(msg string) (speed, dir float64, err error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, 0, err
	}
	if mbBit(data, 4) == 0 {
		return 0, 0, ErrNotApplicable
	}
	speed = float64(mbField(data, 5, 9))
	dir = round2(float64(mbField(data, 14, 9)) * 180 / 256)
	return speed, dir, nil
}

// Temp44 returns the static air temperature (deg C) from a BDS 4,4 report.
func Temp44(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v := mbField(data, 24, 10)
	temp := float64(v) * 0.25
	if mbBit(data, 23) == 1 {
		temp = -float64(1024-v) * 0.25
	}
	return temp, nil
}

// P44 returns the average static pressure (hPa) from a BDS 4,4 report.
func P44(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 34, 35, 11)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// Hum44 returns the relative humidity (percent) from a BDS 4,4 report.
func Hum44(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 49, 50, 6)
	if err != nil {
		return 0, err
	}
	return math.Round(float64(v) * 100 / 64), nil
}

func hazardField(msg string, statusBit, start int) (int, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	return statusField(data, statusBit, start, 2)
}

// Turb45 returns the turbulence hazard level (0-3) of a BDS 4,5 report.
func Turb45(msg string) (int, error) { return hazardField(msg, 0, 1) }

// WS45 returns the wind shear hazard level of a BDS 4,5 report.
func WS45(msg string) (int, error) { return hazardField(msg, 3, 4) }

// MB45 returns the microburst hazard level of a BDS 4,5 report.
func MB45(msg string) (int, error) { return hazardField(msg, 6, 7) }

// IC45 returns the icing hazard level of a BDS 4,5 report.
func IC45(msg string) (int, error) { return hazardField(msg, 9, 10) }

// WV45 returns the wake vortex hazard level of a BDS 4,5 report.
func WV45(msg string) (int, error) { return hazardField(msg, 12, 13) }

// Temp45 returns the static air temperature (deg C) from a BDS 4,5 report.
func Temp45(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 15) == 0 {
		return 0, ErrNotApplicable
	}
	return float64(twos(mbField(data, 16, 10), 10)) * 0.25, nil
}

// P45 returns the average static pressure (hPa) from a BDS 4,5 report.
func P45(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 26, 27, 11)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// RH45 returns the relative humidity (percent) from a BDS 4,5 report.
func RH45(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 38, 39, 6)
	if err != nil {
		return 0, err
	}
	return math.Round(float64(v) * 100 / 64), nil
}

// Roll50 returns the roll angle (deg, negative left) of a BDS 5,0 register.
func Roll50(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 0) == 0 {
		return 0, ErrNotApplicable
	}
	v := twos(mbField(data, 1, 10), 10)
	return math.Round(float64(v)*45.0/256*10) / 10, nil
}

// Trk50 returns the true track angle (deg) of a BDS 5,0 register.
func Trk50(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 11) == 0 {
		return 0, ErrNotApplicable
	}
	v := twos(mbField(data, 12, 11), 11)
	trk := fmod(float64(v)*90.0/512, 360)
	return math.Round(trk*1000) / 1000, nil
}

// GS50 returns the ground speed (kt) of a BDS 5,0 register.
func GS50(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 23, 24, 10)
	if err != nil {
		return 0, err
	}
	return float64(v * 2), nil
}

// RTrk50 returns the track angle rate (deg/s) of a BDS 5,0 register.
func RTrk50(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 34) == 0 {
		return 0, ErrNotApplicable
	}
	v := twos(mbField(data, 35, 10), 10)
	return math.Round(float64(v)*8.0/256*1000) / 1000, nil
}

// TAS50 returns the true airspeed (kt) of a BDS 5,0 register.
func TAS50(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 45, 46, 10)
	if err != nil {
		return 0, err
	}
	return float64(v * 2), nil
}

// Hdg60 returns the magnetic heading (deg) of a BDS 6,0 register.
func Hdg60(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 0) == 0 {
		return 0, ErrNotApplicable
	}
	v := twos(mbField(data, 1, 11), 11)
	hdg := fmod(float64(v)*90.0/512, 360)
	return math.Round(hdg*1000) / 1000, nil
}

// IAS60 returns the indicated airspeed (kt) of a BDS 6,0 register.
func IAS60(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 12, 13, 10)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// Mach60 returns the Mach number of a BDS 6,0 register.
func Mach60(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, err := statusField(data, 23, 24, 10)
	if err != nil {
		return 0, err
	}
	return math.Round(float64(v)*2.048/512*1000) / 1000, nil
}

// VR60Baro returns the barometric vertical rate (ft/min) of a BDS 6,0
// register.
func VR60Baro(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 34) == 0 {
		return 0, ErrNotApplicable
	}
	return float64(twos(mbField(data, 35, 10), 10) * 32), nil
}

// VR60Ins returns the inertial vertical rate (ft/min) of a BDS 6,0 register.
func VR60Ins(msg string) (float64, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return 0, err
	}
	if mbBit(data, 45) == 0 {
		return 0, ErrNotApplicable
	}
	return float64(twos(mbField(data, 46, 10), 10) * 32), nil
}
