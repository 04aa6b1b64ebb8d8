package modes

import (
	"fmt"
	"math"
	"strings"
)

// aisCharset maps 6-bit character codes in identification messages; '#'
// marks codes that are not assigned.
const aisCharset = "#ABCDEFGHIJKLMNOPQRSTUVWXYZ##### ###############0123456789######"

// me returns n bits of the extended-squitter ME field (ME bit offsets).
func me(data []byte, i, n int) int {
	return field(data, 32+i, n)
}

func meBit(data []byte, i int) int {
	return bit(data, 32+i)
}

func adsbFrame(msg string) ([]byte, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return nil, err
	}
	if len(data) != 14 {
		return nil, ErrNotApplicable
	}
	df := int(data[0] >> 3)
	if df != 17 && df != 18 {
		return nil, ErrNotApplicable
	}
	return data, nil
}

// Typecode returns the extended-squitter typecode (ME bits 1-5) of a DF17/18
// frame.
func Typecode(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	return me(data, 0, 5), nil
}

// Category returns the emitter category of an identification message (TC 1-4).
func Category(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if tc := me(data, 0, 5); tc < 1 || tc > 4 {
		return 0, ErrNotApplicable
	}
	return me(data, 5, 3), nil
}

// Callsign decodes the eight-character callsign of an identification message
// (TC 1-4). Trailing spaces are reported as underscores, unassigned character
// codes are dropped.
func Callsign(msg string) (string, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return "", err
	}
	if tc := me(data, 0, 5); tc < 1 || tc > 4 {
		return "", ErrNotApplicable
	}
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		c := aisCharset[me(data, 8+i*6, 6)]
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

// OEFlag returns the CPR format flag of a position message: 0 for even,
// 1 for odd.
func OEFlag(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if !IsPositionTC(me(data, 0, 5)) {
		return 0, ErrNotApplicable
	}
	return meBit(data, 21), nil
}

// IsPositionTC reports whether a typecode carries a CPR-encoded position.
func IsPositionTC(tc int) bool {
	return (tc >= 5 && tc <= 18) || (tc >= 20 && tc <= 22)
}

// Altitude decodes the altitude of an airborne position message in feet.
// TC 9-18 carry a 12-bit barometric code, TC 20-22 a GNSS height in metres.
func Altitude(msg string) (float64, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	tc := me(data, 0, 5)
	switch {
	case tc >= 9 && tc <= 18:
		// 12-bit code at ME bits 8-19 with the Q bit at ME bit 15.
		if meBit(data, 15) == 0 {
			return 0, ErrNotApplicable
		}
		n := me(data, 8, 7)<<4 | me(data, 16, 4)
		return float64(n*25 - 1000), nil
	case tc >= 20 && tc <= 22:
		return math.Round(float64(me(data, 8, 12)) * 3.28084), nil
	}
	return 0, ErrNotApplicable
}

// AltitudeDiff returns the GNSS-minus-barometric altitude difference of a
// velocity message (TC 19), in feet.
func AltitudeDiff(msg string) (float64, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if me(data, 0, 5) != 19 {
		return 0, ErrNotApplicable
	}
	v := me(data, 49, 7)
	if v == 0 {
		return 0, ErrNotApplicable
	}
	diff := float64((v - 1) * 25)
	if meBit(data, 48) == 1 {
		diff = -diff
	}
	return diff, nil
}

// Velocity decodes the speed information of a DF17/18 frame: airborne
// velocity for TC 19, surface movement for TC 5-8. It returns ground or air
// speed in knots, track or heading in degrees, vertical rate in ft/min, and
// a source tag ("GS", "IAS" or "TAS").
func Velocity(msg string) (spd, trk, vr float64, tag string, err error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, 0, 0, "", err
	}
	tc := me(data, 0, 5)
	switch {
	case tc == 19:
		return airborneVelocity(data)
	case tc >= 5 && tc <= 8:
		return surfaceVelocity(data)
	}
	return 0, 0, 0, "", ErrNotApplicable
}

// AirborneVelocity decodes a TC 19 airborne velocity message.
func AirborneVelocity(msg string) (spd, trk, vr float64, tag string, err error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, 0, 0, "", err
	}
	if me(data, 0, 5) != 19 {
		return 0, 0, 0, "", ErrNotApplicable
	}
	return airborneVelocity(data)
}

// SpeedHeading returns just the speed and track/heading pair of a velocity or
// surface movement message.
func SpeedHeading(msg string) (spd, trk float64, err error) {
	spd, trk, _, _, err = Velocity(msg)
	return spd, trk, err
}

func airborneVelocity(data []byte) (spd, trk, vr float64, tag string, err error) {
	subtype := me(data, 5, 3)
	switch subtype {
	case 1, 2:
		ew := me(data, 14, 10)
		ns := me(data, 25, 10)
		if ew == 0 || ns == 0 {
			return 0, 0, 0, "", ErrNotApplicable
		}
		vwe := float64(ew - 1)
		if meBit(data, 13) == 1 {
			vwe = -vwe
		}
		vsn := float64(ns - 1)
		if meBit(data, 24) == 1 {
			vsn = -vsn
		}
		spd = math.Sqrt(vwe*vwe + vsn*vsn)
		if subtype == 2 { // supersonic
			spd *= 4
		}
		trk = math.Atan2(vwe, vsn) * 180 / math.Pi
		if trk < 0 {
			trk += 360
		}
		tag = "GS"
	case 3, 4:
		if meBit(data, 13) == 0 {
			return 0, 0, 0, "", ErrNotApplicable
		}
		trk = float64(me(data, 14, 10)) / 1024 * 360
		as := me(data, 25, 10)
		if as == 0 {
			return 0, 0, 0, "", ErrNotApplicable
		}
		spd = float64(as - 1)
		if subtype == 4 {
			spd *= 4
		}
		tag = "IAS"
		if meBit(data, 24) == 1 {
			tag = "TAS"
		}
	default:
		return 0, 0, 0, "", ErrNotApplicable
	}

	if v := me(data, 37, 9); v != 0 {
		vr = float64((v - 1) * 64)
		if meBit(data, 36) == 1 {
			vr = -vr
		}
	}
	return math.Round(spd), round2(trk), vr, tag, nil
}

func surfaceVelocity(data []byte) (spd, trk, vr float64, tag string, err error) {
	mov := me(data, 5, 7)
	s, ok := surfaceMovementSpeed(mov)
	if !ok {
		return 0, 0, 0, "", ErrNotApplicable
	}
	if meBit(data, 12) == 0 {
		return 0, 0, 0, "", ErrNotApplicable
	}
	trk = float64(me(data, 13, 7)) * 360 / 128
	return s, round2(trk), 0, "GS", nil
}

// surfaceMovementSpeed maps the 7-bit movement code to knots.
func surfaceMovementSpeed(mov int) (float64, bool) {
	switch {
	case mov == 0 || mov > 124:
		return 0, false
	case mov == 1:
		return 0, true
	case mov <= 8:
		return 0.125 + float64(mov-2)*0.125, true
	case mov <= 12:
		return 1 + float64(mov-8)*0.25, true
	case mov <= 38:
		return 2 + float64(mov-12)*0.5, true
	case mov <= 93:
		return 15 + float64(mov-38), true
	case mov <= 108:
		return 70 + float64(mov-93)*2, true
	case mov <= 123:
		return 100 + float64(mov-108)*5, true
	default:
		return 175, true
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Version returns the ADS-B version from an operational status message
// (TC 31).
func Version(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if me(data, 0, 5) != 31 {
		return 0, ErrNotApplicable
	}
	return me(data, 40, 3), nil
}

// tcNUCp maps version-0 position typecodes to navigation uncertainty.
var tcNUCp = map[int]int{
	5: 9, 6: 8, 7: 7, 8: 6,
	9: 9, 10: 8, 11: 7, 12: 6, 13: 5, 14: 4, 15: 3, 16: 2, 17: 1, 18: 0,
	20: 9, 21: 8, 22: 0,
}

// NucP returns the version-0 position uncertainty category of a position
// message.
func NucP(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	v, ok := tcNUCp[me(data, 0, 5)]
	if !ok {
		return 0, ErrNotApplicable
	}
	return v, nil
}

// NucV returns the version-0 velocity uncertainty category of a TC 19
// message.
func NucV(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if me(data, 0, 5) != 19 {
		return 0, ErrNotApplicable
	}
	return me(data, 10, 3), nil
}

// NacV returns the velocity accuracy category of a TC 19 message.
func NacV(msg string) (int, error) {
	return NucV(msg)
}

// NacP returns the position accuracy category from a target state (TC 29) or
// operational status (TC 31) message.
func NacP(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	switch me(data, 0, 5) {
	case 29:
		return me(data, 39, 4), nil
	case 31:
		return me(data, 45, 4), nil
	}
	return 0, ErrNotApplicable
}

// NicS returns the NIC supplement bit of an operational status message.
func NicS(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if me(data, 0, 5) != 31 {
		return 0, ErrNotApplicable
	}
	return meBit(data, 39), nil
}

// NicAC returns the NIC supplement A and C bits of a version-2 operational
// status message.
func NicAC(msg string) (int, int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, 0, err
	}
	if me(data, 0, 5) != 31 {
		return 0, 0, ErrNotApplicable
	}
	return meBit(data, 43), meBit(data, 44), nil
}

// NicB returns the NIC supplement B bit of a version-2 airborne position
// message.
func NicB(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	if tc := me(data, 0, 5); tc < 9 || tc > 18 {
		return 0, ErrNotApplicable
	}
	return meBit(data, 39), nil
}

// SIL returns the source integrity level from a target state or operational
// status message.
func SIL(msg string) (int, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, err
	}
	switch me(data, 0, 5) {
	case 29:
		return me(data, 44, 2), nil
	case 31:
		return me(data, 50, 2), nil
	}
	return 0, ErrNotApplicable
}

func targetState(msg string) ([]byte, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return nil, err
	}
	if me(data, 0, 5) != 29 || me(data, 5, 2) != 1 {
		return nil, ErrNotApplicable
	}
	return data, nil
}

// SelectedAltitude decodes the selected altitude of a target state message
// (TC 29 subtype 1) and its source ("MCP/FCU" or "FMS").
func SelectedAltitude(msg string) (float64, string, error) {
	data, err := targetState(msg)
	if err != nil {
		return 0, "", err
	}
	v := me(data, 9, 11)
	if v == 0 {
		return 0, "", ErrNotApplicable
	}
	source := "MCP/FCU"
	if meBit(data, 8) == 1 {
		source = "FMS"
	}
	return float64((v - 1) * 32), source, nil
}

// BaroPressureSetting decodes the selected barometric setting (hPa) of a
// target state message.
func BaroPressureSetting(msg string) (float64, error) {
	data, err := targetState(msg)
	if err != nil {
		return 0, err
	}
	v := me(data, 20, 9)
	if v == 0 {
		return 0, ErrNotApplicable
	}
	return float64(v-1)*0.8 + 800, nil
}

// SelectedHeading decodes the selected heading of a target state message.
func SelectedHeading(msg string) (float64, error) {
	data, err := targetState(msg)
	if err != nil {
		return 0, err
	}
	if meBit(data, 29) == 0 {
		return 0, ErrNotApplicable
	}
	hdg := float64(me(data, 30, 9)) * 180 / 256
	return math.Mod(hdg+360, 360), nil
}

func targetStateModeBit(msg string, offset int) (bool, error) {
	data, err := targetState(msg)
	if err != nil {
		return false, err
	}
	if meBit(data, 46) == 0 { // mode bits not populated
		return false, ErrNotApplicable
	}
	return meBit(data, offset) == 1, nil
}

// Autopilot reports whether the autopilot is engaged (TC 29 subtype 1).
func Autopilot(msg string) (bool, error) { return targetStateModeBit(msg, 47) }

// VNAVMode reports whether VNAV mode is active.
func VNAVMode(msg string) (bool, error) { return targetStateModeBit(msg, 48) }

// AltitudeHoldMode reports whether altitude hold is active.
func AltitudeHoldMode(msg string) (bool, error) { return targetStateModeBit(msg, 49) }

// ApproachMode reports whether approach mode is active.
func ApproachMode(msg string) (bool, error) { return targetStateModeBit(msg, 51) }

// TCASOperational reports whether TCAS is operational.
func TCASOperational(msg string) (bool, error) { return targetStateModeBit(msg, 52) }

// LNAVMode reports whether LNAV mode is active.
func LNAVMode(msg string) (bool, error) { return targetStateModeBit(msg, 53) }

func emergencyStatus(msg string) ([]byte, error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return nil, err
	}
	if me(data, 0, 5) != 28 || me(data, 5, 3) != 1 {
		return nil, ErrNotApplicable
	}
	return data, nil
}

// EmergencyState returns the emergency state code of an aircraft status
// message (TC 28 subtype 1).
func EmergencyState(msg string) (int, error) {
	data, err := emergencyStatus(msg)
	if err != nil {
		return 0, err
	}
	return me(data, 8, 3), nil
}

// IsEmergency reports whether an aircraft status message carries a non-zero
// emergency state.
func IsEmergency(msg string) (bool, error) {
	state, err := EmergencyState(msg)
	if err != nil {
		return false, err
	}
	return state != 0, nil
}

// EmergencySquawk returns the Mode A identity code transmitted with an
// aircraft status message.
func EmergencySquawk(msg string) (string, error) {
	data, err := emergencyStatus(msg)
	if err != nil {
		return "", err
	}
	// 13-bit identity at ME bits 11-23, same interleave as the DF5 field.
	var digits [4]int
	order := [12]int{16, 14, 12, 22, 20, 18, 15, 13, 11, 23, 21, 19}
	for i, pos := range order {
		digits[i/3] = digits[i/3]<<1 | meBit(data, pos)
	}
	return fmt.Sprintf("%d%d%d%d", digits[0], digits[1], digits[2], digits[3]), nil
}
