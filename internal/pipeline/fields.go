package pipeline

import (
	"github.com/Bingham-Research-Center/flightdata/internal/modes"
)

// fieldDecoder binds a record field name to its extraction function. A
// decoder returns modes.ErrNotApplicable when the message does not carry the
// field, which is silently skipped; any other error is likewise skipped but
// indicates a malformed payload rather than an absent one.
type fieldDecoder struct {
	name   string
	decode func(msg string) (any, error)
}

func scalarF(fn func(string) (float64, error)) func(string) (any, error) {
	return func(msg string) (any, error) {
		v, err := fn(msg)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func scalarI(fn func(string) (int, error)) func(string) (any, error) {
	return func(msg string) (any, error) {
		v, err := fn(msg)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func scalarS(fn func(string) (string, error)) func(string) (any, error) {
	return func(msg string) (any, error) {
		v, err := fn(msg)
		if err != nil {
			return nil, err
		}
		if v == "" {
			return nil, nil
		}
		return v, nil
	}
}

func scalarB(fn func(string) (bool, error)) func(string) (any, error) {
	return func(msg string) (any, error) {
		v, err := fn(msg)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// adsbFields is the fixed battery of extended-squitter field decoders. Every
// DF17/18 message is run through the full list; decoders pick out only the
// typecodes they understand and report ErrNotApplicable for the rest.
var adsbFields = []fieldDecoder{
	{"callsign", scalarS(modes.Callsign)},
	{"category", scalarI(modes.Category)},
	{"oe_flag", scalarI(modes.OEFlag)},
	{"altitude", scalarF(modes.Altitude)},
	{"altitude_diff", scalarF(modes.AltitudeDiff)},
	{"velocity", decodeVelocity},
	{"speed_heading", decodeSpeedHeading},
	{"airborne_velocity", decodeAirborneVelocity},
	{"version", scalarI(modes.Version)},
	{"nuc_p", scalarI(modes.NucP)},
	{"nuc_v", scalarI(modes.NucV)},
	{"nac_p", scalarI(modes.NacP)},
	{"nac_v", scalarI(modes.NacV)},
	{"nic_s", scalarI(modes.NicS)},
	{"nic_a_c", decodeNicAC},
	{"nic_b", scalarI(modes.NicB)},
	{"sil", scalarI(modes.SIL)},
	{"selected_altitude", decodeSelectedAltitude},
	{"selected_heading", scalarF(modes.SelectedHeading)},
	{"baro_pressure_setting", scalarF(modes.BaroPressureSetting)},
	{"autopilot", scalarB(modes.Autopilot)},
	{"vnav_mode", scalarB(modes.VNAVMode)},
	{"altitude_hold_mode", scalarB(modes.AltitudeHoldMode)},
	{"approach_mode", scalarB(modes.ApproachMode)},
	{"tcas_operational", scalarB(modes.TCASOperational)},
	{"lnav_mode", scalarB(modes.LNAVMode)},
	{"emergency_state", scalarI(modes.EmergencyState)},
	{"emergency_squawk", scalarS(modes.EmergencySquawk)},
	{"is_emergency", scalarB(modes.IsEmergency)},
}

func decodeVelocity(msg string) (any, error) {
	spd, trk, vr, tag, err := modes.Velocity(msg)
	if err != nil {
		return nil, err
	}
	return []any{spd, trk, vr, tag}, nil
}

func decodeSpeedHeading(msg string) (any, error) {
	spd, hdg, err := modes.SpeedHeading(msg)
	if err != nil {
		return nil, err
	}
	return []any{spd, hdg}, nil
}

func decodeAirborneVelocity(msg string) (any, error) {
	spd, hdg, vr, tag, err := modes.AirborneVelocity(msg)
	if err != nil {
		return nil, err
	}
	return []any{spd, hdg, vr, tag}, nil
}

func decodeNicAC(msg string) (any, error) {
	a, c, err := modes.NicAC(msg)
	if err != nil {
		return nil, err
	}
	return []any{a, c}, nil
}

func decodeSelectedAltitude(msg string) (any, error) {
	alt, src, err := modes.SelectedAltitude(msg)
	if err != nil {
		return nil, err
	}
	return []any{alt, src}, nil
}

// applyFields runs a decoder battery over a message and merges the results
// into rec, skipping absent and failed fields.
func applyFields(rec map[string]any, fields []fieldDecoder, msg string) {
	for _, f := range fields {
		v, err := f.decode(msg)
		if err != nil || v == nil {
			continue
		}
		rec[f.name] = v
	}
}
