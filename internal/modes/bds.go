package modes

import (
	"math"
	"strings"
)

// wrongStatus reports a status/value inconsistency: a cleared status bit with
// non-zero value bits means the register cannot be what we are probing for.
func wrongStatus(data []byte, statusBit, start, n int) bool {
	return mbBit(data, statusBit) == 0 && mbField(data, start, n) != 0
}

// IsBDS10 reports whether a Comm-B frame plausibly carries the BDS 1,0 data
// link capability register.
func IsBDS10(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if mbField(data, 0, 8) != 0x10 {
		return false, nil
	}
	// Bits 10-14 are reserved.
	if mbField(data, 9, 5) != 0 {
		return false, nil
	}
	return true, nil
}

// IsBDS17 reports whether a Comm-B frame plausibly carries the BDS 1,7
// common usage GICB capability register.
func IsBDS17(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	// Bits 25-56 are reserved.
	if mbField(data, 24, 16) != 0 || mbField(data, 40, 16) != 0 {
		return false, nil
	}
	// An empty capability bitmap carries no information.
	return mbField(data, 0, 24) != 0, nil
}

// IsBDS20 reports whether a Comm-B frame plausibly carries the BDS 2,0
// aircraft identification register.
func IsBDS20(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if mbField(data, 0, 8) != 0x20 {
		return false, nil
	}
	for i := 0; i < 8; i++ {
		if aisCharset[mbField(data, 8+i*6, 6)] == '#' {
			return false, nil
		}
	}
	return true, nil
}

// IsBDS30 reports whether a Comm-B frame plausibly carries the BDS 3,0 ACAS
// resolution advisory register.
func IsBDS30(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if mbField(data, 0, 8) != 0x30 {
		return false, nil
	}
	// Threat type indicator 3 is not assigned.
	return mbField(data, 28, 2) != 3, nil
}

// IsBDS40 reports whether a Comm-B frame plausibly carries the BDS 4,0
// selected vertical intention register.
func IsBDS40(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if wrongStatus(data, 0, 1, 12) ||
		wrongStatus(data, 13, 14, 12) ||
		wrongStatus(data, 26, 27, 12) {
		return false, nil
	}
	// Bits 40-47 are reserved.
	return mbField(data, 39, 8) == 0, nil
}

// IsBDS44 reports whether a Comm-B frame plausibly carries the BDS 4,4
// meteorological routine report (an experimental register, probed only when
// MRAR inference is enabled).
func IsBDS44(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if mbField(data, 0, 4) > 4 { // FOM/source
		return false, nil
	}
	if wrongStatus(data, 4, 5, 18) ||
		wrongStatus(data, 34, 35, 11) ||
		wrongStatus(data, 49, 50, 6) {
		return false, nil
	}
	if mbBit(data, 4) == 1 && mbField(data, 5, 9) > 250 {
		return false, nil
	}
	if temp, err := Temp44(msg); err == nil && (temp < -80 || temp > 60) {
		return false, nil
	}
	if p, err := P44(msg); err == nil && p > 1260 {
		return false, nil
	}
	return true, nil
}

// IsBDS45 reports whether a Comm-B frame plausibly carries the BDS 4,5
// meteorological hazard report.
func IsBDS45(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if wrongStatus(data, 0, 1, 2) ||
		wrongStatus(data, 3, 4, 2) ||
		wrongStatus(data, 6, 7, 2) ||
		wrongStatus(data, 9, 10, 2) ||
		wrongStatus(data, 12, 13, 2) ||
		wrongStatus(data, 15, 16, 10) ||
		wrongStatus(data, 26, 27, 11) ||
		wrongStatus(data, 38, 39, 6) {
		return false, nil
	}
	if temp, err := Temp45(msg); err == nil && (temp < -80 || temp > 60) {
		return false, nil
	}
	// Bits 46-56 are reserved.
	return mbField(data, 45, 11) == 0, nil
}

// IsBDS50 reports whether a Comm-B frame plausibly carries the BDS 5,0 track
// and turn report.
func IsBDS50(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if wrongStatus(data, 0, 1, 10) ||
		wrongStatus(data, 11, 12, 11) ||
		wrongStatus(data, 23, 24, 10) ||
		wrongStatus(data, 34, 35, 10) ||
		wrongStatus(data, 45, 46, 10) {
		return false, nil
	}
	if roll, err := Roll50(msg); err == nil && math.Abs(roll) > 50 {
		return false, nil
	}
	gs, gsErr := GS50(msg)
	if gsErr == nil && gs > 600 {
		return false, nil
	}
	tas, tasErr := TAS50(msg)
	if tasErr == nil && tas > 500 {
		return false, nil
	}
	if gsErr == nil && tasErr == nil && math.Abs(gs-tas) > 200 {
		return false, nil
	}
	return true, nil
}

// IsBDS60 reports whether a Comm-B frame plausibly carries the BDS 6,0
// heading and speed report.
func IsBDS60(msg string) (bool, error) {
	data, err := commbFrame(msg)
	if err != nil {
		return false, err
	}
	if wrongStatus(data, 0, 1, 11) ||
		wrongStatus(data, 12, 13, 10) ||
		wrongStatus(data, 23, 24, 10) ||
		wrongStatus(data, 34, 35, 10) ||
		wrongStatus(data, 45, 46, 10) {
		return false, nil
	}
	if ias, err := IAS60(msg); err == nil && ias > 500 {
		return false, nil
	}
	if mach, err := Mach60(msg); err == nil && mach > 1 {
		return false, nil
	}
	vrb, errB := VR60Baro(msg)
	vri, errI := VR60Ins(msg)
	if errB == nil && errI == nil && math.Abs(vrb-vri) > 500 {
		return false, nil
	}
	return true, nil
}

// registerProbe pairs a register code with its activity predicate.
type registerProbe struct {
	code string
	fn   func(string) (bool, error)
	mrar bool // probed only when experimental meteorological inference is on
}

var registerProbes = []registerProbe{
	{code: "10", fn: IsBDS10},
	{code: "17", fn: IsBDS17},
	{code: "20", fn: IsBDS20},
	{code: "30", fn: IsBDS30},
	{code: "40", fn: IsBDS40},
	{code: "44", fn: IsBDS44, mrar: true},
	{code: "45", fn: IsBDS45, mrar: true},
	{code: "50", fn: IsBDS50},
	{code: "60", fn: IsBDS60},
}

// InferBDS probes a DF20/21 frame against the register predicates and
// returns the matching register codes: a single code when the frame is
// unambiguous, a comma-joined candidate list otherwise, an empty string when
// nothing matched. unique is true only for a single match.
func InferBDS(msg string, mrar bool) (code string, unique bool, err error) {
	if _, err := commbFrame(msg); err != nil {
		return "", false, err
	}
	var matches []string
	for _, p := range registerProbes {
		if p.mrar && !mrar {
			continue
		}
		ok, err := p.fn(msg)
		if err == nil && ok {
			matches = append(matches, p.code)
		}
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	return strings.Join(matches, ","), len(matches) == 1, nil
}
