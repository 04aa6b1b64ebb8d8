package modes

import (
	"errors"
	"math"
)

// ErrPositionAmbiguous reports that an even/odd pair straddles two latitude
// zones and cannot be combined.
var ErrPositionAmbiguous = errors.New("modes: cpr latitude zones disagree")

// cprNL returns the number of longitude zones at a latitude.
func cprNL(lat float64) int {
	abs := math.Abs(lat)
	switch {
	case abs == 0:
		return 59
	case abs == 87:
		return 2
	case abs > 87:
		return 1
	}
	const nz = 15.0
	a := 1 - math.Cos(math.Pi/(2*nz))
	c := math.Cos(math.Pi / 180 * lat)
	return int(math.Floor(2 * math.Pi / math.Acos(1-a/(c*c))))
}

// fmod is a floor-based modulo that always returns a non-negative result.
func fmod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}

func round5(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// cprValues returns the 17-bit CPR latitude/longitude fractions of a position
// message.
func cprValues(msg string) (latCPR, lonCPR float64, err error) {
	data, err := adsbFrame(msg)
	if err != nil {
		return 0, 0, err
	}
	if !IsPositionTC(me(data, 0, 5)) {
		return 0, 0, ErrNotApplicable
	}
	latCPR = float64(me(data, 22, 17)) / 131072
	lonCPR = float64(me(data, 39, 17)) / 131072
	return latCPR, lonCPR, nil
}

// AirbornePosition decodes latitude/longitude from an even/odd airborne
// position pair. The newer of the two timestamps decides which message's
// zone the result is computed in.
func AirbornePosition(msgEven, msgOdd string, tEven, tOdd float64) (lat, lon float64, err error) {
	latCPRE, lonCPRE, err := cprValues(msgEven)
	if err != nil {
		return 0, 0, err
	}
	latCPRO, lonCPRO, err := cprValues(msgOdd)
	if err != nil {
		return 0, 0, err
	}

	const dLatEven = 360.0 / 60
	const dLatOdd = 360.0 / 59

	j := math.Floor(59*latCPRE - 60*latCPRO + 0.5)
	latEven := dLatEven * (fmod(j, 60) + latCPRE)
	latOdd := dLatOdd * (fmod(j, 59) + latCPRO)
	if latEven >= 270 {
		latEven -= 360
	}
	if latOdd >= 270 {
		latOdd -= 360
	}

	if cprNL(latEven) != cprNL(latOdd) {
		return 0, 0, ErrPositionAmbiguous
	}

	if tEven >= tOdd {
		lat = latEven
		nl := cprNL(lat)
		ni := max(nl, 1)
		m := math.Floor(lonCPRE*float64(nl-1) - lonCPRO*float64(nl) + 0.5)
		lon = 360 / float64(ni) * (fmod(m, float64(ni)) + lonCPRE)
	} else {
		lat = latOdd
		nl := cprNL(lat)
		ni := max(nl-1, 1)
		m := math.Floor(lonCPRE*float64(nl-1) - lonCPRO*float64(nl) + 0.5)
		lon = 360 / float64(ni) * (fmod(m, float64(ni)) + lonCPRO)
	}
	if lon > 180 {
		lon -= 360
	}
	return round5(lat), round5(lon), nil
}

// SurfacePosition decodes latitude/longitude from an even/odd surface
// position pair. Surface CPR zones are 90 degrees wide and identify four
// candidate solutions; the one nearest the receiver reference point wins.
func SurfacePosition(msgEven, msgOdd string, tEven, tOdd, refLat, refLon float64) (lat, lon float64, err error) {
	latCPRE, lonCPRE, err := cprValues(msgEven)
	if err != nil {
		return 0, 0, err
	}
	latCPRO, lonCPRO, err := cprValues(msgOdd)
	if err != nil {
		return 0, 0, err
	}

	const dLatEven = 90.0 / 60
	const dLatOdd = 90.0 / 59

	j := math.Floor(59*latCPRE - 60*latCPRO + 0.5)
	latEven := dLatEven * (fmod(j, 60) + latCPRE)
	latOdd := dLatOdd * (fmod(j, 59) + latCPRO)

	var lonCPR float64
	var odd int
	if tEven >= tOdd {
		lat = latEven
		lonCPR = lonCPRE
	} else {
		lat = latOdd
		lonCPR = lonCPRO
		odd = 1
	}
	// Northern vs southern hemisphere solution.
	if math.Abs(refLat-(lat-90)) < math.Abs(refLat-lat) {
		lat -= 90
	}

	nl := cprNL(lat)
	ni := max(nl-odd, 1)
	m := math.Floor(lonCPRE*float64(nl-1) - lonCPRO*float64(nl) + 0.5)
	lon = 90 / float64(ni) * (fmod(m, float64(ni)) + lonCPR)

	best := lon
	for k := 1; k < 4; k++ {
		cand := lon + float64(k)*90
		if cand > 180 {
			cand -= 360
		}
		if math.Abs(refLon-cand) < math.Abs(refLon-best) {
			best = cand
		}
	}
	return round5(lat), round5(best), nil
}

// PositionWithRef decodes a single position message relative to a known
// reference point within one zone (about 180 NM). Works for both airborne and
// surface messages.
func PositionWithRef(msg string, refLat, refLon float64) (lat, lon float64, err error) {
	latCPR, lonCPR, err := cprValues(msg)
	if err != nil {
		return 0, 0, err
	}
	data, _ := frameBytes(msg)
	tc := me(data, 0, 5)
	span := 360.0
	if tc >= 5 && tc <= 8 {
		span = 90.0
	}
	odd, err := OEFlag(msg)
	if err != nil {
		return 0, 0, err
	}

	dLat := span / 60
	if odd == 1 {
		dLat = span / 59
	}
	j := math.Floor(refLat/dLat) + math.Floor(0.5+fmod(refLat, dLat)/dLat-latCPR)
	lat = dLat * (j + latCPR)

	ni := cprNL(lat) - odd
	dLon := span
	if ni > 0 {
		dLon = span / float64(ni)
	}
	m := math.Floor(refLon/dLon) + math.Floor(0.5+fmod(refLon, dLon)/dLon-lonCPR)
	lon = dLon * (m + lonCPR)
	return round5(lat), round5(lon), nil
}
