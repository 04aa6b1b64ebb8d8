package dataset

import (
	"math"
	"strings"
)

// Quantization rules are matched against column names by substring, in
// order; the first rule that matches a column wins and step rules are
// checked before decimal rules. Matching by substring lets one rule cover a
// family of columns (every *_heading, *_track and *_dir column shares the
// angle precision).

type stepRule struct {
	substrings []string
	step       float64
}

type decimalRule struct {
	substrings []string
	places     int
}

var stepRules = []stepRule{
	{[]string{"altitude", "selected_altitude_ft", "altitude_diff"}, 25},
	{[]string{"vr", "vertical_rate"}, 10},
}

var decimalRules = []decimalRule{
	{[]string{"latitude", "longitude"}, 4},
	{[]string{"heading", "track", "dir"}, 1},
	{[]string{"speed", "gs", "tas", "ias"}, 1},
	{[]string{"roll"}, 1},
	{[]string{"mach"}, 3},
	{[]string{"temp"}, 1},
	{[]string{"pressure", "p44_hpa", "p45_hpa", "baro_pressure_setting"}, 1},
	{[]string{"hum", "rh"}, 0},
}

type quantizer func(float64) float64

func stepQuantizer(step float64) quantizer {
	return func(v float64) float64 {
		return math.Round(v/step) * step
	}
}

func decimalQuantizer(places int) quantizer {
	scale := math.Pow(10, float64(places))
	return func(v float64) float64 {
		return math.Round(v*scale) / scale
	}
}

// columnQuantizer picks the quantizer for a column name, or nil when no rule
// matches.
func columnQuantizer(col string) quantizer {
	for _, r := range stepRules {
		for _, sub := range r.substrings {
			if strings.Contains(col, sub) {
				return stepQuantizer(r.step)
			}
		}
	}
	for _, r := range decimalRules {
		for _, sub := range r.substrings {
			if strings.Contains(col, sub) {
				return decimalQuantizer(r.places)
			}
		}
	}
	return nil
}

// Quantize rounds every numeric cell of every matched column in place.
// Non-numeric cells and unmatched columns pass through untouched, and
// re-quantizing an already quantized dataset changes nothing.
func (ds *Dataset) Quantize() {
	quantizers := make(map[string]quantizer)
	for _, col := range ds.Columns {
		if q := columnQuantizer(col); q != nil {
			quantizers[col] = q
		}
	}
	if len(quantizers) == 0 {
		return
	}
	for _, row := range ds.Rows {
		for col, q := range quantizers {
			if v, ok := row[col].(float64); ok {
				row[col] = q(v)
			}
		}
	}
}
