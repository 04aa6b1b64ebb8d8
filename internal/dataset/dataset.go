// Package dataset shapes accumulated decode records into flat, tabular
// datasets. Records arrive as sparse maps with occasional multi-valued
// fields; flattening expands those into scalar columns, quantization rounds
// continuous values to tidy steps, and partitioning splits the wide table
// into a fixed-schema core dataset and a catch-all derived dataset that share
// join keys.
package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

// Row is one flattened record.
type Row = map[string]any

// Dataset is an ordered set of columns plus rows keyed by column name.
// Cells absent from a row are null.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// tupleFieldNames maps multi-valued record fields to the scalar column names
// of their components, in component order. Fields absent from this table are
// expanded positionally as {field}_{index}.
var tupleFieldNames = map[string][]string{
	"velocity":          {"velocity_gs", "velocity_track", "velocity_vr", "velocity_type"},
	"speed_heading":     {"spdhdg_speed", "spdhdg_heading"},
	"airborne_velocity": {"airborne_speed", "airborne_heading", "airborne_vr", "airborne_type"},
	"selected_altitude": {"selected_altitude_ft", "selected_altitude_src"},
	"wind44":            {"wind44_speed", "wind44_dir"},
	"temp44":            {"temp44_c"},
	"p44":               {"p44_hpa"},
	"hum44":             {"hum44_pct"},
	"temp45":            {"temp45_c"},
	"p45":               {"p45_hpa"},
	"rh45":              {"rh45_pct"},
}

// baseColumns are the identity fields every record carries, pinned to the
// front of the column order.
var baseColumns = []string{"timestamp", "datetime_utc", "msg", "msg_hash", "df", "icao"}

// Flatten expands every record into a flat row and derives the column set.
// Column order is deterministic: identity fields first, then remaining
// columns sorted by name.
func Flatten(records []types.Record) *Dataset {
	ds := &Dataset{Rows: make([]Row, 0, len(records))}
	seen := make(map[string]bool)
	var extra []string

	for _, rec := range records {
		row := make(Row, len(rec))
		for field, value := range rec {
			flattenField(row, field, value)
		}
		for col := range row {
			if !seen[col] {
				seen[col] = true
				extra = append(extra, col)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	for _, col := range baseColumns {
		if seen[col] {
			ds.Columns = append(ds.Columns, col)
			delete(seen, col)
		}
	}
	sort.Strings(extra)
	for _, col := range extra {
		if seen[col] {
			ds.Columns = append(ds.Columns, col)
		}
	}
	return ds
}

func flattenField(row Row, field string, value any) {
	parts, ok := value.([]any)
	if !ok {
		row[field] = value
		return
	}
	names := tupleFieldNames[field]
	for i, part := range parts {
		if part == nil {
			continue
		}
		if i < len(names) {
			row[names[i]] = part
		} else {
			row[fmt.Sprintf("%s_%d", field, i)] = part
		}
	}
}

// Sort orders rows by aircraft address, then time. The sort is stable so
// same-instant rows keep arrival order.
func (ds *Dataset) Sort() {
	sort.SliceStable(ds.Rows, func(i, j int) bool {
		a, b := ds.Rows[i], ds.Rows[j]
		ai, _ := a["icao"].(string)
		bi, _ := b["icao"].(string)
		if ai != bi {
			return ai < bi
		}
		at, _ := a["datetime_utc"].(time.Time)
		bt, _ := b["datetime_utc"].(time.Time)
		return at.Before(bt)
	})
}
