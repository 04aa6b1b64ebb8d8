package dataset

// coreColumns is the fixed schema of the core dataset: the flight-tracking
// essentials in their canonical order. Columns listed here but absent from a
// capture are simply omitted.
var coreColumns = []string{
	"timestamp", "datetime_utc", "icao", "df", "typecode", "msg_hash",
	"latitude", "longitude", "position_type",
	"altitude", "selected_altitude_ft",
	"velocity_gs", "velocity_track", "velocity_vr", "velocity_type",
	"airborne_speed", "airborne_heading", "airborne_vr", "airborne_type",
	"spdhdg_speed", "spdhdg_heading",
	"baro_pressure_setting",
	"callsign", "category",
}

// keyColumns join a derived row back to its core row.
var keyColumns = []string{"timestamp", "datetime_utc", "icao", "msg_hash"}

// Partition splits the dataset into core and derived views. Both keep every
// row; the core view carries the fixed schema, the derived view carries the
// join keys plus everything else.
func (ds *Dataset) Partition() (core, derived *Dataset) {
	present := make(map[string]bool, len(ds.Columns))
	for _, col := range ds.Columns {
		present[col] = true
	}

	core = &Dataset{}
	inCore := make(map[string]bool)
	for _, col := range coreColumns {
		if present[col] {
			core.Columns = append(core.Columns, col)
			inCore[col] = true
		}
	}

	derived = &Dataset{}
	isKey := make(map[string]bool)
	for _, col := range keyColumns {
		if present[col] {
			derived.Columns = append(derived.Columns, col)
			isKey[col] = true
		}
	}
	for _, col := range ds.Columns {
		if !inCore[col] && !isKey[col] {
			derived.Columns = append(derived.Columns, col)
		}
	}

	core.Rows = projectRows(ds.Rows, core.Columns)
	derived.Rows = projectRows(ds.Rows, derived.Columns)
	return core, derived
}

func projectRows(rows []Row, cols []string) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		p := make(Row, len(cols))
		for _, col := range cols {
			if v, ok := row[col]; ok {
				p[col] = v
			}
		}
		out[i] = p
	}
	return out
}
