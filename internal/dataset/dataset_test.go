package dataset

import (
	"testing"
	"time"

	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

func TestFlatten_TupleNames(t *testing.T) {
	records := []types.Record{
		{
			"icao":     "4840d6",
			"velocity": []any{159.0, 182.88, -832.0, "GS"},
		},
	}
	ds := Flatten(records)

	row := ds.Rows[0]
	if row["velocity_gs"] != 159.0 {
		t.Errorf("velocity_gs = %v, want 159", row["velocity_gs"])
	}
	if row["velocity_track"] != 182.88 {
		t.Errorf("velocity_track = %v, want 182.88", row["velocity_track"])
	}
	if row["velocity_vr"] != -832.0 {
		t.Errorf("velocity_vr = %v, want -832", row["velocity_vr"])
	}
	if row["velocity_type"] != "GS" {
		t.Errorf("velocity_type = %v, want GS", row["velocity_type"])
	}
	if _, ok := row["velocity"]; ok {
		t.Error("The multi-valued field itself should not survive flattening")
	}
}

func TestFlatten_PositionalFallback(t *testing.T) {
	records := []types.Record{
		{"icao": "4840d6", "cap17": []any{"05", "06"}},
	}
	ds := Flatten(records)

	row := ds.Rows[0]
	if row["cap17_0"] != "05" || row["cap17_1"] != "06" {
		t.Errorf("Unnamed tuple components should get positional names, got %v", row)
	}
}

func TestFlatten_ColumnOrderDeterministic(t *testing.T) {
	records := []types.Record{
		{"timestamp": 1.0, "icao": "a", "zeta": 1, "alpha": 2},
		{"timestamp": 2.0, "icao": "b", "mid": 3},
	}

	first := Flatten(records)
	for i := 0; i < 10; i++ {
		again := Flatten(records)
		if len(again.Columns) != len(first.Columns) {
			t.Fatal("Column sets differ between runs")
		}
		for j := range first.Columns {
			if again.Columns[j] != first.Columns[j] {
				t.Fatalf("Column order differs between runs: %v vs %v",
					first.Columns, again.Columns)
			}
		}
	}
	if first.Columns[0] != "timestamp" || first.Columns[1] != "icao" {
		t.Errorf("Identity columns should lead, got %v", first.Columns)
	}
}

func TestSort(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := &Dataset{
		Columns: []string{"icao", "datetime_utc"},
		Rows: []Row{
			{"icao": "bbb", "datetime_utc": t0},
			{"icao": "aaa", "datetime_utc": t0.Add(time.Second)},
			{"icao": "aaa", "datetime_utc": t0},
		},
	}
	ds.Sort()

	if ds.Rows[0]["icao"] != "aaa" || ds.Rows[0]["datetime_utc"] != t0 {
		t.Errorf("First row = %v, want aaa at t0", ds.Rows[0])
	}
	if ds.Rows[1]["icao"] != "aaa" || ds.Rows[1]["datetime_utc"] != t0.Add(time.Second) {
		t.Errorf("Second row = %v, want aaa at t0+1s", ds.Rows[1])
	}
	if ds.Rows[2]["icao"] != "bbb" {
		t.Errorf("Last row = %v, want bbb", ds.Rows[2])
	}
}

func TestQuantize(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"latitude", "altitude", "velocity_vr", "spdhdg_heading", "mach60", "hum44_pct", "callsign", "oe_flag"},
		Rows: []Row{{
			"latitude":       52.2572021,
			"altitude":       38012.0,
			"velocity_vr":    -837.0,
			"spdhdg_heading": 182.8828,
			"mach60":         0.41999,
			"hum44_pct":      37.5,
			"callsign":       "KLR1026_",
			"oe_flag":        1,
		}},
	}
	ds.Quantize()

	row := ds.Rows[0]
	if row["latitude"] != 52.2572 {
		t.Errorf("latitude = %v, want 52.2572", row["latitude"])
	}
	if row["altitude"] != 38000.0 {
		t.Errorf("altitude = %v, want 38000 (25 ft steps)", row["altitude"])
	}
	if row["velocity_vr"] != -840.0 {
		t.Errorf("velocity_vr = %v, want -840 (10 ft/min steps)", row["velocity_vr"])
	}
	if row["spdhdg_heading"] != 182.9 {
		t.Errorf("spdhdg_heading = %v, want 182.9", row["spdhdg_heading"])
	}
	if row["mach60"] != 0.42 {
		t.Errorf("mach60 = %v, want 0.42", row["mach60"])
	}
	if row["hum44_pct"] != 38.0 {
		t.Errorf("hum44_pct = %v, want 38", row["hum44_pct"])
	}
	if row["callsign"] != "KLR1026_" {
		t.Errorf("Non-numeric cells must pass through, got %v", row["callsign"])
	}
	if row["oe_flag"] != 1 {
		t.Errorf("Integer cells must pass through, got %v", row["oe_flag"])
	}
}

func TestQuantize_Idempotent(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"latitude", "altitude", "temp44_c"},
		Rows: []Row{{
			"latitude": 52.2572021,
			"altitude": 38012.0,
			"temp44_c": -41.37,
		}},
	}
	ds.Quantize()
	first := Row{}
	for k, v := range ds.Rows[0] {
		first[k] = v
	}
	ds.Quantize()
	for k, v := range ds.Rows[0] {
		if first[k] != v {
			t.Errorf("Re-quantizing changed %s: %v -> %v", k, first[k], v)
		}
	}
}

func TestPartition(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"timestamp", "datetime_utc", "msg", "msg_hash", "df", "icao", "altitude", "roll50"},
		Rows: []Row{
			{"timestamp": 1.0, "msg_hash": "aa", "icao": "4840d6", "df": 20, "altitude": 38000.0, "roll50": 2.1, "msg": "a000"},
		},
	}
	core, derived := ds.Partition()

	if len(core.Rows) != 1 || len(derived.Rows) != 1 {
		t.Fatal("Partition must preserve all rows in both datasets")
	}
	for _, col := range []string{"timestamp", "icao", "msg_hash", "altitude"} {
		if !contains(core.Columns, col) {
			t.Errorf("Core dataset missing %q", col)
		}
	}
	if contains(core.Columns, "roll50") || contains(core.Columns, "msg") {
		t.Error("Register fields and raw frame text do not belong to the core dataset")
	}
	for _, col := range []string{"timestamp", "icao", "msg_hash", "roll50", "msg"} {
		if !contains(derived.Columns, col) {
			t.Errorf("Derived dataset missing %q", col)
		}
	}
	if contains(derived.Columns, "altitude") {
		t.Error("Core-only columns must not leak into the derived dataset")
	}
	// df lives in the core schema, so the derived view drops it.
	if contains(derived.Columns, "df") {
		t.Error("df belongs to the core dataset only")
	}
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
