package storage

import (
	"compress/gzip"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Bingham-Research-Center/flightdata/internal/dataset"
)

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ds := &dataset.Dataset{
		Columns: []string{"timestamp", "datetime_utc", "icao", "altitude", "callsign", "is50"},
		Rows: []dataset.Row{
			{"timestamp": 1704110400.5, "datetime_utc": ts, "icao": "4840d6", "altitude": 38000.0, "is50": true},
			{"timestamp": 1704110401.0, "datetime_utc": ts, "icao": "406b90", "callsign": "EZY85MH_"},
		},
	}

	if err := WriteDataset(dir, "core", ds); err != nil {
		t.Fatalf("WriteDataset() error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "core.csv.gz"))
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("Output is not valid gzip: %v", err)
	}
	rows, err := csv.NewReader(gz).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][2] != "icao" {
		t.Errorf("Header = %v", rows[0])
	}
	if rows[1][2] != "4840d6" {
		t.Errorf("icao cell = %q, want 4840d6", rows[1][2])
	}
	if rows[1][3] != "38000" {
		t.Errorf("altitude cell = %q, want 38000", rows[1][3])
	}
	if rows[1][5] != "true" {
		t.Errorf("is50 cell = %q, want true", rows[1][5])
	}
	if rows[1][1] != "2024-01-01T12:00:00Z" {
		t.Errorf("datetime cell = %q", rows[1][1])
	}
	// Absent cells come out empty.
	if rows[2][3] != "" {
		t.Errorf("Missing altitude should be empty, got %q", rows[2][3])
	}
	if rows[2][4] != "EZY85MH_" {
		t.Errorf("callsign cell = %q, want EZY85MH_", rows[2][4])
	}
}

func TestWriteDataset_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	ds := &dataset.Dataset{Columns: []string{"icao"}}
	if err := WriteDataset(dir, "core", ds); err != nil {
		t.Fatalf("WriteDataset() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "core.csv.gz")); err != nil {
		t.Errorf("Output file missing: %v", err)
	}
}

func TestWriteStats(t *testing.T) {
	dir := t.TempDir()
	counts := map[string]uint64{"df17": 42, "crc_fail": 3, "bds50": 7}

	if err := WriteStats(dir, "stats", counts); err != nil {
		t.Fatalf("WriteStats() error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid csv: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d", len(rows))
	}
	// Rows are sorted by label.
	if rows[1][0] != "bds50" || rows[2][0] != "crc_fail" || rows[3][0] != "df17" {
		t.Errorf("Rows out of order: %v", rows)
	}
	if rows[3][1] != "42" {
		t.Errorf("df17 count = %q, want 42", rows[3][1])
	}
}
