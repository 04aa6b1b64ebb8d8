package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Bingham-Research-Center/flightdata/internal/dataset"
	"github.com/Bingham-Research-Center/flightdata/internal/db/migrations"
	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

type Client struct {
	db *sql.DB
}

// New creates a new database client
func New(connStr string) (*Client, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	return &Client{db: db}, nil
}

// NewWithDB wraps an existing database handle, used by tests.
func NewWithDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Migrate applies all pending schema migrations.
func (c *Client) Migrate() error {
	return migrations.New(c.db).Migrate(migrations.All)
}

// RollbackLast rolls back the most recently applied migration.
func (c *Client) RollbackLast() error {
	return migrations.New(c.db).RollbackLast(migrations.All)
}

// CreateSession records the start of a capture session.
func (c *Client) CreateSession(s *types.Session) error {
	query := `
		INSERT INTO sessions (id, source, started_at, ref_lat, ref_lon)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := c.db.Exec(query, s.ID, s.Source, s.StartedAt, s.RefLat, s.RefLon)
	return err
}

// EndSession marks a session as finished.
func (c *Client) EndSession(sessionID string, endedAt time.Time) error {
	query := `UPDATE sessions SET ended_at = $1 WHERE id = $2`
	_, err := c.db.Exec(query, endedAt, sessionID)
	return err
}

// coreTableColumns is the adsb_core column order used for bulk loading.
var coreTableColumns = []string{
	"session_id", "timestamp", "datetime_utc", "icao", "df", "typecode", "msg_hash",
	"latitude", "longitude", "position_type",
	"altitude", "selected_altitude_ft",
	"velocity_gs", "velocity_track", "velocity_vr", "velocity_type",
	"airborne_speed", "airborne_heading", "airborne_vr", "airborne_type",
	"spdhdg_speed", "spdhdg_heading",
	"baro_pressure_setting", "callsign", "category",
}

// StoreCoreDataset bulk-loads the core dataset rows for a session.
func (c *Client) StoreCoreDataset(sessionID string, ds *dataset.Dataset) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn("adsb_core", coreTableColumns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, row := range ds.Rows {
		args := make([]interface{}, len(coreTableColumns))
		args[0] = sessionID
		for i, col := range coreTableColumns[1:] {
			args[i+1] = row[col]
		}
		if _, err := stmt.Exec(args...); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy core row: %w", err)
		}
	}
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// derivedKeyColumns are stored as real columns; everything else goes into the
// fields JSONB document.
var derivedKeyColumns = map[string]bool{
	"timestamp": true, "datetime_utc": true, "icao": true, "msg_hash": true,
}

// StoreDerivedDataset bulk-loads the derived dataset rows for a session.
func (c *Client) StoreDerivedDataset(sessionID string, ds *dataset.Dataset) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn("adsb_derived",
		"session_id", "timestamp", "datetime_utc", "icao", "msg_hash", "fields"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, row := range ds.Rows {
		fields := make(map[string]any, len(row))
		for col, v := range row {
			if !derivedKeyColumns[col] {
				fields[col] = v
			}
		}
		doc, err := json.Marshal(fields)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to encode derived fields: %w", err)
		}
		if _, err := stmt.Exec(sessionID, row["timestamp"], row["datetime_utc"],
			row["icao"], row["msg_hash"], string(doc)); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy derived row: %w", err)
		}
	}
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// StoreSessionStats stores the decode counters of a session.
func (c *Client) StoreSessionStats(sessionID string, counts map[string]uint64) error {
	query := `
		INSERT INTO session_stats (session_id, label, count)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, label) DO UPDATE SET count = EXCLUDED.count
	`
	for label, count := range counts {
		if _, err := c.db.Exec(query, sessionID, label, int64(count)); err != nil {
			return err
		}
	}
	return nil
}
