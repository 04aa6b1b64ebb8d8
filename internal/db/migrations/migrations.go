// Package migrations holds the database schema migrations and a small
// runner that applies them in order, tracking state in a migrations table.
package migrations

import (
	"database/sql"
	"fmt"
)

// Migration is one schema change with its inverse.
type Migration struct {
	Name    string
	UpSQL   string
	DownSQL string
}

// All lists every migration in apply order.
var All = []*Migration{
	InitialSchema,
	SessionIndexes,
}

// Migrator applies and rolls back migrations.
type Migrator struct {
	db *sql.DB
}

// New creates a Migrator.
func New(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Initialize creates the migrations bookkeeping table.
func (m *Migrator) Initialize() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// Applied returns the set of migration names already applied.
func (m *Migrator) Applied() (map[string]bool, error) {
	rows, err := m.db.Query(`SELECT name FROM migrations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) run(migration *Migration, body, record string, args ...interface{}) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(body); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", migration.Name, err)
	}
	if _, err := tx.Exec(record, args...); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}
	return tx.Commit()
}

// Apply applies a single migration.
func (m *Migrator) Apply(migration *Migration) error {
	return m.run(migration, migration.UpSQL,
		`INSERT INTO migrations (name) VALUES ($1)`, migration.Name)
}

// Rollback undoes a single migration.
func (m *Migrator) Rollback(migration *Migration) error {
	return m.run(migration, migration.DownSQL,
		`DELETE FROM migrations WHERE name = $1`, migration.Name)
}

// Migrate applies every pending migration in order.
func (m *Migrator) Migrate(migrations []*Migration) error {
	if err := m.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	applied, err := m.Applied()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	for _, migration := range migrations {
		if applied[migration.Name] {
			continue
		}
		if err := m.Apply(migration); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Name, err)
		}
		fmt.Printf("Applied migration: %s\n", migration.Name)
	}
	return nil
}

// RollbackLast rolls back the most recently applied migration.
func (m *Migrator) RollbackLast(migrations []*Migration) error {
	applied, err := m.Applied()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		if !applied[migrations[i].Name] {
			continue
		}
		if err := m.Rollback(migrations[i]); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", migrations[i].Name, err)
		}
		fmt.Printf("Rolled back migration: %s\n", migrations[i].Name)
		return nil
	}
	return fmt.Errorf("no migrations to rollback")
}
