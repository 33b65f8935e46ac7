package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite is not great with many writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaRuns = `
CREATE TABLE IF NOT EXISTS optimization_runs (
    id TEXT PRIMARY KEY,
    run_date TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    variant TEXT NOT NULL,
    status TEXT NOT NULL,
    solver TEXT,
    data_source TEXT NOT NULL,
    water_price REAL NOT NULL,
    config TEXT NOT NULL,
    total_cost REAL NOT NULL,
    baseline_cost REAL NOT NULL,
    savings_abs REAL NOT NULL,
    savings_pct REAL NOT NULL,
    peak_demand_mw REAL NOT NULL,
    water_used_gal REAL NOT NULL,
    water_saved_gal REAL NOT NULL,
    carbon_avoided_tons REAL NOT NULL,
    solve_time_s REAL NOT NULL
);
`

const schemaHours = `
CREATE TABLE IF NOT EXISTS optimization_hours (
    run_id TEXT NOT NULL REFERENCES optimization_runs(id) ON DELETE CASCADE,
    hour INTEGER NOT NULL,
    batch_load_mw REAL NOT NULL,
    water_share REAL NOT NULL,
    total_power_mw REAL NOT NULL,
    water_usage_gal REAL NOT NULL,
    hourly_cost REAL NOT NULL,
    temperature_f REAL NOT NULL,
    electricity_price REAL NOT NULL,
    PRIMARY KEY (run_id, hour)
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{schemaRuns, schemaHours, schemaUsers} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
