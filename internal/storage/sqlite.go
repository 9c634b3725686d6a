// Package storage provides SQLite persistence for devwatch.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection. It is opened once at process
// start and passed explicitly to everything that needs it.
type DB struct {
	*sql.DB
	mu sync.RWMutex
}

// Open opens (creating if necessary) the devwatch database in dataDir.
func Open(dataDir string) (*DB, error) {
	dbPath := filepath.Join(dataDir, "devices.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{DB: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return d, nil
}

func (db *DB) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS devices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			host TEXT NOT NULL,
			method TEXT NOT NULL DEFAULT 'ping',
			port INTEGER NOT NULL DEFAULT 0,
			team_id INTEGER REFERENCES teams(id) ON DELETE SET NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			watched INTEGER NOT NULL DEFAULT 1,
			last_status TEXT NOT NULL DEFAULT 'unknown',
			last_latency_ms REAL,
			last_checked_at DATETIME,
			aux_service INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_devices_enabled ON devices(enabled)`,
		`CREATE INDEX IF NOT EXISTS idx_devices_team_id ON devices(team_id)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to execute: %s: %w", table, err)
		}
	}

	// Default settings for a fresh database.
	defaults := map[string]string{
		keyInterval:      defaultInterval.String(),
		keyTimeout:       defaultTimeout.String(),
		keyExportOnClose: "0",
	}
	for k, v := range defaults {
		if _, err := db.Exec(`INSERT OR IGNORE INTO settings(key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", k, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// WithLock executes a function with write lock.
func (db *DB) WithLock(fn func() error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn()
}

// WithRLock executes a function with read lock.
func (db *DB) WithRLock(fn func() error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn()
}
