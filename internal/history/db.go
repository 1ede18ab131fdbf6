package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite command history database.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the history database in dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dbPath := filepath.Join(dir, "history.db")
	// Parallel adbctl invocations append to the same file, so every pooled
	// connection gets WAL and a busy timeout.
	sqlDB, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	h := &DB{db: sqlDB, path: dbPath}
	if err := h.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the database.
func (h *DB) Close() error {
	return h.db.Close()
}

// Path returns the path to the history database file.
func (h *DB) Path() string {
	return h.path
}

func (h *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		device_serial TEXT NOT NULL DEFAULT '',
		args TEXT NOT NULL,
		output TEXT NOT NULL DEFAULT '',
		status INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS device_states (
		device_serial TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		observed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commands_device ON commands(device_serial);
	CREATE INDEX IF NOT EXISTS idx_commands_started ON commands(started_at);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
