package history

import (
	"fmt"
	"strings"
	"time"
)

// Command is one recorded adb invocation.
type Command struct {
	ID        int64
	Session   string
	Serial    string
	Args      []string
	Output    string
	Status    int
	Error     string
	Duration  time.Duration
	StartedAt time.Time
}

// StateRecord is the last state observed for a device.
type StateRecord struct {
	Serial     string
	State      string
	ObservedAt time.Time
}

// RecordCommand stores an invocation and returns its row ID.
func (h *DB) RecordCommand(c Command) (int64, error) {
	res, err := h.db.Exec(
		`INSERT INTO commands (session, device_serial, args, output, status, error, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Session, c.Serial, strings.Join(c.Args, "\x00"), c.Output, c.Status, c.Error,
		c.Duration.Milliseconds(), c.StartedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record command: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit commands, newest first. An empty serial matches every device.
func (h *DB) Recent(serial string, limit int) ([]Command, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(
		`SELECT id, session, device_serial, args, output, status, error, duration_ms, started_at
		 FROM commands
		 WHERE ? = '' OR device_serial = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		serial, serial, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get recent: %w", err)
	}
	defer rows.Close()

	var commands []Command
	for rows.Next() {
		var (
			c    Command
			args string
			ms   int64
		)
		if err := rows.Scan(&c.ID, &c.Session, &c.Serial, &args, &c.Output, &c.Status, &c.Error, &ms, &c.StartedAt); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		if args != "" {
			c.Args = strings.Split(args, "\x00")
		}
		c.Duration = time.Duration(ms) * time.Millisecond
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

// RecordState inserts or updates the last observed state of a device.
func (h *DB) RecordState(serial, state string) error {
	_, err := h.db.Exec(
		`INSERT INTO device_states (device_serial, state, observed_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(device_serial) DO UPDATE SET
		   state = excluded.state,
		   observed_at = excluded.observed_at`,
		serial, state, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record state: %w", err)
	}
	return nil
}

// LastStates returns the last observed state of every device seen, ordered by serial.
func (h *DB) LastStates() ([]StateRecord, error) {
	rows, err := h.db.Query(
		`SELECT device_serial, state, observed_at FROM device_states ORDER BY device_serial`,
	)
	if err != nil {
		return nil, fmt.Errorf("get states: %w", err)
	}
	defer rows.Close()

	var records []StateRecord
	for rows.Next() {
		var r StateRecord
		if err := rows.Scan(&r.Serial, &r.State, &r.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan states: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
