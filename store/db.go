package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite run ledger
type DB struct {
	conn *sql.DB
}

// MatchRow is a finished match as reported by a host
type MatchRow struct {
	ID        int64
	RunID     string
	Winner    string
	Rounds    int
	CreatedAt time.Time
}

// OpenDB opens (or creates) the ledger. An empty path keeps it in memory.
func OpenDB(path string) (*DB, error) {
	if path == "" {
		path = ":memory:"
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	// a second connection to :memory: would see an empty database
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		stopped_at TEXT
	);

	CREATE TABLE IF NOT EXISTS ledger_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		peer_id TEXT,
		color TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		winner TEXT NOT NULL,
		rounds INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_events_run ON ledger_events(run_id, event_type);
	CREATE INDEX IF NOT EXISTS idx_matches_winner ON matches(winner);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun registers a new relay or peer run and returns its ID
func (db *DB) StartRun(at time.Time) (string, error) {
	id := ksuid.New().String()
	_, err := db.conn.Exec(`INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, at.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// StopRun stamps the end of a run
func (db *DB) StopRun(id string, at time.Time) error {
	_, err := db.conn.Exec(`UPDATE runs SET stopped_at = ? WHERE id = ?`, at.UTC().Format(time.RFC3339), id)
	return err
}

// RunCount returns how many runs the ledger has seen
func (db *DB) RunCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// RecordMatch stores a finished match
func (db *DB) RecordMatch(runID, winner string, rounds int) (int64, error) {
	res, err := db.conn.Exec(`INSERT INTO matches (run_id, winner, rounds, created_at) VALUES (?, ?, ?, ?)`,
		runID, winner, rounds, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("record match: %w", err)
	}
	return res.LastInsertId()
}

// RecentMatches returns the newest matches first
func (db *DB) RecentMatches(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, winner, rounds, created_at FROM matches
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		var created string
		if err := rows.Scan(&m.ID, &m.RunID, &m.Winner, &m.Rounds, &created); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, created)
		result = append(result, m)
	}
	return result, rows.Err()
}

// WinsByColor counts match wins per side across all runs
func (db *DB) WinsByColor() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT winner, COUNT(*) FROM matches GROUP BY winner`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var winner string
		var count int
		if err := rows.Scan(&winner, &count); err != nil {
			return nil, err
		}
		result[winner] = count
	}
	return result, rows.Err()
}

// EventCounts returns counts of each event type recorded for a run
func (db *DB) EventCounts(runID string) (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT event_type, COUNT(*) FROM ledger_events
		WHERE run_id = ?
		GROUP BY event_type
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}
