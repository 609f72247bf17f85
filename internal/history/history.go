// Package history keeps an audit log of alert decisions in SQLite so
// surrounding tooling can see which alerts fired and whether delivery
// succeeded. Recording is best-effort: a broken history database never
// blocks an alert.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one logged alert decision.
type Record struct {
	ID        string
	Kind      string // "ipo", "volatility", "upcoming"
	Symbol    string
	Detail    string
	Delivered bool
	CreatedAt time.Time
}

// Recorder logs alert decisions.
type Recorder interface {
	Record(kind, symbol, detail string, delivered bool) error
	Close() error
}

// NoopRecorder discards all records; used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) Record(string, string, string, bool) error { return nil }
func (*NoopRecorder) Close() error                              { return nil }

// SQLiteRecorder persists alert records to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens or creates the database at dbPath.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alerts (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			detail     TEXT,
			delivered  INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_symbol ON alerts(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts one alert decision.
func (r *SQLiteRecorder) Record(kind, symbol, detail string, delivered bool) error {
	_, err := r.db.Exec(`
		INSERT INTO alerts (id, kind, symbol, detail, delivered, created_at)
		VALUES (?,?,?,?,?,?)`,
		uuid.New().String(), kind, symbol, detail, boolToInt(delivered), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert record: %w", err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (r *SQLiteRecorder) Recent(limit int) ([]Record, error) {
	rows, err := r.db.Query(`
		SELECT id, kind, symbol, detail, delivered, created_at
		FROM alerts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var delivered int
		var createdAtNano int64
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Symbol, &rec.Detail, &delivered, &createdAtNano); err != nil {
			return nil, fmt.Errorf("failed to scan alert record: %w", err)
		}
		rec.Delivered = delivered != 0
		rec.CreatedAt = time.Unix(0, createdAtNano)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database connection.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
