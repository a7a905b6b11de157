package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection the ingestion pipeline writes to and the
// scoring engine reads from.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the database under dataDir, configures
// pooling and runs migrations.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "parlametro.db")

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &DB{DB: db}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database initialized", "path", dbPath)

	return database, nil
}

// migrate creates the tables the ingestion pipeline upserts into. The scoring
// engine only ever reads them.
func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS politicians (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			party TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS attendance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			politician_id INTEGER NOT NULL,
			session_date DATE NOT NULL,
			status TEXT NOT NULL,
			FOREIGN KEY (politician_id) REFERENCES politicians(id)
		)`,

		`CREATE TABLE IF NOT EXISTS proposals (
			id INTEGER PRIMARY KEY,
			instrument_type TEXT NOT NULL,
			year INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS proposal_authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			proposal_id INTEGER NOT NULL,
			politician_id INTEGER NOT NULL,
			proponent BOOLEAN NOT NULL DEFAULT FALSE,
			FOREIGN KEY (proposal_id) REFERENCES proposals(id),
			FOREIGN KEY (politician_id) REFERENCES politicians(id)
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			politician_id INTEGER NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			net_value REAL NOT NULL,
			supplier_name TEXT NOT NULL DEFAULT '',
			supplier_fiscal_id TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (politician_id) REFERENCES politicians(id)
		)`,

		`CREATE TABLE IF NOT EXISTS speeches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			politician_id INTEGER NOT NULL,
			speech_date DATE,
			keywords TEXT,
			FOREIGN KEY (politician_id) REFERENCES politicians(id)
		)`,

		`CREATE TABLE IF NOT EXISTS voting_sessions (
			id INTEGER PRIMARY KEY,
			session_date DATE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			politician_id INTEGER NOT NULL,
			voting_session_id INTEGER NOT NULL,
			vote TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (politician_id) REFERENCES politicians(id),
			FOREIGN KEY (voting_session_id) REFERENCES voting_sessions(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_attendance_politician ON attendance(politician_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(session_date)`,
		`CREATE INDEX IF NOT EXISTS idx_proposal_authors_politician ON proposal_authors(politician_id)`,
		`CREATE INDEX IF NOT EXISTS idx_proposal_authors_proposal ON proposal_authors(proposal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_politician ON expenses(politician_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_year_month ON expenses(year, month)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_supplier ON expenses(supplier_fiscal_id, supplier_name)`,
		`CREATE INDEX IF NOT EXISTS idx_speeches_politician ON speeches(politician_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_politician ON votes(politician_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// PoolStats returns connection pool statistics for the health endpoint.
func (db *DB) PoolStats() map[string]interface{} {
	stats := db.Stats()

	return map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration_ms": stats.WaitDuration.Milliseconds(),
	}
}
