package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLite keeps the best record in a single-row table and logs every report.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
type SQLite struct {
	db *sql.DB
}

type sessionKey struct{}

// WithSessionID tags reports made with ctx so history rows can be grouped.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom returns the session tag on ctx, or "".
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr(fmt.Sprintf("cannot create directory %s", dir), err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storageErr("cannot open database", err)
	}
	// One writer keeps read-modify-write reports serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storageErr("cannot connect to database", err)
	}

	store := &SQLite{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, storageErr("migration failed", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_record (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			seconds INTEGER NOT NULL CHECK (seconds >= 0),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT OR IGNORE INTO best_record (id, seconds) VALUES (1, 0);

		CREATE TABLE IF NOT EXISTS record_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			seconds INTEGER NOT NULL,
			best_after INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_record_history_created ON record_history(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Best returns the stored best.
func (s *SQLite) Best(ctx context.Context) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx, "SELECT seconds FROM best_record WHERE id = 1").Scan(&best)
	if err != nil {
		return 0, storageErr("cannot query best record", err)
	}
	return best, nil
}

// Report applies max(best, candidate) and appends a history row in one transaction.
func (s *SQLite) Report(ctx context.Context, candidate int) (int, error) {
	if err := validCandidate(candidate); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("cannot begin transaction", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	var best int
	if err := tx.QueryRowContext(ctx, "SELECT seconds FROM best_record WHERE id = 1").Scan(&best); err != nil {
		return 0, storageErr("cannot query best record", err)
	}

	if candidate > best {
		best = candidate
		if _, err := tx.ExecContext(ctx,
			"UPDATE best_record SET seconds = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1",
			best,
		); err != nil {
			return 0, storageErr("cannot update best record", err)
		}
	}

	sessionID := SessionIDFrom(ctx)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO record_history (session_id, seconds, best_after) VALUES (?, ?, ?)",
		sessionID, candidate, best,
	); err != nil {
		return 0, storageErr("cannot save history", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("cannot commit report", err)
	}
	return best, nil
}

// History returns the most recent reports, newest first.
func (s *SQLite) History(ctx context.Context, limit int) ([]RecordEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, seconds, best_after, created_at
		 FROM record_history
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, storageErr("cannot query history", err)
	}
	defer rows.Close()

	var entries []RecordEntry
	for rows.Next() {
		var e RecordEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seconds, &e.BestAfter, &createdAt); err != nil {
			return nil, storageErr("cannot scan row", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("row iteration error", err)
	}
	return entries, nil
}

// parseTime handles both driver-decoded times and SQLite's text format.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ HistoryStore = (*SQLite)(nil)
	_ Store        = (*File)(nil)
	_ Store        = (*Memory)(nil)
)
