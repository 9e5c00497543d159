package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"auction-draft-mcp/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS picks (
    session_id TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    pick       INTEGER NOT NULL,
    team_id    TEXT    NOT NULL,
    player     TEXT    NOT NULL,
    bid        INTEGER NOT NULL,
    drafted_at TEXT    NOT NULL,
    PRIMARY KEY (session_id, pick)
);
`

// SQLiteStore keeps sessions in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// ":memory:" databases are private to one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (Session, error) {
	var out Session
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&out.ID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, err
	}
	if out.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Session{}, err
	}
	if out.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Session{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT pick, team_id, player, bid, drafted_at FROM picks WHERE session_id = ? ORDER BY pick`, id)
	if err != nil {
		return Session{}, err
	}
	defer rows.Close()

	out.Picks = []ledger.PickRecord{}
	for rows.Next() {
		var rec ledger.PickRecord
		var at string
		if err := rows.Scan(&rec.Pick, &rec.TeamID, &rec.Player, &rec.Bid, &at); err != nil {
			return Session{}, err
		}
		if rec.DraftedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return Session{}, err
		}
		out.Picks = append(out.Picks, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		sess.ID, sess.CreatedAt.UTC().Format(time.RFC3339Nano), sess.UpdatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM picks WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("clear picks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO picks (session_id, pick, team_id, player, bid, drafted_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range sess.Picks {
		if _, err := stmt.ExecContext(ctx, sess.ID, p.Pick, p.TeamID, p.Player, p.Bid, p.DraftedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert pick %d: %w", p.Pick, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM picks WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
