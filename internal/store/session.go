// Package store persists draft sessions between process runs. The ledger
// itself holds no I/O; callers snapshot it and save the pick records here.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-draft-mcp/internal/ledger"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Picks     []ledger.PickRecord `json:"picks"`
}

// SessionStore loads and saves whole sessions. Save replaces any previous
// copy of the session.
type SessionStore interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// FromSnapshot builds the persisted form of a ledger snapshot.
func FromSnapshot(snap ledger.Snapshot, createdAt time.Time) Session {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	return Session{
		ID:        snap.ID,
		CreatedAt: createdAt,
		UpdatedAt: now,
		Picks:     snap.Records(),
	}
}

// Open returns the store for driver: "json" (files under path), "sqlite"
// (database file at path) or "memory".
func Open(driver, path string) (SessionStore, error) {
	switch driver {
	case "json", "":
		return NewJSONStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
