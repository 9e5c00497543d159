package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JSONStore keeps files under Root: one JSON document per session in
// sessions/, plus raw cached downloads written by the fetch client.
type JSONStore struct {
	Root string // e.g. "data"
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

func (s *JSONStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *JSONStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

func (s *JSONStore) WriteRaw(rel string, body []byte) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Temp file plus rename: readers see the old or the new document, never a partial one.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *JSONStore) ReadRaw(rel string) ([]byte, error) {
	return os.ReadFile(s.Path(rel))
}

func sessionRel(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join("sessions", id+".json"), nil
}

func (s *JSONStore) Load(_ context.Context, id string) (Session, error) {
	rel, err := sessionRel(id)
	if err != nil {
		return Session{}, err
	}
	b, err := s.ReadRaw(rel)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, err
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return out, nil
}

func (s *JSONStore) Save(_ context.Context, sess Session) error {
	rel, err := sessionRel(sess.ID)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return s.WriteRaw(rel, b)
}

func (s *JSONStore) Delete(_ context.Context, id string) error {
	rel, err := sessionRel(id)
	if err != nil {
		return err
	}
	if err := os.Remove(s.Path(rel)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
