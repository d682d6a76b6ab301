// Package file implements the session repository on top of plain JSON files
// in a state directory, the default backend for a single-user console.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

// The two fixed session keys, one file each.
const (
	tokenFile = "auth_token.json"
	userFile  = "user_data.json"
)

type Repository struct {
	dir string
}

// NewRepository ensures the state directory exists with owner-only access.
func NewRepository(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// Save writes the user first and the token last: Load requires both, so an
// interrupted save is indistinguishable from no stored session rather than a
// partially authenticated one.
func (r *Repository) Save(_ context.Context, rec ports.SessionRecord) error {
	if err := r.writeJSON(userFile, rec.User); err != nil {
		return err
	}
	return r.writeJSON(tokenFile, rec.Token)
}

// Load returns domain.ErrNoStoredSession when either file is missing or
// unreadable; a corrupt record is treated the same as an absent one.
func (r *Repository) Load(_ context.Context) (*ports.SessionRecord, error) {
	var rec ports.SessionRecord
	if err := r.readJSON(tokenFile, &rec.Token); err != nil {
		return nil, domain.ErrNoStoredSession
	}
	if err := r.readJSON(userFile, &rec.User); err != nil {
		return nil, domain.ErrNoStoredSession
	}
	if rec.Token.Zero() {
		return nil, domain.ErrNoStoredSession
	}
	return &rec, nil
}

func (r *Repository) Clear(_ context.Context) error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(r.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// writeJSON writes atomically via a temp file rename, owner-only permissions.
func (r *Repository) writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(r.dir, name)
	tmp, err := os.CreateTemp(r.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tmp.Name(), path)
}

func (r *Repository) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
