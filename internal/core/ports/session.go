package ports

import (
	"context"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
)

// SessionRecord is the pair persisted across restarts. Either both fields are
// present or no record exists; a partially written session is never stored.
type SessionRecord struct {
	Token domain.AuthToken
	User  domain.User
}

// SessionRepository is the durable key-value store behind the session store.
// Implementations keep the token and the serialized user under two fixed keys.
// Load returns domain.ErrNoStoredSession when either key is absent or
// unreadable.
type SessionRepository interface {
	Save(ctx context.Context, rec SessionRecord) error
	Load(ctx context.Context) (*SessionRecord, error)
	Clear(ctx context.Context) error
}

// TokenSource is the gateway's read-only view of the session: the current
// bearer token, if any. Only the session store implements it.
type TokenSource interface {
	Token() (domain.AuthToken, bool)
}

// SessionView is the read-only session state exposed to every component that
// is not the session store itself.
type SessionView interface {
	IsAuthenticated() bool
	Current() (domain.User, bool)
}
