package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

// SessionState is the coordinator's view of the authentication lifecycle.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	// StateChecking means a persisted session was restored optimistically and
	// is being revalidated against the backend.
	StateChecking
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionStore holds the in-memory session state and fronts the durable
// repository. Mutating methods are unexported: the only writer is the
// SessionService in this package, everything else consumes the store through
// the read-only ports.SessionView and ports.TokenSource interfaces.
type SessionStore struct {
	repo ports.SessionRepository
	log  zerolog.Logger

	mu      sync.RWMutex
	state   SessionState
	token   domain.AuthToken
	user    domain.User
	hasUser bool
}

func NewSessionStore(repo ports.SessionRepository, log zerolog.Logger) *SessionStore {
	return &SessionStore{repo: repo, log: log}
}

// State returns the current lifecycle state.
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether a validated session exists.
func (s *SessionStore) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Current returns the user attached to the session, if any. During
// revalidation this is the cached user from the previous run.
func (s *SessionStore) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.hasUser
}

// Token returns the bearer token to attach to outgoing requests. It is
// available while checking as well, since revalidation itself needs it.
func (s *SessionStore) Token() (domain.AuthToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token.Zero() {
		return domain.AuthToken{}, false
	}
	return s.token, true
}

// persist stores a validated token/user pair and moves to Authenticated.
func (s *SessionStore) persist(ctx context.Context, token domain.AuthToken, user domain.User) error {
	if err := s.repo.Save(ctx, ports.SessionRecord{Token: token, User: user}); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = StateAuthenticated
	s.token = token
	s.user = user
	s.hasUser = true
	s.mu.Unlock()
	return nil
}

// restoreLocal loads the persisted record without touching the network and
// moves to Checking. Returns false when no usable record exists.
func (s *SessionStore) restoreLocal(ctx context.Context) bool {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoStoredSession) {
			s.log.Warn().Err(err).Msg("session restore failed, starting unauthenticated")
		}
		return false
	}
	s.mu.Lock()
	s.state = StateChecking
	s.token = rec.Token
	s.user = rec.User
	s.hasUser = true
	s.mu.Unlock()
	return true
}

// confirm replaces the cached user with the freshly validated one and moves
// to Authenticated.
func (s *SessionStore) confirm(user domain.User) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.hasUser = true
	s.mu.Unlock()
}

// clear wipes the persisted record and collapses to Unauthenticated.
func (s *SessionStore) clear(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored session")
	}
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.token = domain.AuthToken{}
	s.user = domain.User{}
	s.hasUser = false
	s.mu.Unlock()
}
