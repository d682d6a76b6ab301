package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

// SessionService drives the session lifecycle against the backend. It is the
// only component that mutates the SessionStore.
type SessionService struct {
	store   *SessionStore
	gateway ports.Gateway
	log     zerolog.Logger
}

func NewSessionService(store *SessionStore, gateway ports.Gateway, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, gateway: gateway, log: log}
}

// Login authenticates with the backend and persists the resulting session.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrUnauthorized
	}

	result, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.store.persist(ctx, result.Token, result.User); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.log.Info().Str("email", result.User.Email).Msg("logged in")
	user := result.User
	return &user, nil
}

// Register creates the account, then immediately logs in with the same
// credentials so the caller lands in an authenticated session.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if _, err := s.gateway.Register(ctx, input); err != nil {
		return nil, err
	}
	user, err := s.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, fmt.Errorf("registration succeeded but login failed: %w", err)
	}
	return user, nil
}

// Restore loads a persisted session, exposes the cached user immediately, and
// revalidates the token via the current-user endpoint. Any failure, whether a
// 401, a network error, or a malformed body, clears the stored session and
// collapses to unauthenticated. A stale token is never retried.
func (s *SessionService) Restore(ctx context.Context) bool {
	if !s.store.restoreLocal(ctx) {
		return false
	}

	user, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session revalidation failed, logging out")
		s.store.clear(ctx)
		return false
	}

	s.store.confirm(*user)
	s.log.Info().Str("email", user.Email).Msg("session restored")
	return true
}

// Logout discards the session locally. The backend keeps no session state to
// invalidate.
func (s *SessionService) Logout(ctx context.Context) {
	s.store.clear(ctx)
	s.log.Info().Msg("logged out")
}

// Current returns the user attached to the session, if any.
func (s *SessionService) Current() (domain.User, bool) {
	return s.store.Current()
}
