package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
	"github.com/lbmarketing/marketing-console/internal/metrics"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 20 * time.Second
)

// ConnectionOptions tunes the post-redirect status polling. The poll window is
// a mitigation for backend-side eventual consistency, not a correctness
// guarantee, so both knobs are injectable for tests.
type ConnectionOptions struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// ConnectionService caches per-platform OAuth connection state and drives the
// connect, resume, and disconnect flows. The cached mapping is keyed by
// UI-space platform identifiers and is only ever replaced wholesale.
type ConnectionService struct {
	gateway ports.Gateway
	session ports.SessionView
	log     zerolog.Logger
	opts    ConnectionOptions

	mu    sync.RWMutex
	conns map[string]domain.PlatformConnection

	busyMu sync.Mutex
	busy   map[string]bool
}

func NewConnectionService(gateway ports.Gateway, session ports.SessionView, log zerolog.Logger, opts ConnectionOptions) *ConnectionService {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	return &ConnectionService{
		gateway: gateway,
		session: session,
		log:     log,
		opts:    opts,
		conns:   make(map[string]domain.PlatformConnection),
		busy:    make(map[string]bool),
	}
}

// RefreshAll fetches the full status map, translates every key to UI space,
// and replaces the cached mapping atomically. A platform missing from the
// response does not linger from a previous refresh. Anonymous sessions never
// hit the network.
func (s *ConnectionService) RefreshAll(ctx context.Context) (map[string]domain.PlatformConnection, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNoSession
	}

	statuses, err := s.gateway.PlatformStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh connection statuses: %w", err)
	}

	next := make(map[string]domain.PlatformConnection, len(statuses))
	for backendKey, st := range statuses {
		uiKey := domain.ToUIPlatform(backendKey)
		next[uiKey] = domain.PlatformConnection{
			Platform:  uiKey,
			Connected: st.Connected,
			Handle:    st.Handle,
		}
	}

	s.mu.Lock()
	s.conns = next
	s.mu.Unlock()

	return s.Connections(), nil
}

// Connections returns a copy of the cached mapping.
func (s *ConnectionService) Connections() map[string]domain.PlatformConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.PlatformConnection, len(s.conns))
	for k, v := range s.conns {
		out[k] = v
	}
	return out
}

// Connected reports the cached connection flag for a UI-space platform key.
func (s *ConnectionService) Connected(uiKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[uiKey].Connected
}

// Connect resolves the platform to its backend identifier and requests the
// provider authorization URL. The OAuth exchange itself happens entirely
// outside this process; the caller navigates to the returned URL and control
// comes back through ResumeAfterAuthorization.
func (s *ConnectionService) Connect(ctx context.Context, uiKey string) (string, error) {
	if !s.session.IsAuthenticated() {
		return "", domain.ErrNoSession
	}
	if !s.acquire("connect:" + uiKey) {
		return "", domain.ErrBusy
	}
	defer s.release("connect:" + uiKey)

	authURL, err := s.gateway.AuthorizeURL(ctx, domain.ToBackendPlatform(uiKey))
	if err != nil {
		return "", fmt.Errorf("request authorization url for %s: %w", uiKey, err)
	}

	s.log.Info().Str("platform", uiKey).Msg("authorization initiated")
	return authURL, nil
}

// ResumeAfterAuthorization re-learns connection state after the OAuth redirect
// lands back on the console. The backend's token persistence may not be
// visible immediately, so after the initial refresh the single-platform status
// endpoint is polled at PollInterval until uiKey reports connected or
// PollTimeout elapses; a final full refresh then folds the result into the
// registry. With an empty uiKey only the initial refresh runs.
func (s *ConnectionService) ResumeAfterAuthorization(ctx context.Context, uiKey string) error {
	if _, err := s.RefreshAll(ctx); err != nil {
		// Best-effort: a failed status check must not block the workflow.
		s.log.Warn().Err(err).Msg("post-redirect refresh failed")
	}

	if uiKey == "" || s.Connected(uiKey) {
		return nil
	}

	backendKey := domain.ToBackendPlatform(uiKey)
	deadline := time.NewTimer(s.opts.PollTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(s.opts.PollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			metrics.OAuthRechecksTotal.WithLabelValues(uiKey, "pending").Inc()
			return fmt.Errorf("%w: %s", domain.ErrConnectionPending, uiKey)
		case <-tick.C:
			st, err := s.gateway.PlatformStatus(ctx, backendKey)
			if err != nil {
				metrics.OAuthRechecksTotal.WithLabelValues(uiKey, "error").Inc()
				continue
			}
			if st.Connected {
				metrics.OAuthRechecksTotal.WithLabelValues(uiKey, "connected").Inc()
				if _, err := s.RefreshAll(ctx); err != nil {
					s.log.Warn().Err(err).Str("platform", uiKey).Msg("refresh after connect failed")
				}
				s.log.Info().Str("platform", uiKey).Msg("platform connected")
				return nil
			}
			metrics.OAuthRechecksTotal.WithLabelValues(uiKey, "pending").Inc()
		}
	}
}

// Disconnect revokes the platform connection backend-side. On success the
// registry is refreshed; on failure the cached state is left untouched and the
// error is returned to the caller.
func (s *ConnectionService) Disconnect(ctx context.Context, uiKey string) error {
	if !s.session.IsAuthenticated() {
		return domain.ErrNoSession
	}
	if !s.acquire("disconnect:" + uiKey) {
		return domain.ErrBusy
	}
	defer s.release("disconnect:" + uiKey)

	if err := s.gateway.DisconnectPlatform(ctx, domain.ToBackendPlatform(uiKey)); err != nil {
		return fmt.Errorf("disconnect %s: %w", uiKey, err)
	}

	if _, err := s.RefreshAll(ctx); err != nil {
		s.log.Warn().Err(err).Str("platform", uiKey).Msg("refresh after disconnect failed")
	}

	s.log.Info().Str("platform", uiKey).Msg("platform disconnected")
	return nil
}

// Profiles lists the linked social profiles backend-side. Platform keys in
// the returned records are backend-space; display code translates them.
func (s *ConnectionService) Profiles(ctx context.Context) ([]ports.SocialProfileRecord, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNoSession
	}
	return s.gateway.ListSocialProfiles(ctx)
}

// LinkProfile manually records an externally managed profile, for platforms
// whose OAuth flow the backend has not implemented yet.
func (s *ConnectionService) LinkProfile(ctx context.Context, input ports.CreateSocialProfileInput) (*ports.SocialProfileRecord, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNoSession
	}
	input.Platform = domain.ToBackendPlatform(input.Platform)

	rec, err := s.gateway.CreateSocialProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.RefreshAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh after profile link failed")
	}
	return rec, nil
}

func (s *ConnectionService) acquire(action string) bool {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if s.busy[action] {
		return false
	}
	s.busy[action] = true
	return true
}

func (s *ConnectionService) release(action string) {
	s.busyMu.Lock()
	delete(s.busy, action)
	s.busyMu.Unlock()
}
