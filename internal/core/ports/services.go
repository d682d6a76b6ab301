package ports

import (
	"context"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
)

// SessionService owns the session lifecycle: login, registration, restore-and-
// revalidate on startup, and logout. It is the sole writer of session state.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	// Register creates the account and immediately logs in with the same
	// credentials.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Restore loads a persisted session and revalidates it against the
	// backend. Any validation failure clears the stored session and returns
	// false; there is no partially authenticated outcome.
	Restore(ctx context.Context) bool
	Logout(ctx context.Context)
	Current() (domain.User, bool)
}

// ConnectionService maintains the per-platform OAuth connection registry.
// All platform arguments and returned keys are UI-space.
type ConnectionService interface {
	// RefreshAll fetches every platform status and atomically replaces the
	// cached mapping. Requires an authenticated session.
	RefreshAll(ctx context.Context) (map[string]domain.PlatformConnection, error)
	Connections() map[string]domain.PlatformConnection
	Connected(uiKey string) bool
	// Connect returns the provider authorization URL for external navigation.
	Connect(ctx context.Context, uiKey string) (string, error)
	// ResumeAfterAuthorization is the re-entry point once the OAuth redirect
	// lands back on the console: immediate refresh, then bounded polling until
	// the platform reports connected or the poll window elapses.
	ResumeAfterAuthorization(ctx context.Context, uiKey string) error
	Disconnect(ctx context.Context, uiKey string) error
	// Profiles lists the linked social profiles as the backend records them.
	Profiles(ctx context.Context) ([]SocialProfileRecord, error)
	// LinkProfile manually records an externally managed profile.
	LinkProfile(ctx context.Context, input CreateSocialProfileInput) (*SocialProfileRecord, error)
}

// ComposerService validates, schedules, and submits post drafts.
type ComposerService interface {
	Submit(ctx context.Context, draft domain.PostDraft) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	PublishPost(ctx context.Context, id int64) (*domain.Post, error)
	// PublishAll publishes every pending post backend-side and reports only
	// the published count.
	PublishAll(ctx context.Context) (int, error)
	TimezoneLabel() string
}
