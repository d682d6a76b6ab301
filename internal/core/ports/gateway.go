package ports

import (
	"context"
	"time"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
)

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Email    string
	Password string
	FullName string // optional
}

// LoginResult is returned by a successful login call.
type LoginResult struct {
	Token domain.AuthToken
	User  domain.User
}

// ConnectionStatus is the per-platform connection state as reported by the
// backend. The platform key it is filed under is backend-space; translation
// to UI space is the registry's job.
type ConnectionStatus struct {
	Connected bool
	Handle    string
}

// CreatePostInput carries all data for scheduling a post. Platform is a
// backend-space key and ScheduledAt an absolute UTC instant; both conversions
// happen before this struct is built.
type CreatePostInput struct {
	BusinessID   int64
	Platform     string
	Content      string
	ScheduledAt  time.Time
	CampaignID   *int64
	MediaAssetID *int64
}

// PostRecord is the backend's view of a scheduled post.
type PostRecord struct {
	ID             int64
	BusinessID     int64
	CampaignID     *int64
	Platform       string // backend-space
	Content        string
	MediaAssetID   *int64
	ScheduledAt    time.Time
	Status         string
	ExternalPostID string
	CreatedAt      time.Time
}

// SocialProfileRecord is the backend's view of a linked social account.
type SocialProfileRecord struct {
	ID         int64
	UserID     int64
	BusinessID int64
	Platform   string // backend-space
	Handle     string
	ExternalID string
	Status     string
	CreatedAt  time.Time
}

// CreateSocialProfileInput carries the fields for manually linking a profile.
type CreateSocialProfileInput struct {
	UserID     int64
	BusinessID int64
	Platform   string // backend-space
	Handle     string
	ExternalID string
}

// Gateway is the single outbound channel to the backend. One method per REST
// operation; implementations attach the bearer token and resolve the base URL.
// All errors carry the raw server message when one is available, and 401
// responses satisfy errors.Is(err, domain.ErrUnauthorized).
type Gateway interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context) (*domain.User, error)

	// PlatformStatuses returns the full status map keyed by backend-space
	// platform identifiers.
	PlatformStatuses(ctx context.Context) (map[string]ConnectionStatus, error)
	PlatformStatus(ctx context.Context, platform string) (*ConnectionStatus, error)
	// AuthorizeURL asks the backend for the provider authorization URL instead
	// of a redirect (return_url=true). Navigation is the caller's concern.
	AuthorizeURL(ctx context.Context, platform string) (string, error)
	DisconnectPlatform(ctx context.Context, platform string) error

	CreatePost(ctx context.Context, input CreatePostInput) (*PostRecord, error)
	ListPosts(ctx context.Context) ([]PostRecord, error)
	PublishPost(ctx context.Context, id int64) (*PostRecord, error)
	// PublishAll publishes every pending scheduled post, unscoped, and returns
	// the published records.
	PublishAll(ctx context.Context) ([]PostRecord, error)

	ListSocialProfiles(ctx context.Context) ([]SocialProfileRecord, error)
	CreateSocialProfile(ctx context.Context, input CreateSocialProfileInput) (*SocialProfileRecord, error)
}
