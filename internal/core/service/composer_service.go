package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
	"github.com/lbmarketing/marketing-console/internal/metrics"
)

// ComposerService validates drafts, resolves scheduling to absolute instants,
// and submits posts through the gateway. The server is authoritative for
// business, campaign, and media linkage; the only client-side validation is
// non-empty content.
type ComposerService struct {
	gateway    ports.Gateway
	log        zerolog.Logger
	businessID int64
	now        func() time.Time

	busyMu sync.Mutex
	busy   map[string]bool
}

// NewComposerService builds a composer. now is the submit-time clock; pass
// time.Now outside tests.
func NewComposerService(gateway ports.Gateway, log zerolog.Logger, businessID int64, now func() time.Time) *ComposerService {
	if now == nil {
		now = time.Now
	}
	return &ComposerService{
		gateway:    gateway,
		log:        log,
		businessID: businessID,
		now:        now,
		busy:       make(map[string]bool),
	}
}

// Submit validates the draft and creates the post backend-side.
//
// Scheduling semantics: an enabled schedule carries the user's local
// wall-clock choice and is converted to UTC here; a disabled schedule means
// immediate dispatch, expressed as "now" captured at submit time. Either way
// the wire carries a single absolute instant.
func (s *ComposerService) Submit(ctx context.Context, draft domain.PostDraft) (*domain.Post, error) {
	content := strings.TrimSpace(draft.Content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	busyKey := "submit:" + draft.Platform
	if !s.acquire(busyKey) {
		return nil, domain.ErrBusy
	}
	defer s.release(busyKey)

	var scheduledAt time.Time
	if draft.ScheduleEnabled && !draft.ScheduledAt.IsZero() {
		scheduledAt = draft.ScheduledAt.UTC()
	} else {
		scheduledAt = s.now().UTC()
	}

	rec, err := s.gateway.CreatePost(ctx, ports.CreatePostInput{
		BusinessID:   s.businessID,
		Platform:     domain.ToBackendPlatform(draft.Platform),
		Content:      content,
		ScheduledAt:  scheduledAt,
		CampaignID:   draft.CampaignID,
		MediaAssetID: draft.MediaAssetID,
	})
	if err != nil {
		return nil, err
	}

	post := toDisplayPost(rec)
	// The server's content wins when present; the draft's trimmed content is
	// the fallback for sparse responses.
	if post.Content == "" {
		post.Content = content
	}

	metrics.PostsSubmittedTotal.WithLabelValues(post.Platform).Inc()
	s.log.Info().
		Str("platform", post.Platform).
		Time("scheduled_at", post.ScheduledAt).
		Msg("post submitted")

	return post, nil
}

// ListPosts returns every scheduled post known to the backend, mapped for
// display.
func (s *ComposerService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	recs, err := s.gateway.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, len(recs))
	for i := range recs {
		posts[i] = *toDisplayPost(&recs[i])
	}
	return posts, nil
}

// PublishPost publishes a single post by id.
func (s *ComposerService) PublishPost(ctx context.Context, id int64) (*domain.Post, error) {
	rec, err := s.gateway.PublishPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDisplayPost(rec), nil
}

// PublishAll asks the backend to publish every pending scheduled post and
// reports only the count. The result is not reconciled against any local
// list: published posts are not necessarily ones created in this session.
func (s *ComposerService) PublishAll(ctx context.Context) (int, error) {
	if !s.acquire("publish_all") {
		return 0, domain.ErrBusy
	}
	defer s.release("publish_all")

	published, err := s.gateway.PublishAll(ctx)
	if err != nil {
		return 0, err
	}

	s.log.Info().Int("count", len(published)).Msg("publish all completed")
	return len(published), nil
}

// TimezoneLabel is the informational label shown next to the schedule input:
// the runtime's resolved timezone name, or a generic placeholder when the
// runtime cannot name it.
func (s *ComposerService) TimezoneLabel() string {
	name := s.now().Location().String()
	if name == "" || name == "Local" {
		return "local time"
	}
	return name
}

// toDisplayPost maps a wire record into the display shape: platform back to
// UI space, schedule flag derived from the presence of a scheduled instant.
func toDisplayPost(rec *ports.PostRecord) *domain.Post {
	return &domain.Post{
		ID:          rec.ID,
		Platform:    domain.ToUIPlatform(rec.Platform),
		Content:     rec.Content,
		ScheduledAt: rec.ScheduledAt,
		Scheduled:   !rec.ScheduledAt.IsZero(),
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
	}
}

func (s *ComposerService) acquire(action string) bool {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if s.busy[action] {
		return false
	}
	s.busy[action] = true
	return true
}

func (s *ComposerService) release(action string) {
	s.busyMu.Lock()
	delete(s.busy, action)
	s.busyMu.Unlock()
}
