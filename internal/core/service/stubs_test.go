package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

// stubRepo is an in-memory ports.SessionRepository.
type stubRepo struct {
	mu  sync.Mutex
	rec *ports.SessionRecord
}

func (r *stubRepo) Save(_ context.Context, rec ports.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := rec
	r.rec = &clone
	return nil
}

func (r *stubRepo) Load(_ context.Context) (*ports.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil, domain.ErrNoStoredSession
	}
	clone := *r.rec
	return &clone, nil
}

func (r *stubRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = nil
	return nil
}

// stubGateway implements ports.Gateway with overridable behaviour per method
// and a call log for asserting what crossed the boundary.
type stubGateway struct {
	mu    sync.Mutex
	calls []string

	registerFn    func(ports.RegisterInput) (*domain.User, error)
	loginFn       func(email, password string) (*ports.LoginResult, error)
	currentUserFn func() (*domain.User, error)
	statusesFn    func() (map[string]ports.ConnectionStatus, error)
	statusFn      func(platform string) (*ports.ConnectionStatus, error)
	authorizeFn   func(platform string) (string, error)
	disconnectFn  func(platform string) error
	createPostFn  func(ports.CreatePostInput) (*ports.PostRecord, error)
	listPostsFn   func() ([]ports.PostRecord, error)
	publishFn     func(id int64) (*ports.PostRecord, error)
	publishAllFn  func() ([]ports.PostRecord, error)
	profilesFn    func() ([]ports.SocialProfileRecord, error)
	linkFn        func(ports.CreateSocialProfileInput) (*ports.SocialProfileRecord, error)
}

var errStubUnexpected = errors.New("unexpected gateway call")

func (g *stubGateway) record(call string) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
}

func (g *stubGateway) callLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *stubGateway) callCount(prefix string) int {
	n := 0
	for _, c := range g.callLog() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (g *stubGateway) Register(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
	g.record("register:" + input.Email)
	if g.registerFn == nil {
		return nil, errStubUnexpected
	}
	return g.registerFn(input)
}

func (g *stubGateway) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	g.record("login:" + email)
	if g.loginFn == nil {
		return nil, errStubUnexpected
	}
	return g.loginFn(email, password)
}

func (g *stubGateway) CurrentUser(_ context.Context) (*domain.User, error) {
	g.record("current_user")
	if g.currentUserFn == nil {
		return nil, errStubUnexpected
	}
	return g.currentUserFn()
}

func (g *stubGateway) PlatformStatuses(_ context.Context) (map[string]ports.ConnectionStatus, error) {
	g.record("statuses")
	if g.statusesFn == nil {
		return nil, errStubUnexpected
	}
	return g.statusesFn()
}

func (g *stubGateway) PlatformStatus(_ context.Context, platform string) (*ports.ConnectionStatus, error) {
	g.record("status:" + platform)
	if g.statusFn == nil {
		return nil, errStubUnexpected
	}
	return g.statusFn(platform)
}

func (g *stubGateway) AuthorizeURL(_ context.Context, platform string) (string, error) {
	g.record("authorize:" + platform)
	if g.authorizeFn == nil {
		return "", errStubUnexpected
	}
	return g.authorizeFn(platform)
}

func (g *stubGateway) DisconnectPlatform(_ context.Context, platform string) error {
	g.record("disconnect:" + platform)
	if g.disconnectFn == nil {
		return errStubUnexpected
	}
	return g.disconnectFn(platform)
}

func (g *stubGateway) CreatePost(_ context.Context, input ports.CreatePostInput) (*ports.PostRecord, error) {
	g.record(fmt.Sprintf("create_post:%s", input.Platform))
	if g.createPostFn == nil {
		return nil, errStubUnexpected
	}
	return g.createPostFn(input)
}

func (g *stubGateway) ListPosts(_ context.Context) ([]ports.PostRecord, error) {
	g.record("list_posts")
	if g.listPostsFn == nil {
		return nil, errStubUnexpected
	}
	return g.listPostsFn()
}

func (g *stubGateway) PublishPost(_ context.Context, id int64) (*ports.PostRecord, error) {
	g.record(fmt.Sprintf("publish_post:%d", id))
	if g.publishFn == nil {
		return nil, errStubUnexpected
	}
	return g.publishFn(id)
}

func (g *stubGateway) PublishAll(_ context.Context) ([]ports.PostRecord, error) {
	g.record("publish_all")
	if g.publishAllFn == nil {
		return nil, errStubUnexpected
	}
	return g.publishAllFn()
}

func (g *stubGateway) ListSocialProfiles(_ context.Context) ([]ports.SocialProfileRecord, error) {
	g.record("list_profiles")
	if g.profilesFn == nil {
		return nil, errStubUnexpected
	}
	return g.profilesFn()
}

func (g *stubGateway) CreateSocialProfile(_ context.Context, input ports.CreateSocialProfileInput) (*ports.SocialProfileRecord, error) {
	g.record("create_profile:" + input.Platform)
	if g.linkFn == nil {
		return nil, errStubUnexpected
	}
	return g.linkFn(input)
}

var _ ports.Gateway = (*stubGateway)(nil)

// authenticatedStore returns a store already holding a validated session.
func authenticatedStore(repo ports.SessionRepository) *SessionStore {
	store := NewSessionStore(repo, zerolog.Nop())
	_ = store.persist(context.Background(), domain.AuthToken{Value: "tok", Type: "bearer"}, domain.User{
		ID:       1,
		Email:    "a@b.com",
		IsActive: true,
	})
	return store
}
