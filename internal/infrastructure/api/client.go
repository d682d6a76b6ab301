// Package api implements the outbound gateway to the marketing backend: one
// method per REST operation, bearer-token injection from the session's token
// source, and typed, validated request/response records at the boundary.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
	"github.com/lbmarketing/marketing-console/internal/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config captures the settings for the gateway client.
type Config struct {
	// BaseURL is the backend root. A trailing slash is tolerated and trimmed.
	BaseURL string
	Timeout time.Duration
}

// StatusError is a non-401 HTTP failure, carrying the raw server message when
// one was present in the response body.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
}

// Client is the ports.Gateway implementation.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   ports.TokenSource
	validate *validator.Validate
	log      zerolog.Logger
}

var _ ports.Gateway = (*Client)(nil)

func NewClient(cfg Config, tokens ports.TokenSource, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	req := registerRequest{Email: input.Email, Password: input.Password, FullName: input.FullName}

	var resp userResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if err := c.checkResponse("register", &resp); err != nil {
		return nil, err
	}

	user := toDomainUser(resp)
	return &user, nil
}

// Login posts form-encoded credentials, per the backend's OAuth2 password
// flow contract: the email travels in the "username" field.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp)
	if err != nil {
		return nil, err
	}
	if err := c.checkResponse("login", &resp); err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		Token: domain.AuthToken{Value: resp.AccessToken, Type: resp.TokenType},
		User:  toDomainUser(resp.User),
	}, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var resp userResponse
	if err := c.doJSON(ctx, "current_user", http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if err := c.checkResponse("current_user", &resp); err != nil {
		return nil, err
	}

	user := toDomainUser(resp)
	return &user, nil
}

// --- OAuth connections ---

func (c *Client) PlatformStatuses(ctx context.Context) (map[string]ports.ConnectionStatus, error) {
	var resp map[string]platformStatusResponse
	if err := c.doJSON(ctx, "platform_statuses", http.MethodGet, "/oauth/status", nil, &resp); err != nil {
		return nil, err
	}

	statuses := make(map[string]ports.ConnectionStatus, len(resp))
	for platform, st := range resp {
		statuses[platform] = toConnectionStatus(st)
	}
	return statuses, nil
}

func (c *Client) PlatformStatus(ctx context.Context, platform string) (*ports.ConnectionStatus, error) {
	var resp platformStatusResponse
	path := "/oauth/" + url.PathEscape(platform) + "/status"
	if err := c.doJSON(ctx, "platform_status", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	st := toConnectionStatus(resp)
	return &st, nil
}

func (c *Client) AuthorizeURL(ctx context.Context, platform string) (string, error) {
	var resp authorizeResponse
	path := "/oauth/" + url.PathEscape(platform) + "/authorize?return_url=true"
	if err := c.doJSON(ctx, "authorize_url", http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	if err := c.checkResponse("authorize_url", &resp); err != nil {
		return "", err
	}
	return resp.AuthorizationURL, nil
}

func (c *Client) DisconnectPlatform(ctx context.Context, platform string) error {
	var resp disconnectResponse
	path := "/oauth/" + url.PathEscape(platform) + "/disconnect"
	return c.doJSON(ctx, "disconnect_platform", http.MethodPost, path, nil, &resp)
}

// --- Posts ---

func (c *Client) CreatePost(ctx context.Context, input ports.CreatePostInput) (*ports.PostRecord, error) {
	var resp postResponse
	if err := c.doJSON(ctx, "create_post", http.MethodPost, "/posts", toCreatePostRequest(input), &resp); err != nil {
		return nil, err
	}
	if err := c.checkResponse("create_post", &resp); err != nil {
		return nil, err
	}

	rec := toPostRecord(resp)
	return &rec, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]ports.PostRecord, error) {
	var resp []postResponse
	if err := c.doJSON(ctx, "list_posts", http.MethodGet, "/posts", nil, &resp); err != nil {
		return nil, err
	}

	recs := make([]ports.PostRecord, len(resp))
	for i, p := range resp {
		recs[i] = toPostRecord(p)
	}
	return recs, nil
}

func (c *Client) PublishPost(ctx context.Context, id int64) (*ports.PostRecord, error) {
	var resp postResponse
	path := "/posts/" + strconv.FormatInt(id, 10) + "/publish"
	if err := c.doJSON(ctx, "publish_post", http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}

	rec := toPostRecord(resp)
	return &rec, nil
}

func (c *Client) PublishAll(ctx context.Context) ([]ports.PostRecord, error) {
	var resp []postResponse
	if err := c.doJSON(ctx, "publish_all", http.MethodPost, "/posts/publish", nil, &resp); err != nil {
		return nil, err
	}

	recs := make([]ports.PostRecord, len(resp))
	for i, p := range resp {
		recs[i] = toPostRecord(p)
	}
	return recs, nil
}

// --- Social profiles ---

func (c *Client) ListSocialProfiles(ctx context.Context) ([]ports.SocialProfileRecord, error) {
	var resp []socialProfileResponse
	if err := c.doJSON(ctx, "list_social_profiles", http.MethodGet, "/social-profiles", nil, &resp); err != nil {
		return nil, err
	}

	recs := make([]ports.SocialProfileRecord, len(resp))
	for i, p := range resp {
		recs[i] = toSocialProfileRecord(p)
	}
	return recs, nil
}

func (c *Client) CreateSocialProfile(ctx context.Context, input ports.CreateSocialProfileInput) (*ports.SocialProfileRecord, error) {
	var resp socialProfileResponse
	if err := c.doJSON(ctx, "create_social_profile", http.MethodPost, "/social-profiles", toCreateSocialProfileRequest(input), &resp); err != nil {
		return nil, err
	}
	if err := c.checkResponse("create_social_profile", &resp); err != nil {
		return nil, err
	}

	rec := toSocialProfileRecord(resp)
	return &rec, nil
}

// --- Transport plumbing ---

// doJSON marshals body (when non-nil) as JSON and delegates to do.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, contentType, reader, out)
}

// do performs one backend call: resolves the base URL, attaches the bearer
// token when a session exists, records metrics, and decodes the response
// into out. Responses with status >= 400 become typed errors carrying the
// server's message; 401 additionally matches domain.ErrUnauthorized.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	start := time.Now()
	outcome := "transport_error"
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(op, outcome).Inc()
		metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token.Value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode >= http.StatusInternalServerError {
			outcome = "server_error"
		} else {
			outcome = "client_error"
		}
		return c.statusError(op, resp.StatusCode, data)
	}

	outcome = "ok"
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// checkResponse runs boundary validation on a decoded struct so structurally
// broken server bodies surface as typed errors instead of zero values.
func (c *Client) checkResponse(op string, resp any) error {
	if err := c.validate.Struct(resp); err != nil {
		return fmt.Errorf("%s: malformed response: %w", op, err)
	}
	return nil
}

// statusError maps an HTTP failure to an error. The raw server message is
// preferred; the HTTP status text is the fallback.
func (c *Client) statusError(op string, status int, body []byte) error {
	msg := serverMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	if status == http.StatusUnauthorized {
		return fmt.Errorf("%s: %s: %w", op, msg, domain.ErrUnauthorized)
	}

	c.log.Debug().Str("operation", op).Int("status", status).Str("message", msg).Msg("backend call failed")
	return &StatusError{Op: op, Status: status, Message: msg}
}

// serverMessage extracts a human-readable message from an error body, if any.
func serverMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	switch d := env.Detail.(type) {
	case string:
		return d
	case nil:
		return ""
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
