package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

// staticTokens is a fixed token source; an empty value means anonymous.
type staticTokens struct {
	value string
}

func (s staticTokens) Token() (domain.AuthToken, bool) {
	if s.value == "" {
		return domain.AuthToken{}, false
	}
	return domain.AuthToken{Value: s.value, Type: "bearer"}, true
}

func newTestClient(baseURL, token string) *Client {
	return NewClient(Config{BaseURL: baseURL, Timeout: time.Second}, staticTokens{value: token}, zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestClientLoginSendsFormEncodedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "a@b.com" || r.PostForm.Get("password") != "pw" {
			t.Fatalf("form = %v", r.PostForm)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "tok-1",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 7, "email": "a@b.com", "is_active": true},
		})
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL, "").Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token.Value != "tok-1" || result.Token.Type != "bearer" {
		t.Fatalf("token = %+v", result.Token)
	}
	if result.User.ID != 7 || result.User.Email != "a@b.com" {
		t.Fatalf("user = %+v", result.User)
	}
}

func TestClientLoginRejectsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Login(context.Background(), "a@b.com", "pw")
	if err == nil || !strings.Contains(err.Error(), "malformed response") {
		t.Fatalf("Login() error = %v, want malformed response", err)
	}
}

func TestClientAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Fatalf("authorization = %q", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 7, "email": "a@b.com", "is_active": true})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, "tok-abc").CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
}

func TestClientOmitsAuthorizationWhenAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("authorization = %q, want empty", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 7, "email": "a@b.com"})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, "").CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Fatalf("path = %q, want /auth/me", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 7, "email": "a@b.com"})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL+"/", "tok").CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
}

func TestClientUnauthorizedMatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "tok-stale").CurrentUser(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("CurrentUser() error = %v, want ErrUnauthorized", err)
	}
	if !strings.Contains(err.Error(), "Not authenticated") {
		t.Fatalf("server detail missing from error: %v", err)
	}
}

func TestClientSurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"detail": "Invalid business_id"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "tok").CreatePost(context.Background(), ports.CreatePostInput{
		BusinessID: 99, Platform: "x", Content: "hello", ScheduledAt: time.Now().UTC(),
	})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("CreatePost() error = %v, want *StatusError", err)
	}
	if statusErr.Status != http.StatusBadRequest || statusErr.Message != "Invalid business_id" {
		t.Fatalf("status error = %+v", statusErr)
	}
}

func TestClientStatusTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "tok").ListPosts(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("ListPosts() error = %v, want *StatusError", err)
	}
	if statusErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("message = %q, want status text fallback", statusErr.Message)
	}
}

func TestClientAuthorizeURLRequestsReturnURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/x/authorize" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("return_url") != "true" {
			t.Fatalf("query = %q, want return_url=true", r.URL.RawQuery)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"authorization_url": "https://provider.example/authorize?state=abc",
		})
	}))
	defer srv.Close()

	authURL, err := newTestClient(srv.URL, "tok").AuthorizeURL(context.Background(), "x")
	if err != nil {
		t.Fatalf("AuthorizeURL() error = %v", err)
	}
	if authURL != "https://provider.example/authorize?state=abc" {
		t.Fatalf("AuthorizeURL() = %q", authURL)
	}
}

func TestClientPlatformStatusesDecodesMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/status" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"x":        map[string]any{"connected": true, "handle": "@brand"},
			"facebook": map[string]any{"connected": false},
		})
	}))
	defer srv.Close()

	statuses, err := newTestClient(srv.URL, "tok").PlatformStatuses(context.Background())
	if err != nil {
		t.Fatalf("PlatformStatuses() error = %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %v", statuses)
	}
	if st := statuses["x"]; !st.Connected || st.Handle != "@brand" {
		t.Fatalf("x status = %+v", st)
	}
	if st := statuses["facebook"]; st.Connected || st.Handle != "" {
		t.Fatalf("facebook status = %+v", st)
	}
}

func TestClientCreatePostWire(t *testing.T) {
	scheduled := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
	campaign := int64(4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["platform"] != "x" || body["content"] != "hello" {
			t.Fatalf("body = %v", body)
		}
		if body["business_id"] != float64(9) || body["campaign_id"] != float64(4) {
			t.Fatalf("body ids = %v", body)
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id": 42, "platform": "x", "content": "hello",
			"scheduled_at": scheduled.Format(time.RFC3339), "status": "scheduled",
		})
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL, "tok").CreatePost(context.Background(), ports.CreatePostInput{
		BusinessID:  9,
		Platform:    "x",
		Content:     "hello",
		ScheduledAt: scheduled,
		CampaignID:  &campaign,
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if rec.ID != 42 || rec.Platform != "x" || !rec.ScheduledAt.Equal(scheduled) {
		t.Fatalf("record = %+v", rec)
	}
}
