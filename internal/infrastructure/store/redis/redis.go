// Package redis implements the session repository on Redis, for setups where
// the console state should survive the local filesystem (containers, shared
// workstations).
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// The two fixed session keys.
const (
	tokenKey = "marketing_console:auth_token"
	userKey  = "marketing_console:user_data"
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Save stores both keys in one round trip so a session is never half-written.
func (r *Repository) Save(ctx context.Context, rec ports.SessionRecord) error {
	tokenData, err := json.Marshal(rec.Token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	userData, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := r.client.MSet(ctx, tokenKey, tokenData, userKey, userData).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context) (*ports.SessionRecord, error) {
	vals, err := r.client.MGet(ctx, tokenKey, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	tokenData, ok := vals[0].(string)
	if !ok {
		return nil, domain.ErrNoStoredSession
	}
	userData, ok := vals[1].(string)
	if !ok {
		return nil, domain.ErrNoStoredSession
	}

	var rec ports.SessionRecord
	if err := json.Unmarshal([]byte(tokenData), &rec.Token); err != nil {
		return nil, domain.ErrNoStoredSession
	}
	if err := json.Unmarshal([]byte(userData), &rec.User); err != nil {
		return nil, domain.ErrNoStoredSession
	}
	if rec.Token.Zero() {
		return nil, domain.ErrNoStoredSession
	}
	return &rec, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, tokenKey, userKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
