package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the backend root; a trailing slash is tolerated.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:8000"`
	Env        string `env:"ENV,          default=development"`
	LogLevel   string `env:"LOG_LEVEL,    default=info"`

	// DefaultBusinessID is attached to every scheduled post. The backend
	// validates it and is authoritative.
	DefaultBusinessID int64         `env:"DEFAULT_BUSINESS_ID, default=1"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT,     default=15s"`

	Session  SessionConfig
	OAuth    OAuthConfig
	Callback CallbackConfig
}

// SessionConfig selects and configures the durable session store.
type SessionConfig struct {
	// Backend is "file" or "redis".
	Backend string `env:"STATE_BACKEND, default=file"`
	// Dir is the state directory for the file backend.
	Dir string `env:"STATE_DIR, default=.marketing-console"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// OAuthConfig tunes the post-redirect connection status polling.
type OAuthConfig struct {
	PollInterval time.Duration `env:"OAUTH_POLL_INTERVAL, default=2s"`
	PollTimeout  time.Duration `env:"OAUTH_POLL_TIMEOUT,  default=20s"`
}

// CallbackConfig configures the loopback listener that receives the OAuth
// redirect-back and serves metrics.
type CallbackConfig struct {
	Addr string `env:"CALLBACK_ADDR, default=127.0.0.1:8765"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
