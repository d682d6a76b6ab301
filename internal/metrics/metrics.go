// Package metrics defines and registers all custom Prometheus metrics for the
// marketing console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time; the callback
// listener exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketing_console"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// APIRequestsTotal counts outbound backend calls.
// Labels:
//   - operation: the gateway method (e.g. "login", "create_post")
//   - outcome: "ok", "client_error", "server_error", or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outbound backend requests, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// APIRequestDuration measures outbound call latency end-to-end.
// Label:
//   - operation: the gateway method
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of outbound backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Connection registry metrics ───────────────────────────────────────────────

// OAuthRechecksTotal counts post-redirect status polls.
// Labels:
//   - platform: UI-space platform key
//   - result: "connected", "pending", or "error"
var OAuthRechecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_rechecks_total",
		Help:      "Total number of connection status polls after an OAuth redirect.",
	},
	[]string{"platform", "result"},
)

// ── Composer metrics ──────────────────────────────────────────────────────────

// PostsSubmittedTotal counts drafts successfully submitted to the backend.
// Label:
//   - platform: UI-space platform key
var PostsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_submitted_total",
		Help:      "Total number of posts submitted, by platform.",
	},
	[]string{"platform"},
)
