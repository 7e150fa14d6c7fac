// Package metrics defines all custom Prometheus metrics for the admin
// backend. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh attempts.
// Label:
//   - result: "success", "invalid_token", or "error"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// TokenRevocationsTotal counts refresh-token revocations (logout + rotation).
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of refresh tokens placed on the revocation list.",
	},
)

// RateLimitedTotal counts requests rejected by the admission-control layer.
// Label:
//   - route: the rate-limited route (e.g. "/api/login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by route.",
	},
	[]string{"route"},
)

// AuditEventsTotal counts audit events flowing through the dispatcher.
// Labels:
//   - module: USER, ROLE, MENU, AUTH
//   - outcome: "queued", "dropped", or "failed"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by module and dispatch outcome.",
	},
	[]string{"module", "outcome"},
)
