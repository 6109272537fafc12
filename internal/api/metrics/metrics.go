// Package metrics defines the custom Prometheus collectors of the Haikudo
// backend. It is the single source of truth for metric names, labels and
// help strings.
//
// Collectors are registered with the default registry on package load.
// HTTP request metrics are produced separately by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "haikudo"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransactionsTotal counts finished session transactions.
// Label:
//   - outcome: "commit", "commit_failed", "rollback" or "panic"
var SessionTransactionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transactions_total",
		Help:      "Total number of session transactions, by outcome.",
	},
	[]string{"outcome"},
)

// SessionPoolExhaustedTotal counts sessions that could not acquire a
// connection before the acquire timeout.
var SessionPoolExhaustedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "pool_exhausted_total",
		Help:      "Total number of sessions rejected because the pool was exhausted.",
	},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users created.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// PostsCreatedTotal counts posts created.
// Label:
//   - state: "published" or "draft"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by publication state.",
	},
	[]string{"state"},
)

// ── Migration metrics ─────────────────────────────────────────────────────────

// MigrationsAppliedTotal counts migration steps applied.
// Label:
//   - direction: "up" or "down"
var MigrationsAppliedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "migrations_applied_total",
		Help:      "Total number of migration steps applied, by direction.",
	},
	[]string{"direction"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitFallbackTotal counts rate limit decisions taken by the in-memory
// limiter because the redis store failed.
var RateLimitFallbackTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "fallback_total",
		Help:      "Total number of rate limit decisions served by the in-memory fallback.",
	},
)
