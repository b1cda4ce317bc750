// Package metrics defines the custom Prometheus metrics for the connector
// API. It is the single source of truth for metric names, labels and help
// strings. All metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "connector"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register/login outcomes.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "invalid", "exists" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// TokensRejectedTotal counts requests turned away by the auth gate.
// Label:
//   - reason: "missing", "invalid" or "revoked"
var TokensRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_rejected_total",
		Help:      "Total number of requests rejected by token verification.",
	},
	[]string{"reason"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostsTotal counts post lifecycle events.
// Label:
//   - action: "created" or "deleted"
var PostsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_total",
		Help:      "Total number of posts created and deleted.",
	},
	[]string{"action"},
)

// ReactionsTotal counts applied reaction changes.
// Labels:
//   - kind: "like" or "dislike"
//   - action: "add" or "remove"
var ReactionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reactions_total",
		Help:      "Total number of likes and dislikes added or removed.",
	},
	[]string{"kind", "action"},
)

// ReactionConflictsTotal counts reaction requests rejected as duplicates or
// as removals of a reaction the user never made.
var ReactionConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reaction_conflicts_total",
		Help:      "Total number of rejected like/dislike requests.",
	},
	[]string{"kind", "action"},
)

// CommentsTotal counts comment lifecycle events.
// Label:
//   - action: "added" or "deleted"
var CommentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_total",
		Help:      "Total number of comments added and deleted.",
	},
	[]string{"action"},
)
