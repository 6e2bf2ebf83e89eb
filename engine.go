package authsvc

import (
	"strings"

	"github.com/campuscare/authsvc/jwt"
	"github.com/campuscare/authsvc/mailer"
	"github.com/campuscare/authsvc/password"
	"github.com/campuscare/authsvc/session"
)

// Engine is the authentication core. All flows (signup, password login,
// passcode verification, session authorization) run through one Engine
// instance.
//
// Engine instances are built once via [Builder] and treated as immutable
// afterwards. All methods are safe for concurrent use when the configured
// account store and mail sender are.
type Engine struct {
	config       Config
	accounts     AccountStore
	sessionStore *session.Store
	mail         mailer.Sender
	passwordHash *password.Hasher
	tokens       *jwt.Manager
	metrics      *Metrics
}

// Close releases engine resources. Currently a no-op kept for forward
// compatibility; callers should still defer it.
func (e *Engine) Close() {
	if e == nil {
		return
	}
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// normalizeEmail lowercases and trims an address so lookups and the
// uniqueness check agree on one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
