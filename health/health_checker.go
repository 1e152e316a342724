// Package health evaluates the bot's readiness for the /health endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/triskis777/ketaverso-bot/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	aliases   interfaces.AliasStore
	upstream  interfaces.UpstreamStatus
	startTime time.Time
	sessions  func() int
}

// NewHealthChecker creates a new health checker with injected dependencies.
// sessions may be nil when there is no interactive view store.
func NewHealthChecker(aliases interfaces.AliasStore, upstream interfaces.UpstreamStatus, sessions func() int) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		aliases:   aliases,
		upstream:  upstream,
		startTime: time.Now(),
		sessions:  sessions,
	}
}

// HealthCheck returns the health status, details and the HTTP status to answer with
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	aliasCount := h.aliases.Len()
	lastSuccess := h.upstream.LastSuccess()
	lastFailure := h.upstream.LastFailure()

	switch {
	case aliasCount == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	// the most recent upstream call failed
	case !lastFailure.IsZero() && lastFailure.After(lastSuccess):
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"aliases":             aliasCount,
		"known_substances":    len(h.aliases.KnownNames()),
		"last_upstream_ok":    formatTime(lastSuccess),
		"last_upstream_error": formatTime(lastFailure),
		"uptime_seconds":      int64(time.Since(h.startTime).Seconds()),
	}
	if h.sessions != nil {
		data["active_views"] = h.sessions()
	}

	return status, data, httpStatus
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Compile-time check
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)
