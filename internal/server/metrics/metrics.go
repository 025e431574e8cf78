// Package metrics provides Prometheus instrumentation for the server: session
// verification outcomes and user-sync outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Session verification results.
const (
	SessionOK        = "ok"
	SessionAnonymous = "anonymous"
	SessionExpired   = "expired"
	SessionInvalid   = "invalid"
)

// User sync results.
const (
	SyncUnchanged = "unchanged"
	SyncUpserted  = "upserted"
	SyncError     = "error"
)

var (
	// SessionVerifications counts session cookie checks by result.
	SessionVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gameplay_session_verifications_total",
		Help: "Session cookie verifications by result",
	}, []string{"result"}) // result = "ok", "anonymous", "expired", "invalid"

	// UserSyncs counts writes of verified claims into the users table.
	UserSyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gameplay_user_syncs_total",
		Help: "User profile syncs by result",
	}, []string{"result"}) // result = "unchanged", "upserted", "error"
)

func init() {
	prometheus.MustRegister(
		SessionVerifications,
		UserSyncs,
	)

	// Export every series at 0 from process start.
	for _, r := range []string{SessionOK, SessionAnonymous, SessionExpired, SessionInvalid} {
		SessionVerifications.WithLabelValues(r)
	}
	for _, r := range []string{SyncUnchanged, SyncUpserted, SyncError} {
		UserSyncs.WithLabelValues(r)
	}
}

// Handler returns an HTTP handler that serves Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
