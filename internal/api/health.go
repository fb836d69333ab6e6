package api

import (
	"log/slog"
	"net/http"
)

// ReadinessChecker reports whether the query pipeline can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// health is a liveness probe for Docker/Kubernetes. Always 200.
func health(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}

// readiness reports 200 once the orchestrator is initialized, 503 before.
// A nil checker means the server was wired without a pipeline and is never
// ready.
func readiness(checker ReadinessChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if checker == nil || !checker.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "initializing"}, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
