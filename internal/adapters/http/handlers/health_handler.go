package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler returns a HealthHandler probing registry on readiness.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// checkStatus is one dependency in the readiness body.
type checkStatus struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

// readiness is the readiness body.
type readiness struct {
	Status string                 `json:"status"`
	Checks map[string]checkStatus `json:"checks"`
}

// Liveness handles GET /health/live. The process answering is enough.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready: 200 when the store and everything it
// depends on answers, 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	report := h.registry.Check(r.Context())

	body := readiness{Status: "ready", Checks: make(map[string]checkStatus, len(report.Checks))}
	for _, c := range report.Checks {
		s := checkStatus{Status: "ok", LatencyMS: c.Duration.Milliseconds()}
		if c.Err != nil {
			s.Status, s.Error = "failing", c.Err.Error()
		}
		body.Checks[c.Name] = s
	}

	code := http.StatusOK
	if !report.Healthy() {
		body.Status, code = "not_ready", http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, body)
}
