// Package health serves liveness, readiness and status probes built from component reports.
package health

import (
	"maps"
	"net/http"
	"sync"
	"time"

	"userdir/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
)

// Version is set at build time via ldflags.
var Version = "dev"

// State is the readiness of a single component.
type State string

const (
	StateUp State = "up"

	// StateDegraded components keep serving with reduced results and still count as ready.
	StateDegraded State = "degraded"

	StateDown State = "down"
)

// Report describes one component at probe time.
type Report struct {
	State  State      `json:"state"`
	Phase  string     `json:"phase,omitempty"`
	Detail string     `json:"detail,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
}

// Check produces the current report of a component.
type Check func() Report

// Handler provides health check endpoints.
type Handler struct {
	startTime   time.Time
	environment string

	mu     sync.RWMutex
	checks map[string]Check
}

// New creates a new health handler.
func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		checks:      make(map[string]Check),
	}
}

// RegisterCheck adds a named component to the readiness and status probes.
func (h *Handler) RegisterCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts health check routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// evaluate runs every check and returns the worst state seen.
func (h *Handler) evaluate() (State, map[string]Report) {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	overall := StateUp
	reports := make(map[string]Report, len(checks))
	for name, check := range checks {
		report := check()
		reports[name] = report
		switch report.State {
		case StateDown:
			overall = StateDown
		case StateDegraded:
			if overall == StateUp {
				overall = StateDegraded
			}
		}
	}
	return overall, reports
}

// LivenessResponse is the response for the liveness probe.
type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness always answers 200 while the process is running.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{
		Status: "alive",
	})
}

// ReadinessResponse is the response for the readiness probe.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]Report `json:"checks,omitempty"`
}

// HandleReadiness returns 503 while any component is down. Degraded components are
// reported but do not fail the probe.
func (h *Handler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	overall, reports := h.evaluate()

	switch overall {
	case StateDown:
		httputil.WriteJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Checks: reports})
	case StateDegraded:
		httputil.WriteJSON(w, http.StatusOK, ReadinessResponse{Status: "degraded", Checks: reports})
	default:
		httputil.WriteJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: reports})
	}
}

// StatusResponse is the response for the general health status endpoint.
type StatusResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Environment   string            `json:"environment"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Timestamp     string            `json:"timestamp"`
	Checks        map[string]Report `json:"checks,omitempty"`
}

// HandleStatus reports version, uptime and every component. It always answers 200.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	overall, reports := h.evaluate()

	status := "healthy"
	switch overall {
	case StateDown:
		status = "starting"
	case StateDegraded:
		status = "degraded"
	}

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        status,
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Checks:        reports,
	})
}
