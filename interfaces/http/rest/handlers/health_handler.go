package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"statdash/pkg/common"
)

const readinessTimeout = 5 * time.Second

// ConnectionTester probes the Capacities API
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

// HealthHandler serves the service info and probe endpoints
type HealthHandler struct {
	tester  ConnectionTester
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tester ConnectionTester, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		tester:  tester,
		version: version,
		logger:  logger,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	common.RespondRaw(w, http.StatusOK, map[string]interface{}{
		"message": "Capacities statistics dashboard API",
		"version": h.version,
		"endpoints": map[string]string{
			"dashboard": "/api/dashboard",
			"health":    "/health",
			"ready":     "/ready",
			"docs":      "https://docs.capacities.io/developer/api",
		},
		"timestamp": now(),
	})
}

// Health handles GET /health. It never touches the Capacities API.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondRaw(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"service":   "Capacities Dashboard API",
		"timestamp": now(),
	})
}

// Ready handles GET /ready by probing the Capacities API
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.tester.TestConnection(ctx); err != nil {
		h.logger.Warn("Readiness probe failed", zap.Error(err))
		common.RespondRaw(w, http.StatusServiceUnavailable, map[string]string{
			"status":    "unavailable",
			"error":     err.Error(),
			"timestamp": now(),
		})
		return
	}

	common.RespondRaw(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"timestamp": now(),
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
