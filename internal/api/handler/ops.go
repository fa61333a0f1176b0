package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aerogrid/aerogrid/internal/api/models"
	"github.com/aerogrid/aerogrid/internal/api/response"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	db Pinger
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(db Pinger) *OpsHandler {
	return &OpsHandler{db: db}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Not ready
// until the database answers a ping.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
				Status: "unavailable",
				Time:   time.Now().UTC(),
			})
			return
		}
	}
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}
