package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DatabaseChecker reports database connectivity.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker reports cache connectivity.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	startedAt time.Time
	database  DatabaseChecker
	cache     CacheChecker
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(database DatabaseChecker, cache CacheChecker) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now().UTC(),
		database:  database,
		cache:     cache,
	}
}

// Status reports liveness.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	})
}

// Ready pings downstream dependencies and reports per-check results.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ready"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, ReadyResponse{Status: status, Checks: checks})
}
