package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dersplan/timetable-api/pkg/metrics"
)

// HealthHandler exposes liveness/readiness and Prometheus scrape endpoints.
type HealthHandler struct {
	metrics *metrics.Service
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(m *metrics.Service) *HealthHandler {
	return &HealthHandler{metrics: m}
}

// Health responds OK once the process is up; the server only starts serving
// once its Postgres/Redis dependencies have been dialed, so liveness and
// readiness share one response.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Prometheus serves the metrics scrape endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
