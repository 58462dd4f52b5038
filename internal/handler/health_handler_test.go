package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/pkg/metrics"
)

func TestHealthHandlerHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(metrics.New())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandlerPrometheusServesTextFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(metrics.New())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/metrics", nil)

	h.Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
