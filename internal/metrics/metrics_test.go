package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.LeadSubmitted()
	m.LeadTransitioned("Pending", "Reached Out")
	m.ValidationFailed(map[string]string{"email": "required"})
}

func TestCounters(t *testing.T) {
	m := New()

	m.LeadSubmitted()
	m.LeadSubmitted()
	m.LeadTransitioned("Pending", "Reached Out")
	m.ValidationFailed(map[string]string{"email": "x", "resume": "y"})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.LeadsSubmittedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LeadTransitionsTotal.WithLabelValues("Pending", "Reached Out")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationFailuresTotal.WithLabelValues("resume")))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/leads/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/leads/42", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/leads/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "leadintake_http_requests_total"))
}
