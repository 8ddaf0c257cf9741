package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ChatRequest(OutcomeSuccess)
	m.ChatRequest(OutcomeSuccess)
	m.ChatRequest(OutcomeQuotaExceeded)
	m.AnalyticsEvent("page_view", "queued")
	m.UpstreamDuration(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.chatRequests.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatRequests.WithLabelValues(OutcomeQuotaExceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyticsEvents.WithLabelValues("page_view", "queued")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ChatRequest(OutcomeSuccess)
	m.AnalyticsEvent("x", "y")
	m.UpstreamDuration(time.Second)
	m.GaugeFunc("g", "h", func() float64 { return 1 })
	assert.Nil(t, m.Registry())

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/assets/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/resume.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/assets/{name}", "404")))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "folio_http_requests_total")
}
