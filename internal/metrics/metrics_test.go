package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/lists", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/lists", http.StatusOK, 20*time.Millisecond)
	m.ObserveCascade(nil)
	m.ObserveCascade(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/lists", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cascades.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cascades.WithLabelValues("error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskmanager_http_requests_total")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.ObserveCascade(nil)
	})
}
