package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordsRequestsAndAuthFailures(t *testing.T) {
	t.Parallel()

	m := New("shop")
	done := m.StartRequest()
	require.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	done()
	require.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	m.ObserveRequest(http.MethodGet, "/api/v1/products", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/products", http.StatusOK, 10*time.Millisecond)
	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/v1/products", "200")))

	m.AuthFailure("blacklisted")
	require.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("blacklisted")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	m := New("shop")
	m.AuthFailure("invalid_token")
	m.GaugeFunc("events_dropped", "Dropped events", func() float64 { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(body), `shop_auth_failures_total{reason="invalid_token"} 1`)
	require.Contains(t, string(body), "shop_events_dropped 3")
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.StartRequest()()
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.AuthFailure("x")
	m.GaugeFunc("x", "x", func() float64 { return 0 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
