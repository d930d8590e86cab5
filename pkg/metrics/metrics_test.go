package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAPIMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)

	m.Observe("employees", http.MethodGet, OutcomeOK, 20*time.Millisecond)
	m.Observe("employees", http.MethodGet, OutcomeOK, 30*time.Millisecond)
	m.Observe("employees", http.MethodDelete, OutcomeUnsuccessful, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("employees", http.MethodGet, OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("employees", http.MethodDelete, OutcomeUnsuccessful)))
	require.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestAPIMetrics_NilIsNoop(t *testing.T) {
	var m *APIMetrics
	require.NotPanics(t, func() { m.Observe("jobs", http.MethodGet, OutcomeOK, time.Second) })
}

func TestPush(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	NewAPIMetrics(reg).Observe("jobs", http.MethodGet, OutcomeOK, time.Millisecond)

	require.NoError(t, Push(context.Background(), srv.URL, "hrconsole", reg))
	require.Equal(t, "/metrics/job/hrconsole", gotPath)

	require.NoError(t, Push(context.Background(), "", "hrconsole", reg))
}

func TestPrometheusController(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewAPIMetrics(reg).Observe("locations", http.MethodPut, OutcomeOK, time.Millisecond)

	c := NewPrometheusController("", reg)
	require.Equal(t, "/debug/prometheus", c.Key())
	r := mux.NewRouter()
	c.Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `hrconsole_api_requests_total{method="PUT",outcome="ok",resource="locations"} 1`))
}
