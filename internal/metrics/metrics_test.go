package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGathersSessionSeries(t *testing.T) {
	m := New()

	m.SessionOpsTotal.WithLabelValues("set_session", "ok").Inc()
	m.SessionOpsTotal.WithLabelValues("set_session", "error").Inc()
	m.SessionOpDuration.WithLabelValues("set_session").Observe(0.002)

	n, err := testutil.GatherAndCount(m.Registry(), "mercury_session_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected := `
# HELP mercury_session_store_operations_total Session adapter operations by result.
# TYPE mercury_session_store_operations_total counter
mercury_session_store_operations_total{operation="set_session",result="error"} 1
mercury_session_store_operations_total{operation="set_session",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"mercury_session_store_operations_total"))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.HTTPRequestsTotal.WithLabelValues("GET", "/", "200").Inc()

	n, err := testutil.GatherAndCount(b.Registry(), "mercury_http_requests_total")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/auth/me", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mercury_http_requests_total{method="GET",route="/api/auth/me",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
