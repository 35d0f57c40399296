package telemetry_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocery/admin/internal/infrastructure/telemetry"
)

func TestMetrics_ObserveAndExpose(t *testing.T) {
	m := telemetry.NewMetrics()

	m.ObserveUpstream(http.MethodGet, "/products", 200, 20*time.Millisecond)
	m.ObserveUpstream(http.MethodGet, "/products", 0, time.Second)
	m.ObserveLoad("products", "succeeded", 30*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/v1/products", 200, 40*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "", 404, time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(),
		"grocery_admin_upstream_requests_total",
		"grocery_admin_state_loads_total",
		"grocery_admin_http_requests_total",
	)
	require.NoError(t, err)
	// two upstream status series, one load series, two http series
	assert.Equal(t, 5, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `grocery_admin_upstream_requests_total{method="GET",route="/products",status="error"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.Contains(t, body, "go_goroutines")
}
