package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", "/api/companies", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/companies", 200, 20*time.Millisecond)
	m.ObserveRequest("DELETE", "/api/companies", 401, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/companies", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("DELETE", "/api/companies", "401")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestObserveGateDecision(t *testing.T) {
	m := New()

	m.ObserveGateDecision("redirect_login")
	m.ObserveGateDecision("redirect_login")
	m.ObserveGateDecision("allow")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues("redirect_login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues("allow")))
}

func TestSetStoreUp(t *testing.T) {
	m := New()

	m.SetStoreUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeUp))
	m.SetStoreUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.storeUp))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveGateDecision("allow")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `collectadmin_gate_decisions_total{action="allow"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
