package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "workpro")

	m.ObserveRequest("GET", 200, time.Now())
	m.ObserveRequest("GET", 401, time.Now())
	m.ObserveRequest("GET", 200, time.Now())
	m.ObserveRefresh(RefreshSuccess)
	m.ObserveRetry()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(RefreshSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retries))

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "workpro_auth_token_refreshes_total")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", 200, time.Now())
		m.ObserveRefresh(RefreshFailure)
		m.ObserveRetry()
	})
}
