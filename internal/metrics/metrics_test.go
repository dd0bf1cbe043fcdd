package metrics_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/metrics"
)

func TestInstrumentTransport_CountsByMethodAndCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := metrics.New()
	client := &http.Client{Transport: m.InstrumentTransport(nil)}

	for _, method := range []string{http.MethodGet, http.MethodGet, http.MethodDelete} {
		req, err := http.NewRequest(method, srv.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.RequestsTotal.WithLabelValues("get", "200")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RequestsTotal.WithLabelValues("delete", "404")))
	assert.Equal(t, 2, promtestutil.CollectAndCount(m.RequestDuration))
}

func TestWriteText(t *testing.T) {
	m := metrics.New()
	m.RequestsTotal.WithLabelValues("get", "200").Inc()

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	assert.Contains(t, buf.String(), "# TYPE taskdash_http_requests_total counter")
	assert.Contains(t, buf.String(), `taskdash_http_requests_total{code="200",method="get"} 1`)
}
