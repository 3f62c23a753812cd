package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/market/price/:symbol", http.StatusOK, 0.01)
	m.ObserveRequest(http.MethodGet, "/api/market/price/:symbol", http.StatusOK, 0.02)
	m.ObserveRequest(http.MethodGet, "/api/market/price/:symbol", http.StatusNotFound, 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/market/price/:symbol", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/market/price/:symbol", "4xx")))
}

func TestIncError(t *testing.T) {
	m := New()

	m.IncError(ErrorKindInternal)
	m.IncError(ErrorKindInternal)
	m.IncError(ErrorKindNotFound)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.errorsTotal.WithLabelValues(ErrorKindInternal)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errorsTotal.WithLabelValues(ErrorKindNotFound)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", 200, 0.1)
		m.IncError(ErrorKindPanic)
		m.IncUpstream("quote", "ok")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncUpstream("quote", "ok")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `stockdash_market_upstream_calls_total{endpoint="quote",outcome="ok"} 1`))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "2xx", statusLabel(204))
	assert.Equal(t, "3xx", statusLabel(301))
	assert.Equal(t, "4xx", statusLabel(404))
	assert.Equal(t, "5xx", statusLabel(500))
	assert.Equal(t, "1xx", statusLabel(0))
}
