package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stockdash.com/internal/api/handler"
	"stockdash.com/internal/dto"
	"stockdash.com/internal/logger"
	"stockdash.com/internal/metrics"
	"stockdash.com/internal/service"
)

type stubMarketService struct {
	service.MarketService
	priceErr error
}

func (s *stubMarketService) GetCurrentPrice(ctx context.Context, symbol string) (*dto.Quote, error) {
	if s.priceErr != nil {
		return nil, s.priceErr
	}
	return &dto.Quote{Symbol: symbol, Price: 10}, nil
}

func (s *stubMarketService) GetTrackedSymbols(ctx context.Context) ([]string, error) {
	panic("tracked symbols exploded")
}

func newTestRouter(t *testing.T, development bool, svc service.MarketService) (*gin.Engine, *test.Hook, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base, hook := test.NewNullLogger()
	m := metrics.New()

	r := New(Options{
		Development: development,
		Logger:      logger.FromLogrus(base),
		Metrics:     m,
	}, Handlers{
		Market:  handler.NewMarketHandler(svc),
		Metrics: handler.NewMetricsHandler(m),
	})
	return r, hook, m
}

func countErrorEntries(hook *test.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "Operation failed" {
			n++
		}
	}
	return n
}

func TestRouter_Ping(t *testing.T) {
	r, _, _ := newTestRouter(t, false, &stubMarketService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	r, _, _ := newTestRouter(t, false, &stubMarketService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market/price/AAPL", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"symbol":"AAPL"`)
}

func TestRouter_ErrorEnvelopeByEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		want        string
	}{
		{name: "development", development: true, want: `{"success":false,"error":"DB timeout"}`},
		{name: "production", development: false, want: `{"success":false,"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, hook, _ := newTestRouter(t, tt.development, &stubMarketService{priceErr: errors.New("DB timeout")})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market/price/AAPL", nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			assert.Equal(t, 1, countErrorEntries(hook))
		})
	}
}

func TestRouter_PanicBecomesEnvelope(t *testing.T) {
	r, hook, _ := newTestRouter(t, false, &stubMarketService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market/tracked", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
	assert.Equal(t, 1, countErrorEntries(hook))
}

func TestRouter_NotFound(t *testing.T) {
	r, hook, _ := newTestRouter(t, false, &stubMarketService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown/path?x=1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Route /unknown/path not found"}`, w.Body.String())

	var requestEntry *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Data["status"] == http.StatusNotFound {
			requestEntry = e
		}
	}
	require.NotNil(t, requestEntry, "request logger should record the 404")
	assert.Equal(t, logrus.WarnLevel, requestEntry.Level)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(w.Body.String(), `stockdash_api_errors_total{kind="not_found"} 1`), w.Body.String())
}

func TestRouter_HealthOptional(t *testing.T) {
	r, _, _ := newTestRouter(t, false, &stubMarketService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
