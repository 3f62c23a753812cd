package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
	"stockdash.com/internal/config"
	"stockdash.com/internal/dto"
	"stockdash.com/internal/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const apiKeyHeader = "X-API-Key"

// symbolEndpoints answer 404 for an unknown symbol. Elsewhere a 404 means the
// endpoint itself is missing.
var symbolEndpoints = map[string]bool{
	"quote":   true,
	"history": true,
	"profile": true,
}

// Client talks to the upstream market-data HTTP API. Calls share one rate
// limiter and are retried with exponential backoff on 429, 5xx and transport
// errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	newBackOff func() backoff.BackOff
	metrics    *metrics.Metrics
}

func NewClient(cfg config.MarketConfig, m *metrics.Metrics) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: cfg.MaxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		metrics: m,
	}
}

type quotePayload struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	Currency      string  `json:"currency"`
	Timestamp     int64   `json:"timestamp"`
}

type searchPayload struct {
	Results []struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Exchange string `json:"exchange"`
		Type     string `json:"type"`
	} `json:"results"`
}

type historyPayload struct {
	Symbol  string `json:"symbol"`
	Candles []struct {
		T int64   `json:"t"`
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V int64   `json:"v"`
	} `json:"candles"`
}

type profilePayload struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Currency  string  `json:"currency"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"marketCap"`
	Website   string  `json:"website"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (*dto.Quote, error) {
	var payload quotePayload
	if err := c.get(ctx, "quote", url.Values{"symbol": {symbol}}, &payload); err != nil {
		return nil, err
	}
	if payload.Symbol == "" {
		return nil, ErrSymbolNotFound
	}

	ts := time.Now().UTC()
	if payload.Timestamp > 0 {
		ts = time.Unix(payload.Timestamp, 0).UTC()
	}

	return &dto.Quote{
		Symbol:        payload.Symbol,
		Price:         payload.Price,
		Change:        payload.Change,
		ChangePercent: payload.ChangePercent,
		Volume:        payload.Volume,
		Currency:      payload.Currency,
		Timestamp:     ts,
	}, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	var payload searchPayload
	if err := c.get(ctx, "search", url.Values{"q": {query}}, &payload); err != nil {
		return nil, err
	}

	results := make([]dto.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, dto.SearchResult{
			Symbol:   r.Symbol,
			Name:     r.Name,
			Exchange: r.Exchange,
			Type:     r.Type,
		})
	}
	return results, nil
}

func (c *Client) History(ctx context.Context, symbol, rng string) ([]dto.PricePoint, error) {
	var payload historyPayload
	if err := c.get(ctx, "history", url.Values{"symbol": {symbol}, "range": {rng}}, &payload); err != nil {
		return nil, err
	}

	points := make([]dto.PricePoint, 0, len(payload.Candles))
	for _, candle := range payload.Candles {
		points = append(points, dto.PricePoint{
			Time:   time.Unix(candle.T, 0).UTC(),
			Open:   candle.O,
			High:   candle.H,
			Low:    candle.L,
			Close:  candle.C,
			Volume: candle.V,
		})
	}
	return points, nil
}

func (c *Client) Profile(ctx context.Context, symbol string) (*dto.StockInfo, error) {
	var payload profilePayload
	if err := c.get(ctx, "profile", url.Values{"symbol": {symbol}}, &payload); err != nil {
		return nil, err
	}
	if payload.Symbol == "" {
		return nil, ErrSymbolNotFound
	}

	return &dto.StockInfo{
		Symbol:    payload.Symbol,
		Name:      payload.Name,
		Exchange:  payload.Exchange,
		Currency:  payload.Currency,
		Sector:    payload.Sector,
		Industry:  payload.Industry,
		MarketCap: payload.MarketCap,
		Website:   payload.Website,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)

	err := backoff.Retry(func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return c.do(ctx, endpoint, reqURL, out)
	}, b)

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrSymbolNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	c.metrics.IncUpstream(endpoint, outcome)

	if err != nil {
		return fmt.Errorf("market %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && symbolEndpoints[endpoint]:
		return backoff.Permanent(ErrSymbolNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return backoff.Permanent(&StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode %s response: %w", endpoint, err))
	}
	return nil
}
