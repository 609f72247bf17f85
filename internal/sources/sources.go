// Package sources contains the market data adapters. Each source implements
// the Source capability interface and fails independently: one source going
// down never blocks the others.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound reports that a source answered definitively but had no data
// for the symbol. It is a terminal default for the classifier, not a fault.
var ErrNotFound = errors.New("symbol not found")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Quote is a live tradable quote returned by a market data source.
type Quote struct {
	Symbol      string
	Price       float64
	CompanyName string
	Exchange    string
	Currency    string
}

// CalendarEntry is an IPO calendar row. Section is the calendar bucket the
// symbol was found in: "upcoming", "priced", or "filed". ExpectedDate is the
// raw date string as published by the source.
type CalendarEntry struct {
	Symbol       string
	CompanyName  string
	Section      string
	ExpectedDate string
	PriceRange   string
	Shares       string
	Exchange     string
}

// Result is the normalized outcome of one fetch: exactly one of Quote or
// Calendar is set.
type Result struct {
	Quote    *Quote
	Calendar *CalendarEntry
}

// Source fetches raw facts about one symbol from one external provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (*Result, error)
}

// ClientConfig tunes the shared HTTP client used by all sources.
type ClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryDelayBase    time.Duration
	RequestsPerSecond float64
}

// Client is a retrying, rate-limited HTTP client shared by the sources.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates the shared source HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
	}
}

// Get performs a GET with rate limiting and linear-backoff retry on network
// errors and 5xx responses. Non-5xx responses are returned to the caller,
// who owns status interpretation.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("User-Agent", userAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, fmt.Errorf("max retries exceeded: %w", lastErr)
}
