package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// YahooQuote fetches live quotes from the Yahoo Finance chart API. It is the
// most authoritative source for tradeability: a non-null market price means
// the symbol is trading.
type YahooQuote struct {
	baseURL string
	client  *Client
}

// NewYahooQuote creates a Yahoo Finance quote source.
func NewYahooQuote(baseURL string, client *Client) *YahooQuote {
	return &YahooQuote{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (y *YahooQuote) Name() string { return "yahoo" }

// yahooChart is the subset of the chart API response the quote path needs.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ExchangeName       string   `json:"exchangeName"`
				ShortName          string   `json:"shortName"`
				LongName           string   `json:"longName"`
				Currency           string   `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns a live quote for symbol, ErrNotFound when Yahoo has no data
// or answers for a different ticker.
func (y *YahooQuote) Fetch(ctx context.Context, symbol string) (*Result, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		y.baseURL, url.PathEscape(symbol))

	body, status, err := y.client.Get(ctx, u, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if status == 404 {
		return nil, ErrNotFound
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if strings.Contains(chart.Chart.Error.Description, "No data found") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if status != 200 {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, ErrNotFound
	}

	meta := chart.Chart.Result[0].Meta

	// A quote answering for a different ticker must never be accepted.
	if !strings.EqualFold(meta.Symbol, symbol) {
		return nil, ErrNotFound
	}
	if meta.RegularMarketPrice == nil {
		return nil, ErrNotFound
	}

	name := meta.ShortName
	if name == "" {
		name = meta.LongName
	}
	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return &Result{Quote: &Quote{
		Symbol:      strings.ToUpper(meta.Symbol),
		Price:       *meta.RegularMarketPrice,
		CompanyName: name,
		Exchange:    meta.ExchangeName,
		Currency:    currency,
	}}, nil
}
