package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MarketWatch scrapes the MarketWatch IPO calendar table. Column order:
// company, symbol, expected date, price range.
type MarketWatch struct {
	baseURL string
	client  *Client
}

// NewMarketWatch creates a MarketWatch discovery source.
func NewMarketWatch(baseURL string, client *Client) *MarketWatch {
	return &MarketWatch{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (m *MarketWatch) Name() string { return "marketwatch" }

// FetchUpcoming scrapes the IPO calendar page for upcoming listings.
func (m *MarketWatch) FetchUpcoming(ctx context.Context) ([]CalendarEntry, error) {
	body, status, err := m.client.Get(ctx, m.baseURL+"/tools/ipo-calendar", nil)
	if err != nil {
		return nil, fmt.Errorf("marketwatch fetch: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("marketwatch: status %d", status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("marketwatch parse: %w", err)
	}

	var entries []CalendarEntry
	doc.Find("table.table--primary tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		cols := row.Find("td")
		if cols.Length() < 4 {
			return
		}
		symbol := strings.ToUpper(strings.TrimSpace(cols.Eq(1).Text()))
		if symbol == "" {
			return
		}
		entries = append(entries, CalendarEntry{
			Symbol:       symbol,
			CompanyName:  strings.TrimSpace(cols.Eq(0).Text()),
			Section:      "upcoming",
			ExpectedDate: strings.TrimSpace(cols.Eq(2).Text()),
			PriceRange:   strings.TrimSpace(cols.Eq(3).Text()),
		})
	})

	return entries, nil
}
