package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Calendar sections in the order they are searched.
var calendarSections = []string{"upcoming", "priced", "filed"}

// NasdaqCalendar fetches the NASDAQ IPO calendar. One HTTP call fetches all
// sections; FetchAll exposes the whole calendar for the upcoming-IPO and
// discovery flows.
type NasdaqCalendar struct {
	baseURL string
	client  *Client
}

// NewNasdaqCalendar creates a NASDAQ IPO calendar source.
func NewNasdaqCalendar(baseURL string, client *Client) *NasdaqCalendar {
	return &NasdaqCalendar{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (n *NasdaqCalendar) Name() string { return "nasdaq" }

type nasdaqRow struct {
	ProposedTickerSymbol string `json:"proposedTickerSymbol"`
	CompanyName          string `json:"companyName"`
	ExpectedPriceDate    string `json:"expectedPriceDate"`
	PricedDate           string `json:"pricedDate"`
	ProposedSharePrice   string `json:"proposedSharePrice"`
	SharesOffered        string `json:"sharesOffered"`
}

type nasdaqCalendarResponse struct {
	Data map[string]struct {
		Rows []nasdaqRow `json:"rows"`
	} `json:"data"`
}

// Fetch looks symbol up across the calendar sections in order and returns
// the first hit as a calendar entry.
func (n *NasdaqCalendar) Fetch(ctx context.Context, symbol string) (*Result, error) {
	entries, err := n.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := entries[strings.ToUpper(symbol)]
	if !ok {
		return nil, ErrNotFound
	}
	return &Result{Calendar: &entry}, nil
}

// FetchAll returns the full calendar keyed by uppercase symbol. When a
// symbol appears in more than one section the earliest-searched section
// wins, matching the per-symbol Fetch order.
func (n *NasdaqCalendar) FetchAll(ctx context.Context) (map[string]CalendarEntry, error) {
	u := n.baseURL + "/api/ipo/calendar"

	body, status, err := n.client.Get(ctx, u, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("nasdaq fetch: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("nasdaq: status %d", status)
	}

	var resp nasdaqCalendarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("nasdaq decode: %w", err)
	}

	entries := make(map[string]CalendarEntry)
	for _, section := range calendarSections {
		sec, ok := resp.Data[section]
		if !ok {
			continue
		}
		for _, row := range sec.Rows {
			symbol := strings.ToUpper(strings.TrimSpace(row.ProposedTickerSymbol))
			if symbol == "" {
				continue
			}
			if _, seen := entries[symbol]; seen {
				continue
			}
			date := row.ExpectedPriceDate
			if date == "" {
				date = row.PricedDate
			}
			entries[symbol] = CalendarEntry{
				Symbol:       symbol,
				CompanyName:  strings.TrimSpace(row.CompanyName),
				Section:      section,
				ExpectedDate: date,
				PriceRange:   row.ProposedSharePrice,
				Shares:       row.SharesOffered,
				Exchange:     "NASDAQ",
			}
		}
	}
	return entries, nil
}
