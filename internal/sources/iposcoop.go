package sources

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IPOScoop scrapes the IPOScoop calendar page. The table layout drifts, so
// rows are matched by pattern rather than fixed column positions.
type IPOScoop struct {
	baseURL string
	client  *Client
}

// NewIPOScoop creates an IPOScoop discovery source.
func NewIPOScoop(baseURL string, client *Client) *IPOScoop {
	return &IPOScoop{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *IPOScoop) Name() string { return "iposcoop" }

var (
	tickerPattern = regexp.MustCompile(`\b([A-Z]{2,5})\b`)
	datePattern   = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	pricePattern  = regexp.MustCompile(`\$[\d.]+-\$?[\d.]+|\$[\d.]+`)
)

// FetchUpcoming scrapes the calendar page for upcoming listings.
func (s *IPOScoop) FetchUpcoming(ctx context.Context) ([]CalendarEntry, error) {
	body, status, err := s.client.Get(ctx, s.baseURL+"/ipo-calendar/", nil)
	if err != nil {
		return nil, fmt.Errorf("iposcoop fetch: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("iposcoop: status %d", status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("iposcoop parse: %w", err)
	}

	var entries []CalendarEntry
	seen := make(map[string]bool)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 3 {
			return
		}

		text := strings.Join(strings.Fields(row.Text()), " ")
		company := strings.TrimSpace(cols.First().Text())

		// The ticker is the first short all-caps token that is not part of
		// the company name.
		symbol := ""
		for _, m := range tickerPattern.FindAllString(text, -1) {
			if !strings.Contains(strings.ToUpper(company), m) || len(company) <= 5 {
				symbol = m
				break
			}
		}
		if symbol == "" || seen[symbol] {
			return
		}
		seen[symbol] = true

		entries = append(entries, CalendarEntry{
			Symbol:       symbol,
			CompanyName:  company,
			Section:      "upcoming",
			ExpectedDate: datePattern.FindString(text),
			PriceRange:   pricePattern.FindString(text),
		})
	})

	return entries, nil
}
