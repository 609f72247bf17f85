// Package classifier reduces raw source results for a symbol into exactly
// one IPO status. It performs no I/O: sources are consulted through the
// capability interface and the reduction itself is pure.
package classifier

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/logger"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/sources"
)

// Classifier resolves a symbol's status by consulting sources in priority
// order. The first source with a definite answer wins outright; later
// sources are not consulted.
type Classifier struct {
	sources []sources.Source
}

// New creates a Classifier. Sources are consulted in the given order, most
// authoritative first (a live quote source should come before calendars).
func New(srcs ...sources.Source) *Classifier {
	return &Classifier{sources: srcs}
}

// Classify determines the current IPO status for symbol. A source error or
// "not found" moves on to the next source; only when every source is
// exhausted does the symbol resolve to StatusNotFound. StatusNotFound is a
// terminal default, never an error.
func (c *Classifier) Classify(ctx context.Context, symbol string) models.IPOInfo {
	symbol = strings.ToUpper(symbol)

	for _, src := range c.sources {
		result, err := src.Fetch(ctx, symbol)
		if err != nil {
			if !errors.Is(err, sources.ErrNotFound) {
				logger.Warn("Source %s failed for %s: %v", src.Name(), symbol, err)
			}
			continue
		}
		if info, ok := reduce(symbol, result); ok {
			return info
		}
	}

	return models.IPOInfo{Symbol: symbol, Status: models.StatusNotFound}
}

// reduce maps one definite source result to a status. A live quote always
// means trading. Calendar sections map per the NASDAQ semantics: a "priced"
// row means the subscription window has closed, an "upcoming" row means the
// book is open, a "filed" row is a registration with no window yet.
func reduce(symbol string, result *sources.Result) (models.IPOInfo, bool) {
	switch {
	case result.Quote != nil:
		q := result.Quote
		if !strings.EqualFold(q.Symbol, symbol) {
			// Data answering for a different ticker counts as not found.
			return models.IPOInfo{}, false
		}
		return models.IPOInfo{
			Symbol:      symbol,
			Status:      models.StatusTrading,
			CompanyName: q.CompanyName,
			Exchange:    q.Exchange,
			Price:       formatPrice(q.Price),
			Details:     "Trading on " + q.Exchange + " at " + q.Currency + " " + formatPrice(q.Price),
		}, true

	case result.Calendar != nil:
		e := result.Calendar
		if e.Symbol != "" && !strings.EqualFold(e.Symbol, symbol) {
			return models.IPOInfo{}, false
		}
		var status models.IPOStatus
		switch e.Section {
		case "priced":
			status = models.StatusSubscriptionClosed
		case "upcoming":
			status = models.StatusSubscriptionOpen
		case "filed":
			status = models.StatusUpcoming
		default:
			return models.IPOInfo{}, false
		}
		return models.IPOInfo{
			Symbol:      symbol,
			Status:      status,
			CompanyName: e.CompanyName,
			Exchange:    e.Exchange,
			ListingDate: e.ExpectedDate,
			Details:     "Found in " + e.Section + " IPOs",
		}, true
	}

	return models.IPOInfo{}, false
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
