package upcoming

import (
	"context"
	"sort"
	"time"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/logger"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/sources"
)

// Discover aggregates upcoming IPOs across the discovery sources, merges
// duplicates by symbol (first non-empty field wins), and keeps only entries
// expected within [0, maxDaysAhead] days of today. A failing source is
// logged and skipped; discovery succeeds with whatever the rest returned.
func Discover(ctx context.Context, srcs []sources.DiscoverySource, today time.Time, maxDaysAhead int) []models.UpcomingIPO {
	merged := make(map[string]*models.UpcomingIPO)
	var order []string

	for _, src := range srcs {
		entries, err := src.FetchUpcoming(ctx)
		if err != nil {
			logger.Warn("Discovery source %s failed: %v", src.Name(), err)
			continue
		}
		logger.Info("Found %d IPOs from %s", len(entries), src.Name())

		for _, entry := range entries {
			if entry.Symbol == "" {
				continue
			}
			ipo, exists := merged[entry.Symbol]
			if !exists {
				ipo = &models.UpcomingIPO{Symbol: entry.Symbol, Source: src.Name()}
				merged[entry.Symbol] = ipo
				order = append(order, entry.Symbol)
			}
			if ipo.CompanyName == "" {
				ipo.CompanyName = entry.CompanyName
			}
			if ipo.ExpectedDate == nil {
				if d, ok := ParseDate(entry.ExpectedDate); ok {
					ipo.ExpectedDate = &d
				}
			}
			if ipo.PriceRange == "" {
				ipo.PriceRange = entry.PriceRange
			}
			if ipo.Exchange == "" {
				ipo.Exchange = entry.Exchange
			}
			if ipo.Shares == "" {
				ipo.Shares = entry.Shares
			}
		}
	}

	var valid []models.UpcomingIPO
	for _, symbol := range order {
		ipo := merged[symbol]
		if ipo.ExpectedDate == nil {
			continue
		}
		d := DaysUntil(*ipo.ExpectedDate, today)
		if d < 0 || d > maxDaysAhead {
			continue
		}
		ipo.DaysUntil = &d
		valid = append(valid, *ipo)
	}

	sort.Slice(valid, func(i, j int) bool {
		if !valid[i].ExpectedDate.Equal(*valid[j].ExpectedDate) {
			return valid[i].ExpectedDate.Before(*valid[j].ExpectedDate)
		}
		return valid[i].Symbol < valid[j].Symbol
	})

	logger.Info("Total valid IPOs within %d days: %d", maxDaysAhead, len(valid))
	return valid
}
