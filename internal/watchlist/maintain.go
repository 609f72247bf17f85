package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/logger"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/upcoming"
)

// WriteUpcoming replaces the upcoming-IPO watchlist with freshly discovered
// entries in the extended colon-delimited format.
func WriteUpcoming(path string, ipos []models.UpcomingIPO, maxDaysAhead, alertDaysBefore int, now time.Time) error {
	var b strings.Builder
	b.WriteString("# Upcoming IPO Watchlist (auto-generated)\n")
	b.WriteString("# Format: SYMBOL:DATE:COMPANY:PRICE_RANGE\n")
	fmt.Fprintf(&b, "# Only IPOs within %d days are included\n", maxDaysAhead)
	fmt.Fprintf(&b, "# Alerts are sent %d days before the IPO date\n", alertDaysBefore)
	fmt.Fprintf(&b, "# Last updated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	for _, ipo := range ipos {
		company := ipo.CompanyName
		if company == "" {
			company = "-"
		}
		priceRange := ipo.PriceRange
		if priceRange == "" {
			priceRange = "-"
		}
		fmt.Fprintf(&b, "%s:%s:%s:%s\n", ipo.Symbol, ipo.FormatDate(),
			sanitizeField(company), sanitizeField(priceRange))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write upcoming watchlist: %w", err)
	}
	logger.Info("Updated upcoming IPO watchlist with %d IPOs", len(ipos))
	return nil
}

// sanitizeField keeps free-text fields from breaking the colon delimiter.
func sanitizeField(s string) string {
	return strings.ReplaceAll(s, ":", " ")
}

// Cleanup drops upcoming-IPO entries whose date has passed or lies more than
// maxDaysAhead days out. Entries with missing or unparsable dates are kept.
// The file is rewritten only when something was removed. Returns the number
// of entries removed.
func Cleanup(path string, today time.Time, maxDaysAhead int) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}

	var kept []string
	removed := 0
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			kept = append(kept, line)
			continue
		}
		entry, ok := parseEntry(trimmed)
		if !ok {
			kept = append(kept, line)
			continue
		}
		date, ok := upcoming.ParseDate(entry.ExpectedDate)
		if !ok {
			kept = append(kept, line)
			continue
		}
		days := upcoming.DaysUntil(date, today)
		switch {
		case days < 0:
			logger.Info("Removing %s: IPO date %s has passed", entry.Symbol, entry.ExpectedDate)
			removed++
		case days > maxDaysAhead:
			logger.Info("Removing %s: IPO date %s is %d days away (max %d)",
				entry.Symbol, entry.ExpectedDate, days, maxDaysAhead)
			removed++
		default:
			kept = append(kept, line)
		}
	}

	if removed == 0 {
		return 0, nil
	}
	out := strings.Join(kept, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return 0, fmt.Errorf("failed to rewrite watchlist %s: %w", path, err)
	}
	logger.Info("Cleaned up %d entries from upcoming IPO watchlist", removed)
	return removed, nil
}

// SyncIPOWatchlist promotes upcoming IPOs into the IPO watchlist and expires
// symbols more than daysAfterToKeep days past their IPO date. Known IPO
// dates are tracked in a JSON file beside the watchlist so expiry survives
// the upcoming list rotating. Returns the number of symbols kept.
func SyncIPOWatchlist(watchlistPath, datesPath string, ipos []models.UpcomingIPO, today time.Time, daysAfterToKeep int) (int, error) {
	dates := loadDates(datesPath)

	for _, ipo := range ipos {
		if ipo.ExpectedDate == nil {
			continue
		}
		dateStr := ipo.ExpectedDate.Format("2006-01-02")
		if _, known := dates[ipo.Symbol]; !known {
			logger.Info("Adding %s to IPO watchlist (IPO date: %s)", ipo.Symbol, dateStr)
		}
		dates[ipo.Symbol] = dateStr
	}

	var keep []string
	for symbol, dateStr := range dates {
		date, ok := upcoming.ParseDate(dateStr)
		if !ok {
			keep = append(keep, symbol)
			continue
		}
		cutoff := date.AddDate(0, 0, daysAfterToKeep)
		if upcoming.DaysUntil(cutoff, today) < 0 {
			logger.Info("Removing %s from IPO watchlist (IPO was on %s)", symbol, dateStr)
			delete(dates, symbol)
			continue
		}
		keep = append(keep, symbol)
	}
	sort.Strings(keep)

	var b strings.Builder
	b.WriteString("# IPO Watchlist (auto-generated from upcoming IPOs)\n")
	b.WriteString("# One ticker per line\n")
	fmt.Fprintf(&b, "# Tickers kept until IPO date + %d days\n\n", daysAfterToKeep)
	for _, symbol := range keep {
		b.WriteString(symbol + "\n")
	}
	if err := os.WriteFile(watchlistPath, []byte(b.String()), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write IPO watchlist: %w", err)
	}

	if err := saveDates(datesPath, dates); err != nil {
		return 0, err
	}
	logger.Info("Updated IPO watchlist with %d tickers", len(keep))
	return len(keep), nil
}

func loadDates(path string) map[string]string {
	dates := map[string]string{}
	data, err := os.ReadFile(path)
	if err != nil {
		return dates
	}
	if err := json.Unmarshal(data, &dates); err != nil {
		logger.Warn("Malformed IPO dates file %s: %v", path, err)
		return map[string]string{}
	}
	return dates
}

func saveDates(path string, dates map[string]string) error {
	data, err := json.MarshalIndent(dates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal IPO dates: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write IPO dates file: %w", err)
	}
	return nil
}
