package models

import "time"

// UpcomingIPO is the evaluated view of one watchlist entry for the
// upcoming-IPO pipeline. DaysUntil is nil when no expected date is known and
// may be negative for dates already passed.
type UpcomingIPO struct {
	Symbol       string
	CompanyName  string
	ExpectedDate *time.Time
	Exchange     string
	PriceRange   string
	Shares       string
	DaysUntil    *int
	ShouldAlert  bool
	Source       string
}

// FormatDate renders the expected date for display, "TBD" when unknown.
func (u UpcomingIPO) FormatDate() string {
	if u.ExpectedDate == nil {
		return "TBD"
	}
	return u.ExpectedDate.Format("2006-01-02")
}
