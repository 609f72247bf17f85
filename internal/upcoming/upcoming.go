// Package upcoming evaluates expected IPO dates against a look-ahead alert
// window and owns the loose date parsing used throughout the system.
package upcoming

import (
	"strings"
	"time"
)

// DefaultAlertDaysBefore is the look-ahead window when none is configured.
const DefaultAlertDaysBefore = 2

// dateLayouts are tried in order. Sources publish dates in several shapes;
// anything unparsable is treated as an absent date, never as an error.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate parses a raw date string. The second return is false when the
// string is empty or matches no known layout. Month-day strings like
// "Jan 22" assume the current year.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("Jan 2", raw); err == nil {
		now := time.Now()
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// DaysUntil returns the whole-day distance from today to the expected date.
// Negative for past dates.
func DaysUntil(expected, today time.Time) int {
	e := time.Date(expected.Year(), expected.Month(), expected.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

// Evaluator decides whether an upcoming-IPO reminder should fire.
type Evaluator struct {
	alertDaysBefore int
}

// NewEvaluator creates an Evaluator. Negative windows fall back to the
// default.
func NewEvaluator(alertDaysBefore int) *Evaluator {
	if alertDaysBefore < 0 {
		alertDaysBefore = DefaultAlertDaysBefore
	}
	return &Evaluator{alertDaysBefore: alertDaysBefore}
}

// Evaluate returns (daysUntil, shouldAlert) for one symbol. A reminder fires
// iff the expected date is known, lies within [0, alertDaysBefore] days of
// today, and no reminder was already sent today. Suppression is
// date-grained: a symbol checked twice on the same calendar day alerts at
// most once.
func (e *Evaluator) Evaluate(expected *time.Time, today time.Time, lastAlertDate string) (daysUntil *int, shouldAlert bool) {
	if expected == nil {
		return nil, false
	}
	d := DaysUntil(*expected, today)
	daysUntil = &d

	if d < 0 || d > e.alertDaysBefore {
		return daysUntil, false
	}
	if lastAlertDate == today.Format("2006-01-02") {
		return daysUntil, false
	}
	return daysUntil, true
}
