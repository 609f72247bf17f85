package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/sources"
)

// fakeSource is a scripted Source for classifier tests.
type fakeSource struct {
	name   string
	result *sources.Result
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, _ string) (*sources.Result, error) {
	f.calls++
	return f.result, f.err
}

func quoteResult(symbol string, price float64) *sources.Result {
	return &sources.Result{Quote: &sources.Quote{
		Symbol:      symbol,
		Price:       price,
		CompanyName: "Test Corp",
		Exchange:    "NasdaqGS",
		Currency:    "USD",
	}}
}

func calendarResult(symbol, section string) *sources.Result {
	return &sources.Result{Calendar: &sources.CalendarEntry{
		Symbol:      symbol,
		CompanyName: "Test Corp",
		Section:     section,
		Exchange:    "NASDAQ",
	}}
}

func TestClassifyLiveQuoteWins(t *testing.T) {
	quotes := &fakeSource{name: "quotes", result: quoteResult("ABCD", 24.50)}
	calendar := &fakeSource{name: "calendar", result: calendarResult("ABCD", "upcoming")}
	c := New(quotes, calendar)

	info := c.Classify(context.Background(), "abcd")

	if info.Status != models.StatusTrading {
		t.Errorf("Expected trading, got %s", info.Status)
	}
	if info.Symbol != "ABCD" {
		t.Errorf("Expected uppercase symbol, got %q", info.Symbol)
	}
	if info.Price != "24.50" {
		t.Errorf("Expected price 24.50, got %q", info.Price)
	}
	if calendar.calls != 0 {
		t.Errorf("Lower-priority source consulted %d times after a definite result", calendar.calls)
	}
}

func TestClassifyFallsThroughToCalendar(t *testing.T) {
	tests := []struct {
		section string
		want    models.IPOStatus
	}{
		{"priced", models.StatusSubscriptionClosed},
		{"upcoming", models.StatusSubscriptionOpen},
		{"filed", models.StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			quotes := &fakeSource{name: "quotes", err: sources.ErrNotFound}
			calendar := &fakeSource{name: "calendar", result: calendarResult("ABCD", tt.section)}
			c := New(quotes, calendar)

			info := c.Classify(context.Background(), "ABCD")
			if info.Status != tt.want {
				t.Errorf("section %q mapped to %s, want %s", tt.section, info.Status, tt.want)
			}
			if quotes.calls != 1 || calendar.calls != 1 {
				t.Errorf("unexpected call counts: quotes=%d calendar=%d", quotes.calls, calendar.calls)
			}
		})
	}
}

func TestClassifySourceErrorMovesOn(t *testing.T) {
	quotes := &fakeSource{name: "quotes", err: errors.New("connection refused")}
	calendar := &fakeSource{name: "calendar", result: calendarResult("ABCD", "priced")}
	c := New(quotes, calendar)

	info := c.Classify(context.Background(), "ABCD")
	if info.Status != models.StatusSubscriptionClosed {
		t.Errorf("Expected subscription_closed after first source error, got %s", info.Status)
	}
}

func TestClassifyAllSourcesFail(t *testing.T) {
	quotes := &fakeSource{name: "quotes", err: errors.New("timeout")}
	calendar := &fakeSource{name: "calendar", err: sources.ErrNotFound}
	c := New(quotes, calendar)

	info := c.Classify(context.Background(), "ABCD")
	if info.Status != models.StatusNotFound {
		t.Errorf("Expected not_found terminal default, got %s", info.Status)
	}
	if info.Symbol != "ABCD" {
		t.Errorf("Expected symbol on not_found result, got %q", info.Symbol)
	}
}

func TestClassifySymbolMismatchRejected(t *testing.T) {
	// A quote answering for a different ticker must count as not found for
	// that source, never be accepted.
	quotes := &fakeSource{name: "quotes", result: quoteResult("WXYZ", 10.0)}
	calendar := &fakeSource{name: "calendar", result: calendarResult("ABCD", "filed")}
	c := New(quotes, calendar)

	info := c.Classify(context.Background(), "ABCD")
	if info.Status != models.StatusUpcoming {
		t.Errorf("Expected fallthrough to calendar on mismatch, got %s", info.Status)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	quotes := &fakeSource{name: "quotes", result: quoteResult("ABCD", 24.50)}
	c := New(quotes)

	first := c.Classify(context.Background(), "ABCD")
	second := c.Classify(context.Background(), "ABCD")
	if first != second {
		t.Errorf("Classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassifyNoSources(t *testing.T) {
	c := New()
	info := c.Classify(context.Background(), "ABCD")
	if info.Status != models.StatusNotFound {
		t.Errorf("Expected not_found with no sources, got %s", info.Status)
	}
}
