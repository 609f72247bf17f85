package sources

import "context"

// DiscoverySource lists upcoming IPOs without being asked about a specific
// symbol. Entries carry raw date strings; date semantics belong to the
// upcoming-IPO evaluator.
type DiscoverySource interface {
	Name() string
	FetchUpcoming(ctx context.Context) ([]CalendarEntry, error)
}

// FetchUpcoming lets the NASDAQ calendar double as a discovery source.
func (n *NasdaqCalendar) FetchUpcoming(ctx context.Context) ([]CalendarEntry, error) {
	all, err := n.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]CalendarEntry, 0, len(all))
	for _, e := range all {
		entries = append(entries, e)
	}
	return entries, nil
}
