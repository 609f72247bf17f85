// Package models defines the core domain entities: IPO statuses, price
// movements, upcoming listings, and the persisted per-symbol state entries.
package models

import "fmt"

// IPOStatus is the closed set of lifecycle states a tracked symbol can be in.
// Sources may regress a symbol to an earlier status between checks; the order
// here is lifecycle order, not a guarantee about the data.
type IPOStatus int

const (
	StatusNotFound IPOStatus = iota
	StatusUpcoming
	StatusSubscriptionOpen
	StatusSubscriptionClosed
	StatusAllotmentPending
	StatusAllotmentDone
	StatusListed
	StatusTrading
)

// statusNames is the bidirectional wire mapping for IPOStatus. State files
// and alert history store the string form; both directions must stay stable.
var statusNames = map[IPOStatus]string{
	StatusNotFound:           "not_found",
	StatusUpcoming:           "upcoming",
	StatusSubscriptionOpen:   "subscription_open",
	StatusSubscriptionClosed: "subscription_closed",
	StatusAllotmentPending:   "allotment_pending",
	StatusAllotmentDone:      "allotment_done",
	StatusListed:             "listed",
	StatusTrading:            "trading",
}

var statusValues = func() map[string]IPOStatus {
	m := make(map[string]IPOStatus, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}
	return m
}()

// String returns the wire form of the status.
func (s IPOStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "not_found"
}

// ParseIPOStatus converts a wire string back into an IPOStatus.
func ParseIPOStatus(s string) (IPOStatus, error) {
	if v, ok := statusValues[s]; ok {
		return v, nil
	}
	return StatusNotFound, fmt.Errorf("unknown IPO status: %q", s)
}

// Label returns the human-readable status text used in notifications.
func (s IPOStatus) Label() string {
	switch s {
	case StatusNotFound:
		return "Not Found"
	case StatusUpcoming:
		return "Upcoming"
	case StatusSubscriptionOpen:
		return "Subscription Open"
	case StatusSubscriptionClosed:
		return "Subscription Closed"
	case StatusAllotmentPending:
		return "Allotment Pending"
	case StatusAllotmentDone:
		return "Allotment Complete"
	case StatusListed:
		return "Listed"
	case StatusTrading:
		return "Trading"
	}
	return "Unknown"
}

// IPOInfo is the classified result of one status check for one symbol.
type IPOInfo struct {
	Symbol      string
	Status      IPOStatus
	CompanyName string
	Exchange    string
	ListingDate string
	Price       string
	Details     string
}

// IsTradeable reports whether shares are available for trading.
func (i IPOInfo) IsTradeable() bool {
	return i.Status == StatusListed || i.Status == StatusTrading
}

// IsActionable reports whether the status is one of the alert-worthy values:
// subscription opening, allotment results, or shares becoming tradeable.
func (i IPOInfo) IsActionable() bool {
	switch i.Status {
	case StatusSubscriptionOpen, StatusAllotmentDone, StatusListed, StatusTrading:
		return true
	}
	return false
}
