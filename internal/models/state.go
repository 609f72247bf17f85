package models

// Persisted state entries. Each watchlist kind owns an independent JSON file
// mapping uppercase symbol to the snapshot the next run's decision needs.
// Entries are overwritten whole on every successful check, never merged.

// IPOStateEntry is the last observed IPO status for one symbol.
type IPOStateEntry struct {
	Status      string `json:"status"`
	CompanyName string `json:"company_name,omitempty"`
	Exchange    string `json:"exchange,omitempty"`
	Price       string `json:"price,omitempty"`
}

// VolatilityStateEntry is the last recorded price for one symbol.
type VolatilityStateEntry struct {
	Price       float64 `json:"price"`
	CompanyName string  `json:"company_name,omitempty"`
	Currency    string  `json:"currency"`
}

// UpcomingStateEntry tracks when an upcoming-IPO reminder was last sent so a
// symbol alerts at most once per calendar day.
type UpcomingStateEntry struct {
	LastAlertDate string `json:"last_alert_date,omitempty"`
	ExpectedDate  string `json:"expected_date"`
	CompanyName   string `json:"company_name,omitempty"`
}
