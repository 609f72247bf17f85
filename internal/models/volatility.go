package models

// Movement classifies a price change against the volatility threshold.
type Movement int

const (
	MovementNone Movement = iota
	MovementRally
	MovementDrop
)

func (m Movement) String() string {
	switch m {
	case MovementRally:
		return "rally"
	case MovementDrop:
		return "drop"
	}
	return "none"
}

// VolatilityInfo holds one volatility check for one symbol. CurrentPrice and
// ChangePercent are pointers because they are genuinely absent on fetch
// errors and first observations respectively.
type VolatilityInfo struct {
	Symbol        string
	CurrentPrice  *float64
	PreviousPrice *float64
	ChangePercent *float64
	Movement      Movement
	CompanyName   string
	Currency      string
	Err           string
}

// HasSignificantMovement reports whether the change crossed the threshold in
// either direction.
func (v VolatilityInfo) HasSignificantMovement() bool {
	return v.Movement == MovementRally || v.Movement == MovementDrop
}
