// Package volatility classifies price changes against a fixed percentage
// threshold.
package volatility

import (
	"context"
	"math"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/sources"
)

// DefaultThresholdPercent is the movement threshold when none is configured.
const DefaultThresholdPercent = 5.0

// Evaluator computes the percentage change between two prices and classifies
// the movement.
type Evaluator struct {
	thresholdPercent float64
}

// NewEvaluator creates an Evaluator with the given threshold. Non-positive
// thresholds fall back to the default.
func NewEvaluator(thresholdPercent float64) *Evaluator {
	if thresholdPercent <= 0 {
		thresholdPercent = DefaultThresholdPercent
	}
	return &Evaluator{thresholdPercent: thresholdPercent}
}

// Evaluate fills ChangePercent and Movement on info given the previously
// recorded price. Rules:
//   - no current price (upstream error): nothing computed
//   - no previous price (first observation): recording-only pass, no movement
//   - previous price of zero: treated as absent, never divided by
//
// The change is rounded to two decimals before the threshold comparison, so
// an exact +threshold reading is a rally and -threshold a drop.
func (e *Evaluator) Evaluate(info *models.VolatilityInfo, previousPrice *float64) {
	info.Movement = models.MovementNone
	if info.CurrentPrice == nil || previousPrice == nil {
		return
	}
	if *previousPrice == 0 {
		return
	}

	info.PreviousPrice = previousPrice
	change := (*info.CurrentPrice - *previousPrice) / *previousPrice * 100
	change = math.Round(change*100) / 100
	info.ChangePercent = &change

	switch {
	case change >= e.thresholdPercent:
		info.Movement = models.MovementRally
	case change <= -e.thresholdPercent:
		info.Movement = models.MovementDrop
	}
}

// Check fetches the current quote for symbol and evaluates it against the
// previously recorded price. Fetch failures surface in Err; they never
// produce a movement.
func (e *Evaluator) Check(ctx context.Context, quotes sources.Source, symbol string, previousPrice *float64) models.VolatilityInfo {
	info := models.VolatilityInfo{Symbol: symbol, Currency: "USD"}

	result, err := quotes.Fetch(ctx, symbol)
	if err != nil {
		info.Err = err.Error()
		return info
	}
	if result.Quote == nil {
		info.Err = "no quote data"
		return info
	}

	q := result.Quote
	info.CurrentPrice = &q.Price
	info.CompanyName = q.CompanyName
	if q.Currency != "" {
		info.Currency = q.Currency
	}

	e.Evaluate(&info, previousPrice)
	return info
}
