// Package engine decides, per symbol, whether a freshly classified fact
// warrants a notification, by diffing it against the persisted snapshot from
// the previous run. The guarantee is at-most-once per transition: equal
// consecutive observations never re-fire, and errors never overwrite good
// state or produce false transitions.
package engine

import (
	"fmt"
	"time"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/history"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/logger"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
)

// Notifier delivers formatted alert messages. Delivery is fire-and-forget
// from the engine's point of view: a failure is logged and recorded, never
// retried here.
type Notifier interface {
	SendIPOAlert(models.IPOInfo) error
	SendVolatilityAlert(models.VolatilityInfo) error
	SendUpcomingAlert(models.UpcomingIPO) error
	SendStatusUpdate(text string) error
}

// Engine applies the per-watchlist alert decision rules.
type Engine struct {
	notifier Notifier // nil when notifications are disabled
	recorder history.Recorder
}

// New creates an Engine. notifier may be nil; recorder must not be (use the
// noop recorder).
func New(notifier Notifier, recorder history.Recorder) *Engine {
	return &Engine{notifier: notifier, recorder: recorder}
}

// DecideIPO processes one classified IPO status against the state snapshot.
// A notification fires iff the status changed since the last run AND the new
// status is alert-worthy. A first-ever observation is a change from nothing,
// so a symbol that shows up already trading fires immediately. On a cold
// start with a non-actionable status a one-time informational message is
// sent instead, so the recipient knows monitoring began. The state entry is
// overwritten whole on every call, alert or not.
func (e *Engine) DecideIPO(info models.IPOInfo, states map[string]models.IPOStateEntry) bool {
	prev, seen := states[info.Symbol]
	fired := false

	switch {
	case seen && prev.Status == info.Status.String():
		// Steady state: idempotent no-op.
	case info.IsActionable():
		detail := fmt.Sprintf("%s -> %s", prevStatusLabel(prev, seen), info.Status)
		delivered := e.sendIPO(info)
		e.record("ipo", info.Symbol, detail, delivered)
		fired = true
	case !seen:
		// Cold start on a non-alert-worthy status: informational only.
		e.sendStatusUpdate(fmt.Sprintf(
			"Monitoring started for %s (current status: %s)", info.Symbol, info.Status.Label()))
	}

	states[info.Symbol] = models.IPOStateEntry{
		Status:      info.Status.String(),
		CompanyName: info.CompanyName,
		Exchange:    info.Exchange,
		Price:       info.Price,
	}
	return fired
}

// DecideVolatility processes one volatility reading. There is no transition
// tracking: every check that crosses the threshold alerts, because
// volatility is a continuous signal and repeated rallies are each news. A
// reading with a fetch error leaves the previous state entry untouched.
func (e *Engine) DecideVolatility(info models.VolatilityInfo, states map[string]models.VolatilityStateEntry) bool {
	if info.Err != "" || info.CurrentPrice == nil {
		logger.Warn("Skipping %s: %s", info.Symbol, info.Err)
		return false
	}

	fired := false
	if info.HasSignificantMovement() {
		detail := fmt.Sprintf("%s %+.2f%%", info.Movement, *info.ChangePercent)
		delivered := e.sendVolatility(info)
		e.record("volatility", info.Symbol, detail, delivered)
		fired = true
	}

	states[info.Symbol] = models.VolatilityStateEntry{
		Price:       *info.CurrentPrice,
		CompanyName: info.CompanyName,
		Currency:    info.Currency,
	}
	return fired
}

// DecideUpcoming processes one evaluated upcoming-IPO entry. The evaluator
// already applied the window and same-day suppression; the engine delivers,
// stamps last_alert_date on success, and keeps the entry's metadata current
// even when no alert fires so cold-start entries are captured.
func (e *Engine) DecideUpcoming(ipo models.UpcomingIPO, today time.Time, states map[string]models.UpcomingStateEntry) bool {
	entry := states[ipo.Symbol]
	entry.ExpectedDate = ipo.FormatDate()
	if ipo.CompanyName != "" {
		entry.CompanyName = ipo.CompanyName
	}

	fired := false
	if ipo.ShouldAlert {
		detail := fmt.Sprintf("expected %s", ipo.FormatDate())
		delivered := e.sendUpcoming(ipo)
		e.record("upcoming", ipo.Symbol, detail, delivered)
		if delivered {
			entry.LastAlertDate = today.Format("2006-01-02")
		}
		fired = true
	}

	states[ipo.Symbol] = entry
	return fired
}

func (e *Engine) sendIPO(info models.IPOInfo) bool {
	if e.notifier == nil {
		logger.Debug("Notifications disabled, skipping IPO alert for %s", info.Symbol)
		return false
	}
	if err := e.notifier.SendIPOAlert(info); err != nil {
		logger.Error("Failed to send IPO alert for %s: %v", info.Symbol, err)
		return false
	}
	logger.Info("Sent IPO alert for %s (%s)", info.Symbol, info.Status)
	return true
}

func (e *Engine) sendVolatility(info models.VolatilityInfo) bool {
	if e.notifier == nil {
		logger.Debug("Notifications disabled, skipping volatility alert for %s", info.Symbol)
		return false
	}
	if err := e.notifier.SendVolatilityAlert(info); err != nil {
		logger.Error("Failed to send volatility alert for %s: %v", info.Symbol, err)
		return false
	}
	logger.Info("Sent volatility alert for %s (%s)", info.Symbol, info.Movement)
	return true
}

func (e *Engine) sendUpcoming(ipo models.UpcomingIPO) bool {
	if e.notifier == nil {
		logger.Debug("Notifications disabled, skipping upcoming alert for %s", ipo.Symbol)
		return false
	}
	if err := e.notifier.SendUpcomingAlert(ipo); err != nil {
		logger.Error("Failed to send upcoming IPO alert for %s: %v", ipo.Symbol, err)
		return false
	}
	logger.Info("Sent upcoming IPO alert for %s (%s)", ipo.Symbol, ipo.FormatDate())
	return true
}

func (e *Engine) sendStatusUpdate(text string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.SendStatusUpdate(text); err != nil {
		logger.Error("Failed to send status update: %v", err)
	}
}

func (e *Engine) record(kind, symbol, detail string, delivered bool) {
	if err := e.recorder.Record(kind, symbol, detail, delivered); err != nil {
		logger.Warn("Failed to record %s alert for %s: %v", kind, symbol, err)
	}
}

func prevStatusLabel(prev models.IPOStateEntry, seen bool) string {
	if !seen {
		return "unknown"
	}
	return prev.Status
}
