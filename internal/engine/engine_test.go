package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
)

// fakeNotifier records every delivery attempt and can be told to fail.
type fakeNotifier struct {
	ipoAlerts      []models.IPOInfo
	volAlerts      []models.VolatilityInfo
	upcomingAlerts []models.UpcomingIPO
	statusUpdates  []string
	fail           bool
}

func (f *fakeNotifier) SendIPOAlert(info models.IPOInfo) error {
	if f.fail {
		return errors.New("telegram unreachable")
	}
	f.ipoAlerts = append(f.ipoAlerts, info)
	return nil
}

func (f *fakeNotifier) SendVolatilityAlert(info models.VolatilityInfo) error {
	if f.fail {
		return errors.New("telegram unreachable")
	}
	f.volAlerts = append(f.volAlerts, info)
	return nil
}

func (f *fakeNotifier) SendUpcomingAlert(ipo models.UpcomingIPO) error {
	if f.fail {
		return errors.New("telegram unreachable")
	}
	f.upcomingAlerts = append(f.upcomingAlerts, ipo)
	return nil
}

func (f *fakeNotifier) SendStatusUpdate(text string) error {
	if f.fail {
		return errors.New("telegram unreachable")
	}
	f.statusUpdates = append(f.statusUpdates, text)
	return nil
}

// fakeRecorder captures audit records.
type fakeRecorder struct {
	kinds     []string
	delivered []bool
}

func (f *fakeRecorder) Record(kind, symbol, detail string, delivered bool) error {
	f.kinds = append(f.kinds, kind)
	f.delivered = append(f.delivered, delivered)
	return nil
}

func (f *fakeRecorder) Close() error { return nil }

func ipoInfo(symbol string, status models.IPOStatus) models.IPOInfo {
	return models.IPOInfo{Symbol: symbol, Status: status, CompanyName: symbol + " Corp"}
}

func TestDecideIPOFirstObservationTrading(t *testing.T) {
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	e := New(notifier, recorder)
	states := map[string]models.IPOStateEntry{}

	fired := e.DecideIPO(ipoInfo("ABCD", models.StatusTrading), states)

	if !fired {
		t.Fatal("First-ever trading observation must fire")
	}
	if len(notifier.ipoAlerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(notifier.ipoAlerts))
	}
	if states["ABCD"].Status != "trading" {
		t.Errorf("State not recorded: %+v", states["ABCD"])
	}
	if len(recorder.kinds) != 1 || recorder.kinds[0] != "ipo" {
		t.Errorf("Audit record missing: %v", recorder.kinds)
	}
}

func TestDecideIPOSteadyStateIsSilent(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.IPOStateEntry{
		"ABCD": {Status: "trading", CompanyName: "ABCD Corp"},
	}

	fired := e.DecideIPO(ipoInfo("ABCD", models.StatusTrading), states)

	if fired {
		t.Error("Unchanged status must not fire")
	}
	if len(notifier.ipoAlerts) != 0 || len(notifier.statusUpdates) != 0 {
		t.Error("No messages expected in steady state")
	}
}

func TestDecideIPOTransitionToActionable(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.IPOStateEntry{
		"ABCD": {Status: "subscription_closed"},
	}

	fired := e.DecideIPO(ipoInfo("ABCD", models.StatusListed), states)

	if !fired {
		t.Fatal("Transition to an alert-worthy status must fire")
	}
	if states["ABCD"].Status != "listed" {
		t.Errorf("State = %q, want listed", states["ABCD"].Status)
	}
}

func TestDecideIPOTransitionToNonActionable(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.IPOStateEntry{
		"ABCD": {Status: "upcoming"},
	}

	fired := e.DecideIPO(ipoInfo("ABCD", models.StatusSubscriptionClosed), states)

	if fired {
		t.Error("Transition to a non-alert-worthy status must not fire")
	}
	// State still advances so the next transition diffs correctly.
	if states["ABCD"].Status != "subscription_closed" {
		t.Errorf("State = %q, want subscription_closed", states["ABCD"].Status)
	}
	if len(notifier.statusUpdates) != 0 {
		t.Error("Monitoring-started message is for cold starts only")
	}
}

func TestDecideIPOColdStartNonActionable(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.IPOStateEntry{}

	fired := e.DecideIPO(ipoInfo("ABCD", models.StatusUpcoming), states)

	if fired {
		t.Error("Cold start on a non-alert-worthy status must not fire an alert")
	}
	if len(notifier.statusUpdates) != 1 {
		t.Fatalf("Expected one monitoring-started message, got %d", len(notifier.statusUpdates))
	}
	if states["ABCD"].Status != "upcoming" {
		t.Errorf("State = %q, want upcoming", states["ABCD"].Status)
	}
}

func TestDecideIPOAlertWorthyTransitions(t *testing.T) {
	alertWorthy := []models.IPOStatus{
		models.StatusSubscriptionOpen,
		models.StatusAllotmentDone,
		models.StatusListed,
		models.StatusTrading,
	}

	for _, curr := range alertWorthy {
		t.Run(curr.String(), func(t *testing.T) {
			notifier := &fakeNotifier{}
			e := New(notifier, &fakeRecorder{})
			states := map[string]models.IPOStateEntry{
				"ABCD": {Status: "upcoming"},
			}

			if !e.DecideIPO(ipoInfo("ABCD", curr), states) {
				t.Fatalf("Transition upcoming -> %s must fire", curr)
			}
			if len(notifier.ipoAlerts) != 1 {
				t.Errorf("Expected exactly one alert, got %d", len(notifier.ipoAlerts))
			}
		})
	}
}

func TestDecideIPONotifyFailureStillPersistsState(t *testing.T) {
	notifier := &fakeNotifier{fail: true}
	recorder := &fakeRecorder{}
	e := New(notifier, recorder)
	states := map[string]models.IPOStateEntry{}

	e.DecideIPO(ipoInfo("ABCD", models.StatusTrading), states)

	if states["ABCD"].Status != "trading" {
		t.Error("State must advance even when delivery fails")
	}
	if len(recorder.delivered) != 1 || recorder.delivered[0] {
		t.Errorf("Audit record should mark the alert undelivered: %v", recorder.delivered)
	}
}

func TestDecideIPOWithNilNotifier(t *testing.T) {
	e := New(nil, &fakeRecorder{})
	states := map[string]models.IPOStateEntry{}

	fired := e.DecideIPO(ipoInfo("ABCD", models.StatusTrading), states)

	if !fired {
		t.Error("Decision fires even with notifications disabled")
	}
	if states["ABCD"].Status != "trading" {
		t.Error("State must advance with notifications disabled")
	}
}

func TestDecideVolatilitySignificantMove(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.VolatilityStateEntry{
		"XYZ": {Price: 100.00},
	}

	current, change := 106.00, 6.00
	info := models.VolatilityInfo{
		Symbol:        "XYZ",
		CurrentPrice:  &current,
		ChangePercent: &change,
		Movement:      models.MovementRally,
		CompanyName:   "XYZ Corp",
		Currency:      "USD",
	}
	fired := e.DecideVolatility(info, states)

	if !fired {
		t.Fatal("Rally past the threshold must fire")
	}
	if len(notifier.volAlerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(notifier.volAlerts))
	}
	if states["XYZ"].Price != 106.00 {
		t.Errorf("Baseline not advanced: %v", states["XYZ"].Price)
	}
}

func TestDecideVolatilityRepeatedMovesEachFire(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.VolatilityStateEntry{"XYZ": {Price: 100.00}}

	for _, tick := range []struct{ price, change float64 }{{106, 6}, {112.36, 6}} {
		price, change := tick.price, tick.change
		info := models.VolatilityInfo{
			Symbol:        "XYZ",
			CurrentPrice:  &price,
			ChangePercent: &change,
			Movement:      models.MovementRally,
		}
		if !e.DecideVolatility(info, states) {
			t.Fatalf("Rally at %v did not fire", price)
		}
	}
	if len(notifier.volAlerts) != 2 {
		t.Errorf("Each threshold crossing is news: got %d alerts", len(notifier.volAlerts))
	}
}

func TestDecideVolatilityErrorPreservesState(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.VolatilityStateEntry{
		"XYZ": {Price: 100.00, CompanyName: "XYZ Corp"},
	}

	fired := e.DecideVolatility(models.VolatilityInfo{Symbol: "XYZ", Err: "timeout"}, states)

	if fired {
		t.Error("Fetch error must not fire")
	}
	if states["XYZ"].Price != 100.00 {
		t.Error("Fetch error must not overwrite the recorded baseline")
	}
}

func TestDecideVolatilityFirstObservationRecordsOnly(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.VolatilityStateEntry{}

	price := 50.00
	fired := e.DecideVolatility(models.VolatilityInfo{Symbol: "XYZ", CurrentPrice: &price}, states)

	if fired || len(notifier.volAlerts) != 0 {
		t.Error("First observation has no baseline and must not fire")
	}
	if states["XYZ"].Price != 50.00 {
		t.Error("First observation must record the baseline")
	}
}

func upcomingIPO(symbol string, expected time.Time, shouldAlert bool) models.UpcomingIPO {
	d := 2
	return models.UpcomingIPO{
		Symbol:       symbol,
		CompanyName:  symbol + " Co",
		ExpectedDate: &expected,
		DaysUntil:    &d,
		ShouldAlert:  shouldAlert,
	}
}

func TestDecideUpcomingAlertStampsDate(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.UpcomingStateEntry{}
	today := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)

	fired := e.DecideUpcoming(upcomingIPO("NEWCO", today.AddDate(0, 0, 2), true), today, states)

	if !fired {
		t.Fatal("Reminder inside the window must fire")
	}
	if states["NEWCO"].LastAlertDate != "2026-01-20" {
		t.Errorf("LastAlertDate = %q, want 2026-01-20", states["NEWCO"].LastAlertDate)
	}
	if states["NEWCO"].ExpectedDate != "2026-01-22" {
		t.Errorf("ExpectedDate = %q", states["NEWCO"].ExpectedDate)
	}
}

func TestDecideUpcomingNoAlertKeepsMetadata(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.UpcomingStateEntry{}
	today := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)

	fired := e.DecideUpcoming(upcomingIPO("FARCO", today.AddDate(0, 0, 10), false), today, states)

	if fired || len(notifier.upcomingAlerts) != 0 {
		t.Error("Outside the window nothing fires")
	}
	entry, ok := states["FARCO"]
	if !ok {
		t.Fatal("Metadata must be captured even without an alert")
	}
	if entry.LastAlertDate != "" {
		t.Errorf("LastAlertDate stamped without delivery: %q", entry.LastAlertDate)
	}
}

func TestDecideUpcomingFailedDeliveryLeavesDateUnstamped(t *testing.T) {
	notifier := &fakeNotifier{fail: true}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.UpcomingStateEntry{}
	today := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)

	e.DecideUpcoming(upcomingIPO("NEWCO", today.AddDate(0, 0, 2), true), today, states)

	// An undelivered reminder must remain eligible on the next run today.
	if states["NEWCO"].LastAlertDate != "" {
		t.Errorf("LastAlertDate = %q after failed delivery, want empty", states["NEWCO"].LastAlertDate)
	}
}

func TestDecideUpcomingPreservesPriorAlertDate(t *testing.T) {
	notifier := &fakeNotifier{}
	e := New(notifier, &fakeRecorder{})
	states := map[string]models.UpcomingStateEntry{
		"NEWCO": {LastAlertDate: "2026-01-19", ExpectedDate: "2026-01-22"},
	}
	today := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)

	e.DecideUpcoming(upcomingIPO("NEWCO", time.Date(2026, time.January, 22, 0, 0, 0, 0, time.UTC), false), today, states)

	if states["NEWCO"].LastAlertDate != "2026-01-19" {
		t.Errorf("Prior LastAlertDate lost: %q", states["NEWCO"].LastAlertDate)
	}
}
