package history

import (
	"path/filepath"
	"testing"
)

func openRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndRecent(t *testing.T) {
	r := openRecorder(t)

	if err := r.Record("ipo", "ABCD", "unknown -> trading", true); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := r.Record("volatility", "XYZ", "rally +6.00%", false); err != nil {
		t.Fatalf("Record: %v", err)
	}

	records, err := r.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	// Most recent first.
	if records[0].Kind != "volatility" || records[0].Symbol != "XYZ" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[0].Delivered {
		t.Error("Undelivered alert marked delivered")
	}
	if records[1].Kind != "ipo" || !records[1].Delivered {
		t.Errorf("records[1] = %+v", records[1])
	}
	if records[0].ID == records[1].ID {
		t.Error("Record IDs must be unique")
	}
	if records[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	r := openRecorder(t)

	for i := 0; i < 5; i++ {
		if err := r.Record("upcoming", "NEWCO", "expected 2026-01-22", true); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	records, err := r.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}

func TestRecentEmptyDatabase(t *testing.T) {
	r := openRecorder(t)
	records, err := r.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	if err := r.Record("ipo", "ABCD", "unknown -> trading", true); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "ABCD" {
		t.Errorf("Records lost across reopen: %+v", records)
	}
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	if err := r.Record("ipo", "ABCD", "detail", true); err != nil {
		t.Errorf("NoopRecorder.Record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("NoopRecorder.Close: %v", err)
	}
}
