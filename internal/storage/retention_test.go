package storage

import (
	"testing"
	"time"
)

func TestRetentionCleaner_RunNow(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	old := createTestReading("pool-01", 17.0, time.Now().UTC().AddDate(0, 0, -10))
	if err := store.PutCurrentAndAppendHistory(old); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	recent := createTestReading("pool-01", 23.0, time.Now().UTC())
	if err := store.PutCurrentAndAppendHistory(recent); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cleaner := NewRetentionCleaner(store, RetentionCleanerConfig{
		RetentionDays: 7,
		CleanupPeriod: time.Hour,
	}, store.logger)

	cleaner.RunNow()
	// Stop waits out the startup prune, so the stats below are settled
	cleaner.Stop()

	count, err := store.CountHistory("pool-01")
	if err != nil {
		t.Fatalf("CountHistory failed: %v", err)
	}
	if count != 1 {
		t.Errorf("history count after cleanup = %d, want 1", count)
	}

	current, err := store.GetCurrent("pool-01")
	if err != nil {
		t.Fatalf("GetCurrent failed: %v", err)
	}
	if current == nil || current.Temperature != 23.0 {
		t.Errorf("current after cleanup = %v, want 23.0", current)
	}

	stats := cleaner.Stats()
	if stats.TotalDeleted != 1 {
		t.Errorf("TotalDeleted = %d, want 1", stats.TotalDeleted)
	}
	// One startup prune plus the explicit RunNow
	if stats.TotalCleanups != 2 {
		t.Errorf("TotalCleanups = %d, want 2", stats.TotalCleanups)
	}
	if stats.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", stats.RetentionDays)
	}
}

func TestRetentionCleaner_StopIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	cleaner := NewRetentionCleaner(store, RetentionCleanerConfig{
		RetentionDays: 7,
		CleanupPeriod: time.Hour,
	}, store.logger)

	cleaner.Stop()
	cleaner.Stop()
}

func TestRetentionCleaner_DefaultsBadPeriod(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	// Must not panic on a zero ticker period
	cleaner := NewRetentionCleaner(store, RetentionCleanerConfig{
		RetentionDays: 7,
	}, store.logger)
	cleaner.Stop()
}
