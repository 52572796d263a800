package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/afroash/pool-monitor/internal/models"
	"github.com/afroash/pool-monitor/internal/storage"
)

// Compile-time interface check
var _ ReadingStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of ReadingStore.
// Used when no database path is configured, and in handler tests.
// History is kept in insertion order and never mutated after append.
type MemoryStore struct {
	current map[string]*models.Reading
	history map[string][]*models.Reading
	mutex   sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		current: make(map[string]*models.Reading),
		history: make(map[string][]*models.Reading),
	}
}

// PutCurrentAndAppendHistory replaces the current reading and appends a
// history record. Current never regresses to an older timestamp.
func (ms *MemoryStore) PutCurrentAndAppendHistory(reading *models.Reading) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	entry := reading.Copy()
	entry.ID = uuid.NewString()
	ms.history[reading.SensorID] = append(ms.history[reading.SensorID], entry)

	existing := ms.current[reading.SensorID]
	if existing == nil || !reading.Timestamp.Before(existing.Timestamp) {
		ms.current[reading.SensorID] = reading.Copy()
	}

	reading.ID = entry.ID
	return nil
}

// GetCurrent returns the most recent reading for a sensor, or nil
func (ms *MemoryStore) GetCurrent(sensorID string) (*models.Reading, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	// Return a copy, not a pointer to internal data
	return ms.current[sensorID].Copy(), nil
}

// GetHistory returns the n most recent history records, newest first
func (ms *MemoryStore) GetHistory(sensorID string, limit int) ([]*models.Reading, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	entries := ms.history[sensorID]
	if len(entries) == 0 {
		return nil, nil
	}

	start := len(entries) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*models.Reading, 0, len(entries)-start)
	for i := len(entries) - 1; i >= start; i-- {
		result = append(result, entries[i].Copy())
	}
	return result, nil
}

// CountHistory returns the number of history records for a sensor
func (ms *MemoryStore) CountHistory(sensorID string) (int64, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return int64(len(ms.history[sensorID])), nil
}

// GetStorageStats returns statistics about the in-memory store
func (ms *MemoryStore) GetStorageStats() (*storage.StorageStats, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	stats := &storage.StorageStats{}
	for _, entries := range ms.history {
		stats.TotalHistory += int64(len(entries))
		for _, entry := range entries {
			if stats.OldestReading.IsZero() || entry.Timestamp.Before(stats.OldestReading) {
				stats.OldestReading = entry.Timestamp
			}
			if entry.Timestamp.After(stats.NewestReading) {
				stats.NewestReading = entry.Timestamp
			}
		}
	}
	return stats, nil
}

// Clear removes all data from the store
func (ms *MemoryStore) Clear() {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.current = make(map[string]*models.Reading)
	ms.history = make(map[string][]*models.Reading)
}
