package server

import (
	"github.com/afroash/pool-monitor/internal/models"
	"github.com/afroash/pool-monitor/internal/storage"
)

// ReadingStore is the storage contract the handlers consume.
// storage.SQLiteStore implements it for durable deployments; MemoryStore
// implements it for tests and DB-less runs. Correctness of the pipeline
// does not depend on which one backs it.
type ReadingStore interface {
	// PutCurrentAndAppendHistory replaces the current reading and appends
	// a history record as one atomic write
	PutCurrentAndAppendHistory(reading *models.Reading) error

	// GetCurrent returns the most recent reading for a sensor, or nil if
	// nothing has been ingested yet
	GetCurrent(sensorID string) (*models.Reading, error)

	// GetHistory returns the n most recent history records (newest first)
	GetHistory(sensorID string, limit int) ([]*models.Reading, error)

	// CountHistory returns the number of history records for a sensor
	CountHistory(sensorID string) (int64, error)

	// GetStorageStats returns statistics about the store
	GetStorageStats() (*storage.StorageStats, error)
}
