package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/afroash/pool-monitor/internal/models"
)

// Store defines the interface for durable reading storage
type Store interface {
	Close() error
	Migrate() error
	PutCurrentAndAppendHistory(reading *models.Reading) error
	GetCurrent(sensorID string) (*models.Reading, error)
	GetHistory(sensorID string, limit int) ([]*models.Reading, error)
	CountHistory(sensorID string) (int64, error)
	DeleteHistoryOlderThan(days int) (int64, error)
	GetStorageStats() (*StorageStats, error)
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// timestampFormat is fixed-width: SQLite compares TEXT columns byte by
// byte, and a trimmed fractional second ("...05.1Z" vs "...05.123Z")
// would not order chronologically.
const timestampFormat = "2006-01-02 15:04:05.000000000"

// SQLiteStore persists the current reading and the append-only history.
// The two tables are projections of the same write: "current" holds one
// row per sensor and is replaced on ingest, "history" only ever grows.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// StorageStats contains information about the database
type StorageStats struct {
	TotalHistory   int64     `json:"total_history"`
	OldestReading  time.Time `json:"oldest_reading,omitempty"`
	NewestReading  time.Time `json:"newest_reading,omitempty"`
	DatabaseSizeMB float64   `json:"database_size_mb"`
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply performance pragmas for SQLite
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	// Configure connection pool for SQLite (single writer)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	// Auto-migrate schema
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("SQLite store initialized")

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates the database schema if it doesn't exist
func (s *SQLiteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS current_reading (
		sensor_id TEXT PRIMARY KEY,
		temperature REAL NOT NULL,
		recorded_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS temperature_history (
		id TEXT PRIMARY KEY,
		sensor_id TEXT NOT NULL,
		temperature REAL NOT NULL,
		recorded_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_sensor_time ON temperature_history(sensor_id, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_history_time ON temperature_history(recorded_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.logger.Debug().Msg("Database schema migrated")
	return nil
}

// PutCurrentAndAppendHistory replaces the current reading and appends a
// history record in one transaction. Either both rows land or neither
// does. The upsert refuses to move "current" backwards: a write carrying
// an older timestamp than the stored row only appends history.
func (s *SQLiteStore) PutCurrentAndAppendHistory(reading *models.Reading) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	recordedAt := reading.Timestamp.UTC().Format(timestampFormat)

	_, err = tx.Exec(`
		INSERT INTO current_reading (sensor_id, temperature, recorded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(sensor_id) DO UPDATE SET
			temperature = excluded.temperature,
			recorded_at = excluded.recorded_at
		WHERE excluded.recorded_at >= current_reading.recorded_at
	`, reading.SensorID, reading.Temperature, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to put current reading: %w", err)
	}

	historyID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO temperature_history (id, sensor_id, temperature, recorded_at)
		VALUES (?, ?, ?, ?)
	`, historyID, reading.SensorID, reading.Temperature, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	reading.ID = historyID
	return nil
}

// GetCurrent returns the current reading for a sensor.
// Returns nil (not an error) when nothing has been ingested yet.
func (s *SQLiteStore) GetCurrent(sensorID string) (*models.Reading, error) {
	query := `
		SELECT temperature, recorded_at
		FROM current_reading
		WHERE sensor_id = ?
	`

	var r models.Reading
	var recordedAt string

	err := s.db.QueryRow(query, sensorID).Scan(&r.Temperature, &recordedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current reading: %w", err)
	}

	r.SensorID = sensorID
	r.Timestamp, err = s.parseTimestamp(recordedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
	}

	return &r, nil
}

// GetHistory returns the most recent history records, newest first
func (s *SQLiteStore) GetHistory(sensorID string, limit int) ([]*models.Reading, error) {
	query := `
		SELECT id, sensor_id, temperature, recorded_at
		FROM temperature_history
		WHERE sensor_id = ?
		ORDER BY recorded_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, sensorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return s.scanReadings(rows)
}

// CountHistory returns the number of history records for a sensor
func (s *SQLiteStore) CountHistory(sensorID string) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM temperature_history WHERE sensor_id = ?",
		sensorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// DeleteHistoryOlderThan removes history records older than the specified
// number of days. The current reading is never touched.
func (s *SQLiteStore) DeleteHistoryOlderThan(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	result, err := s.db.Exec(
		"DELETE FROM temperature_history WHERE recorded_at < ?",
		cutoff.Format(timestampFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.logger.Info().
		Int("days", days).
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Deleted old history records")

	return deleted, nil
}

// GetStorageStats returns statistics about the database
func (s *SQLiteStore) GetStorageStats() (*StorageStats, error) {
	stats := &StorageStats{}

	err := s.db.QueryRow("SELECT COUNT(*) FROM temperature_history").Scan(&stats.TotalHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	// If no history, return early with zero values
	if stats.TotalHistory == 0 {
		return stats, nil
	}

	var oldestStr, newestStr string
	err = s.db.QueryRow("SELECT MIN(recorded_at), MAX(recorded_at) FROM temperature_history").
		Scan(&oldestStr, &newestStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get timestamp range: %w", err)
	}

	stats.OldestReading, _ = s.parseTimestamp(oldestStr)
	stats.NewestReading, _ = s.parseTimestamp(newestStr)

	var pageCount, pageSize int64
	s.db.QueryRow("PRAGMA page_count").Scan(&pageCount)
	s.db.QueryRow("PRAGMA page_size").Scan(&pageSize)
	stats.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)

	return stats, nil
}

// scanReadings scans multiple rows into a slice of readings
func (s *SQLiteStore) scanReadings(rows *sql.Rows) ([]*models.Reading, error) {
	var readings []*models.Reading

	for rows.Next() {
		var r models.Reading
		var recordedAt string

		err := rows.Scan(&r.ID, &r.SensorID, &r.Temperature, &recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		r.Timestamp, err = s.parseTimestamp(recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}

		readings = append(readings, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return readings, nil
}

// parseTimestamp tries multiple formats to parse a SQLite timestamp
func (s *SQLiteStore) parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		timestampFormat,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
