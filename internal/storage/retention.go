package storage

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RetentionCleaner prunes history rows past a configured age.
// History is unbounded by default; the cleaner only exists when a
// retention window is configured. It never touches the current reading,
// so a pool that stops reporting keeps its last known temperature.
type RetentionCleaner struct {
	store         *SQLiteStore
	logger        zerolog.Logger
	retentionDays int
	cleanupPeriod time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup

	mu              sync.RWMutex
	totalDeleted    int64
	totalCleanups   int64
	lastCleanup     time.Time
	lastDeleteCount int64
}

// RetentionCleanerConfig holds configuration for the cleaner
type RetentionCleanerConfig struct {
	RetentionDays int           // age past which history rows are pruned
	CleanupPeriod time.Duration // how often to prune (default: 1 hour)
}

// RetentionCleanerStats contains statistics about the cleaner
type RetentionCleanerStats struct {
	TotalDeleted    int64     `json:"total_deleted"`
	TotalCleanups   int64     `json:"total_cleanups"`
	LastCleanup     time.Time `json:"last_cleanup,omitempty"`
	LastDeleteCount int64     `json:"last_delete_count"`
	RetentionDays   int       `json:"retention_days"`
}

// NewRetentionCleaner starts a cleaner pruning on the given period.
// The first prune happens right away, so history accumulated while the
// server was down doesn't linger until the first tick.
func NewRetentionCleaner(store *SQLiteStore, config RetentionCleanerConfig, logger zerolog.Logger) *RetentionCleaner {
	cleanupPeriod := config.CleanupPeriod
	if cleanupPeriod <= 0 {
		// A zero period would panic time.NewTicker
		cleanupPeriod = 1 * time.Hour
		logger.Warn().
			Dur("default_period", cleanupPeriod).
			Msg("Invalid cleanup period, using default")
	}

	c := &RetentionCleaner{
		store:         store,
		logger:        logger,
		retentionDays: config.RetentionDays,
		cleanupPeriod: cleanupPeriod,
		stopChan:      make(chan struct{}),
	}

	c.wg.Add(1)
	go c.pruneLoop()

	logger.Info().
		Int("retention_days", config.RetentionDays).
		Dur("cleanup_period", cleanupPeriod).
		Msg("Retention cleaner started")

	return c
}

func (c *RetentionCleaner) pruneLoop() {
	defer c.wg.Done()

	c.prune()

	ticker := time.NewTicker(c.cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.prune()
		case <-c.stopChan:
			c.logger.Info().Msg("Retention cleaner stopped")
			return
		}
	}
}

// prune deletes history rows older than the retention window
func (c *RetentionCleaner) prune() {
	deleted, err := c.store.DeleteHistoryOlderThan(c.retentionDays)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalCleanups++
	c.lastCleanup = time.Now()

	if err != nil {
		c.logger.Error().Err(err).Msg("Retention cleanup failed")
		return
	}

	c.totalDeleted += deleted
	c.lastDeleteCount = deleted
	if deleted > 0 {
		c.logger.Info().
			Int64("deleted", deleted).
			Int("retention_days", c.retentionDays).
			Msg("Pruned old history")
	}
}

// Stop gracefully stops the cleaner
func (c *RetentionCleaner) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
}

// Stats returns current cleaner statistics
func (c *RetentionCleaner) Stats() RetentionCleanerStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return RetentionCleanerStats{
		TotalDeleted:    c.totalDeleted,
		TotalCleanups:   c.totalCleanups,
		LastCleanup:     c.lastCleanup,
		LastDeleteCount: c.lastDeleteCount,
		RetentionDays:   c.retentionDays,
	}
}

// RunNow triggers an immediate prune outside the normal cadence
func (c *RetentionCleaner) RunNow() {
	c.prune()
}
