package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/afroash/pool-monitor/internal/models"
)

// ReadingBuffer is a thread-safe bounded queue of unsent readings.
// When full, the oldest reading is dropped: the freshest temperature is
// always the one worth delivering.
type ReadingBuffer struct {
	readings []*models.Reading
	capacity int
	mutex    sync.RWMutex
	stats    BufferStats
}

// BufferStats tracks buffer usage statistics
type BufferStats struct {
	TotalPushed   int64
	TotalDropped  int64
	HighWaterMark int
	LastPushTime  time.Time
}

// NewReadingBuffer creates a new reading buffer with given capacity
func NewReadingBuffer(capacity int) *ReadingBuffer {
	return &ReadingBuffer{
		readings: make([]*models.Reading, 0, capacity),
		capacity: capacity,
	}
}

// Push adds a reading to the buffer, dropping the oldest when full
func (rb *ReadingBuffer) Push(reading *models.Reading) {
	rb.mutex.Lock()
	defer rb.mutex.Unlock()

	if len(rb.readings) >= rb.capacity {
		rb.readings = rb.readings[1:]
		rb.stats.TotalDropped++
	}
	rb.readings = append(rb.readings, reading)
	rb.stats.TotalPushed++
	rb.stats.LastPushTime = time.Now()

	if len(rb.readings) > rb.stats.HighWaterMark {
		rb.stats.HighWaterMark = len(rb.readings)
	}
}

// Peek returns the oldest reading without removing it, or nil if empty
func (rb *ReadingBuffer) Peek() *models.Reading {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()

	if len(rb.readings) == 0 {
		return nil
	}
	return rb.readings[0]
}

// Pop removes and returns the oldest reading, or nil if empty
func (rb *ReadingBuffer) Pop() *models.Reading {
	rb.mutex.Lock()
	defer rb.mutex.Unlock()

	if len(rb.readings) == 0 {
		return nil
	}
	reading := rb.readings[0]
	rb.readings = rb.readings[1:]
	return reading
}

// Size returns the current number of readings in the buffer
func (rb *ReadingBuffer) Size() int {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()
	return len(rb.readings)
}

// IsEmpty returns true if buffer has no readings
func (rb *ReadingBuffer) IsEmpty() bool {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()
	return len(rb.readings) == 0
}

// Capacity returns the maximum capacity of the buffer
func (rb *ReadingBuffer) Capacity() int {
	// No lock needed, capacity doesn't change
	return rb.capacity
}

// Stats returns a copy of current buffer statistics
func (rb *ReadingBuffer) Stats() BufferStats {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()
	return rb.stats
}

// String returns a human-readable representation of buffer state
func (rb *ReadingBuffer) String() string {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()

	return fmt.Sprintf("Buffer[%d/%d, dropped: %d]",
		len(rb.readings),
		rb.capacity,
		rb.stats.TotalDropped,
	)
}
