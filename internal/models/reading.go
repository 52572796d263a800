package models

import (
	"fmt"
	"math"
	"time"
)

// Reading represents a single temperature measurement from the pool probe.
type Reading struct {
	ID          string    `json:"id,omitempty"`
	SensorID    string    `json:"sensor_id"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsValid checks that the reading can be persisted.
// Temperature must be a finite number; NaN and ±Inf are rejected.
func (r *Reading) IsValid() bool {
	if r.SensorID == "" {
		return false
	}

	if r.Timestamp.IsZero() {
		return false
	}

	if math.IsNaN(r.Temperature) || math.IsInf(r.Temperature, 0) {
		return false
	}

	return true
}

// get the reading as a string
func (r *Reading) String() string {
	return fmt.Sprintf("SensorID: %s, Timestamp: %s, Temperature: %.2f°C",
		r.SensorID,
		r.Timestamp.Format(time.RFC3339),
		r.Temperature)
}

// NewReading creates a new Reading with the current timestamp.
// The history ID is assigned by the store on write, not here.
func NewReading(sensorID string, temperature float64) *Reading {
	return &Reading{
		SensorID:    sensorID,
		Temperature: temperature,
		Timestamp:   time.Now().UTC(),
	}
}

// Copy returns a deep copy of the Reading
func (r *Reading) Copy() *Reading {
	if r == nil {
		return nil
	}
	return &Reading{
		ID:          r.ID,
		SensorID:    r.SensorID,
		Temperature: r.Temperature,
		Timestamp:   r.Timestamp,
	}
}
