package models

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"
)

// ErrInvalidTemperature is returned when a submitted temperature is
// missing, non-numeric, or not a finite number.
var ErrInvalidTemperature = errors.New("invalid temperature")

// WriteRequest is the body of POST /write. The temperature field may be
// sent as a JSON number or a numeric string; devices in the field do both.
type WriteRequest struct {
	Temperature json.Number `json:"temperature"`
}

// ParseTemperature extracts a finite float from the request.
func (wr *WriteRequest) ParseTemperature() (float64, error) {
	if wr.Temperature == "" {
		return 0, ErrInvalidTemperature
	}

	value, err := strconv.ParseFloat(wr.Temperature.String(), 64)
	if err != nil {
		return 0, ErrInvalidTemperature
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidTemperature
	}

	return value, nil
}

// WriteResponse is the body returned by POST /write.
type WriteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the body returned by read-side endpoints on failure,
// so every endpoint speaks JSON regardless of outcome.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReadResponse is the body returned by GET /read.
// Pointers distinguish "no reading yet" from a temperature of zero;
// both fields are omitted entirely until the first ingestion.
type ReadResponse struct {
	Temperature *float64   `json:"temperature,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
}

// NewReadResponse builds the read payload from the current reading.
// A nil reading yields an empty object.
func NewReadResponse(reading *Reading) ReadResponse {
	if reading == nil {
		return ReadResponse{}
	}
	temperature := reading.Temperature
	ts := reading.Timestamp
	return ReadResponse{
		Temperature: &temperature,
		Time:        &ts,
	}
}
