package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/pool-monitor/internal/models"
)

// ReporterConfig holds configuration for the reporter
type ReporterConfig struct {
	URL            string        // write endpoint
	APIKey         string        // shared write credential
	SensorID       string        // logical sensor identifier
	ReadInterval   time.Duration // how often to read the probe
	SubmitTimeout  time.Duration // per-request timeout
	RetryInterval  time.Duration // initial retry delay after a failed submit
	MaxRetryDelay  time.Duration // cap for the retry backoff
	BufferCapacity int           // unsent readings kept across outages
}

// Reporter periodically reads the probe and submits each reading to the
// ingestion endpoint. Readings that cannot be delivered are buffered and
// retried with exponential backoff; the server is free to reject
// duplicates into history, so redelivery is safe.
type Reporter struct {
	source      TemperatureSource
	buffer      *ReadingBuffer
	client      *http.Client
	logger      zerolog.Logger
	config      ReporterConfig
	retryDelay  time.Duration
	nextAttempt time.Time
}

// NewReporter creates a new reporter
func NewReporter(source TemperatureSource, config ReporterConfig, logger zerolog.Logger) *Reporter {
	if config.ReadInterval <= 0 {
		config.ReadInterval = 60 * time.Second
	}
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = 10 * time.Second
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = time.Second
	}
	if config.MaxRetryDelay <= 0 {
		config.MaxRetryDelay = 5 * time.Minute
	}
	if config.BufferCapacity <= 0 {
		config.BufferCapacity = 100
	}

	return &Reporter{
		source:     source,
		buffer:     NewReadingBuffer(config.BufferCapacity),
		client:     &http.Client{Timeout: config.SubmitTimeout},
		logger:     logger,
		config:     config,
		retryDelay: config.RetryInterval,
	}
}

// Run reads and reports until the context is cancelled.
// The first read happens immediately.
func (r *Reporter) Run(ctx context.Context) {
	r.logger.Info().
		Str("url", r.config.URL).
		Dur("read_interval", r.config.ReadInterval).
		Msg("Reporter started")

	ticker := time.NewTicker(r.config.ReadInterval)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Reporter stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick reads the probe once and flushes whatever is deliverable
func (r *Reporter) tick(ctx context.Context) {
	value, err := r.source.Read()
	if err != nil {
		r.logger.Warn().Err(err).Msg("Probe read failed")
	} else {
		r.buffer.Push(models.NewReading(r.config.SensorID, value))
	}

	r.flush(ctx)
}

// flush submits buffered readings oldest-first until the buffer is empty
// or a submit fails. Failures back off exponentially.
func (r *Reporter) flush(ctx context.Context) {
	if time.Now().Before(r.nextAttempt) {
		return
	}

	for {
		reading := r.buffer.Peek()
		if reading == nil {
			return
		}

		retryable, err := r.submit(ctx, reading)
		if err != nil {
			if !retryable {
				r.logger.Error().Err(err).Msg("Dropping rejected reading")
				r.buffer.Pop()
				continue
			}
			r.nextAttempt = time.Now().Add(r.retryDelay)
			r.logger.Warn().
				Err(err).
				Dur("retry_in", r.retryDelay).
				Int("buffered", r.buffer.Size()).
				Msg("Submit failed, will retry")
			r.retryDelay *= 2
			if r.retryDelay > r.config.MaxRetryDelay {
				r.retryDelay = r.config.MaxRetryDelay
			}
			return
		}

		r.buffer.Pop()
		r.retryDelay = r.config.RetryInterval
		r.logger.Debug().Float64("temperature", reading.Temperature).Msg("Reading submitted")
	}
}

// submit POSTs one reading to the write endpoint. The bool reports
// whether a failure is worth retrying: a 400 means the reading itself is
// bad and redelivery would never succeed.
func (r *Reporter) submit(ctx context.Context, reading *models.Reading) (bool, error) {
	payload := models.WriteRequest{
		Temperature: json.Number(strconv.FormatFloat(reading.Temperature, 'f', -1, 64)),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to marshal reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.URL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", r.config.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("submit failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return false, nil
	case resp.StatusCode == http.StatusBadRequest:
		return false, fmt.Errorf("server rejected reading: status %d", resp.StatusCode)
	default:
		return true, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// BufferStats exposes the unsent buffer statistics
func (r *Reporter) BufferStats() BufferStats {
	return r.buffer.Stats()
}
