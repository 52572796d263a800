package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/pool-monitor/internal/models"
)

// PollerState represents the current state of the poll loop
type PollerState int

const (
	StateIdle PollerState = iota
	StateFetching
)

func (ps PollerState) String() string {
	switch ps {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// ResultFunc receives each applied poll result. The reading is nil when
// the server has nothing ingested yet; fetchedAt is the wall-clock time
// of the fetch that produced it.
type ResultFunc func(reading *models.Reading, fetchedAt time.Time)

// PollerConfig holds configuration for the poller
type PollerConfig struct {
	Interval time.Duration // poll cadence (default 5s)
	Focused  func() bool   // gate: ticks are skipped while false
	OnResult ResultFunc
}

// Poller polls the retrieval endpoint on a fixed cadence and applies
// results in arrival order. Each new tick cancels any fetch still in
// flight; a cancelled fetch never mutates state. A response carrying a
// reading older than one already applied is discarded.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	focused  func() bool
	onResult ResultFunc
	logger   zerolog.Logger

	mu           sync.Mutex
	state        PollerState
	cancel       context.CancelFunc
	active       context.Context
	lastObserved time.Time

	wg sync.WaitGroup
}

// NewPoller creates a new poller
func NewPoller(fetcher Fetcher, config PollerConfig, logger zerolog.Logger) *Poller {
	interval := config.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	focused := config.Focused
	if focused == nil {
		focused = func() bool { return true }
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		focused:  focused,
		onResult: config.OnResult,
		logger:   logger,
	}
}

// State returns the current poller state
func (p *Poller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run polls until the context is cancelled. The first fetch happens
// immediately on activation; the ticker keeps running while unfocused,
// only the work is skipped.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Dur("interval", p.interval).Msg("Poller started")

	p.startFetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.cancelInFlight()
			p.wg.Wait()
			p.logger.Info().Msg("Poller stopped")
			return
		case <-ticker.C:
			if !p.focused() {
				p.logger.Debug().Msg("Skipping poll: surface not focused")
				continue
			}
			p.startFetch(ctx)
		}
	}
}

// startFetch launches a fetch, cancelling any previous one still in flight
func (p *Poller) startFetch(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.active = fetchCtx
	p.state = StateFetching
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		reading, err := p.fetcher.FetchCurrent(fetchCtx)
		p.apply(fetchCtx, reading, err)
	}()
}

// apply settles a finished fetch under the mutex, so responses land in
// arrival order regardless of send order.
func (p *Poller) apply(fetchCtx context.Context, reading *models.Reading, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Only the fetch that is still active may settle the state machine;
	// a superseded fetch finishing late would otherwise report idle
	// while its replacement is in flight.
	if fetchCtx == p.active {
		p.state = StateIdle
	}

	// A superseded or torn-down poll is not an error; its result is
	// dropped without touching state.
	if fetchCtx.Err() != nil {
		p.logger.Debug().Msg("Dropped result of cancelled poll")
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.logger.Warn().Err(err).Msg("Poll failed, keeping last reading")
		return
	}

	// Stale-response guard
	if reading != nil && !p.lastObserved.IsZero() && reading.Timestamp.Before(p.lastObserved) {
		p.logger.Debug().
			Time("reading", reading.Timestamp).
			Time("applied", p.lastObserved).
			Msg("Discarded stale response")
		return
	}

	if reading != nil {
		p.lastObserved = reading.Timestamp
	}

	if p.onResult != nil {
		p.onResult(reading, time.Now())
	}
}

// cancelInFlight aborts any outstanding fetch
func (p *Poller) cancelInFlight() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
