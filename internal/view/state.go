package view

import (
	"sync"
	"time"

	"github.com/afroash/pool-monitor/internal/models"
)

// ViewState is the ephemeral display state of one viewing session.
// It is owned by the session's Reconciler and never persisted.
type ViewState struct {
	DisplayedValue float64
	TargetValue    float64
	LastObservedAt time.Time // timestamp of the reading itself
	LastFetchedAt  time.Time // wall-clock time of the fetch
	Feel           Feel
}

// Reconciler owns the view state for a single viewing session.
// Poll results move the target; frames move the displayed value toward
// it and re-classify the feel so number and category stay consistent.
type Reconciler struct {
	mu         sync.Mutex
	transition *Transition
	thresholds Thresholds
	state      ViewState
}

// NewReconciler creates a reconciler with a settled zero display
func NewReconciler(duration time.Duration, thresholds Thresholds) *Reconciler {
	return &Reconciler{
		transition: NewTransition(0, duration),
		thresholds: thresholds,
		state: ViewState{
			Feel: FeelUnknown,
		},
	}
}

// ApplyResult consumes a poll result. A nil reading means the server has
// nothing yet; only the fetch time advances so staleness stays visible.
func (rc *Reconciler) ApplyResult(reading *models.Reading, fetchedAt time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.state.LastFetchedAt = fetchedAt
	if reading == nil {
		return
	}

	rc.state.TargetValue = reading.Temperature
	rc.state.LastObservedAt = reading.Timestamp
	rc.transition.SetTarget(reading.Temperature, time.Now())
}

// Frame advances the animation to now and returns the state to render
func (rc *Reconciler) Frame(now time.Time) ViewState {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.state.DisplayedValue = rc.transition.Frame(now)
	rc.state.Feel = rc.thresholds.Classify(rc.state.DisplayedValue)
	return rc.state
}

// Snapshot returns the current state without advancing the animation
func (rc *Reconciler) Snapshot() ViewState {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state
}
