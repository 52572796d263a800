package view

import (
	"math"
	"time"
)

// Transition eases a displayed number from a baseline to a target over a
// fixed duration. Frame is meant to be called once per animation frame;
// once the duration has elapsed the value snaps exactly to the target and
// stays there. Retargeting mid-flight re-anchors the baseline to the
// value currently on screen, so the number never jumps.
type Transition struct {
	start     float64
	target    float64
	current   float64
	startTime time.Time
	duration  time.Duration
	settled   bool
}

// NewTransition creates a transition settled at the initial value
func NewTransition(initial float64, duration time.Duration) *Transition {
	if duration <= 0 {
		duration = 4 * time.Second
	}
	return &Transition{
		start:    initial,
		target:   initial,
		current:  initial,
		duration: duration,
		settled:  true,
	}
}

// SetTarget starts a new transition toward target, anchored at now.
// The baseline is whatever value is currently displayed.
func (t *Transition) SetTarget(target float64, now time.Time) {
	t.start = t.current
	t.target = target
	t.startTime = now
	t.settled = t.start == t.target
}

// Frame advances the transition to now and returns the displayed value.
// Never overshoots: at or past the duration the value is exactly target.
func (t *Transition) Frame(now time.Time) float64 {
	if t.settled {
		return t.current
	}

	elapsed := now.Sub(t.startTime)
	if elapsed >= t.duration {
		t.current = t.target
		t.settled = true
		return t.current
	}

	x := float64(elapsed) / float64(t.duration)
	if x < 0 {
		x = 0
	}

	t.current = t.start + (t.target-t.start)*easeInOutExpo(x)
	return t.current
}

// Value returns the currently displayed value without advancing time
func (t *Transition) Value() float64 {
	return t.current
}

// Settled returns true when the transition has reached its target
func (t *Transition) Settled() bool {
	return t.settled
}

// easeInOutExpo accelerates through the first half of the transition and
// decelerates through the second, symmetric around the midpoint
func easeInOutExpo(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	if x < 0.5 {
		return math.Pow(2, 20*x-10) / 2
	}
	return (2 - math.Pow(2, -20*x+10)) / 2
}
