package view

import (
	"testing"
	"time"

	"github.com/afroash/pool-monitor/internal/models"
)

func TestReconciler_InitialState(t *testing.T) {
	rc := NewReconciler(4*time.Second, DefaultThresholds)

	state := rc.Frame(time.Now())
	if state.Feel != FeelUnknown {
		t.Errorf("initial feel = %v, want unknown", state.Feel)
	}
	if state.DisplayedValue != 0 {
		t.Errorf("initial displayed value = %v, want 0", state.DisplayedValue)
	}
	if !state.LastFetchedAt.IsZero() {
		t.Error("LastFetchedAt should be zero before the first poll")
	}
}

func TestReconciler_NilReadingAdvancesFetchTimeOnly(t *testing.T) {
	rc := NewReconciler(4*time.Second, DefaultThresholds)

	fetchedAt := time.Now()
	rc.ApplyResult(nil, fetchedAt)

	state := rc.Snapshot()
	if !state.LastFetchedAt.Equal(fetchedAt) {
		t.Errorf("LastFetchedAt = %v, want %v", state.LastFetchedAt, fetchedAt)
	}
	if !state.LastObservedAt.IsZero() {
		t.Error("LastObservedAt should stay zero when the server has nothing")
	}
	if state.TargetValue != 0 {
		t.Errorf("TargetValue = %v, want 0", state.TargetValue)
	}
}

// A fetched 23.5 animates in and settles exactly on target,
// classified warm with the default 20/26 thresholds.
func TestReconciler_AppliedReadingAnimatesAndSettles(t *testing.T) {
	duration := 4 * time.Second
	rc := NewReconciler(duration, DefaultThresholds)

	measuredAt := time.Now().Add(-30 * time.Second)
	fetchedAt := time.Now()
	rc.ApplyResult(&models.Reading{
		Temperature: 23.5,
		Timestamp:   measuredAt,
	}, fetchedAt)

	state := rc.Snapshot()
	if state.TargetValue != 23.5 {
		t.Errorf("TargetValue = %v, want 23.5", state.TargetValue)
	}
	if !state.LastObservedAt.Equal(measuredAt) {
		t.Errorf("LastObservedAt = %v, want %v", state.LastObservedAt, measuredAt)
	}

	// Early frame: still in flight, between baseline and target
	early := rc.Frame(time.Now().Add(duration / 4))
	if early.DisplayedValue <= 0 || early.DisplayedValue > 23.5 {
		t.Errorf("in-flight displayed value = %v, want within (0, 23.5]", early.DisplayedValue)
	}

	// Past the duration: exactly the target, classified warm
	final := rc.Frame(time.Now().Add(duration + time.Second))
	if final.DisplayedValue != 23.5 {
		t.Errorf("settled displayed value = %v, want exactly 23.5", final.DisplayedValue)
	}
	if final.Feel != FeelWarm {
		t.Errorf("settled feel = %v, want warm", final.Feel)
	}
}

// Category tracks the displayed number frame to frame, not the target,
// so a transition crossing a threshold changes feel mid-flight.
func TestReconciler_FeelFollowsDisplayedValue(t *testing.T) {
	duration := 2 * time.Second
	rc := NewReconciler(duration, DefaultThresholds)

	rc.ApplyResult(&models.Reading{Temperature: 18, Timestamp: time.Now()}, time.Now())
	state := rc.Frame(time.Now().Add(duration + time.Second))
	if state.Feel != FeelCold {
		t.Fatalf("feel = %v, want cold at 18", state.Feel)
	}

	// New reading well into perfect territory
	rc.ApplyResult(&models.Reading{Temperature: 28, Timestamp: time.Now()}, time.Now())

	crossed := false
	start := time.Now()
	for elapsed := time.Duration(0); elapsed <= duration; elapsed += 50 * time.Millisecond {
		state = rc.Frame(start.Add(elapsed))
		if state.Feel == FeelWarm {
			crossed = true
		}
	}
	if !crossed {
		t.Error("feel never passed through warm while the number climbed from 18 to 28")
	}

	final := rc.Frame(start.Add(duration + time.Second))
	if final.Feel != FeelPerfect {
		t.Errorf("final feel = %v, want perfect", final.Feel)
	}
}
