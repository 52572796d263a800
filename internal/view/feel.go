package view

import "math"

// Feel is the discrete comfort category for a water temperature
type Feel string

const (
	FeelUnknown Feel = "unknown"
	FeelCold    Feel = "cold"
	FeelWarm    Feel = "warm"
	FeelPerfect Feel = "perfect"
)

// Emoji returns the display glyph for a feel
func (f Feel) Emoji() string {
	switch f {
	case FeelCold:
		return "🥶"
	case FeelWarm:
		return "🤷"
	case FeelPerfect:
		return "👌"
	default:
		return "😕"
	}
}

// Thresholds define the category boundaries in °C.
// Below Cold the water is cold, below Perfect it is merely warm,
// at or above Perfect it is perfect.
type Thresholds struct {
	Cold    float64
	Perfect float64
}

// DefaultThresholds matches the pool owner's tolerance
var DefaultThresholds = Thresholds{
	Cold:    20,
	Perfect: 26,
}

// Classify maps a temperature to its feel bucket.
// Zero and non-finite values mean "no reading", not "freezing".
func (t Thresholds) Classify(temperature float64) Feel {
	if temperature == 0 || math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return FeelUnknown
	}

	if temperature < t.Cold {
		return FeelCold
	}

	if temperature < t.Perfect {
		return FeelWarm
	}

	return FeelPerfect
}

// Classify buckets a temperature using the default thresholds
func Classify(temperature float64) Feel {
	return DefaultThresholds.Classify(temperature)
}
