package ramp

import "math"

// State is the brightness of a light, in lumen, read at the start of a ramp.
type State struct {
	Current int
	Min     int
	Max     int
}

func clamp(t, min, max int) int {
	if min > max {
		min, max = max, min
	}
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}

// TargetBrightness converts a percentage of the device range into lumen. The result is rounded up
// and always lies within [s.Min, s.Max].
func TargetBrightness(s State, percentage int) int {
	lumen := float64(s.Min) + float64(percentage*(s.Max-s.Min))/100
	return clamp(int(math.Ceil(lumen)), s.Min, s.Max)
}

// Percentage reports where lumen sits within the device range, rounded to the nearest percent.
func Percentage(s State, lumen int) int {
	if s.Max == s.Min {
		return 100
	}
	return int(math.Round(float64(lumen-s.Min) / float64(s.Max-s.Min) * 100))
}
