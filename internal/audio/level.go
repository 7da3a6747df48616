package audio

import "math"

const (
	// MinVolume is the floor applied before the logarithm so that silence
	// maps to a finite level.
	MinVolume = 0.0001

	// DefaultMultiplier maps MinVolume to -120 dB.
	DefaultMultiplier = 30.0
)

// Level maps a linear volume to mixer decibels:
// log10(max(MinVolume, value)) * multiplier. NaN and infinities are treated
// as silence. Finite values above 1 are not clamped.
func Level(value, multiplier float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = MinVolume
	}
	return math.Log10(math.Max(MinVolume, value)) * multiplier
}
