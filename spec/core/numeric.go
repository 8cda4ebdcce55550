package core

import "math"

const defaultEpsilon = 1e-12

// Physical constants used throughout the synthesis pipeline.
const (
	// LSun is the solar luminosity in erg/s, used to convert model
	// spectra from internal units to erg/s/A (or erg/s/A/cm^2).
	LSun = 3.826e33

	// LymanLimit is the hydrogen ionization edge in Angstroms. Stellar
	// flux blueward of this is fully reprocessed by nebular gas.
	LymanLimit = 912.0

	// MpcInCM converts megaparsecs to centimeters.
	MpcInCM = 3.086e24
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// Trapz integrates y over x using the trapezoidal rule.
// Returns 0 if the slices are shorter than two elements.
func Trapz(y, x []float64) float64 {
	n := len(y)
	if len(x) < n {
		n = len(x)
	}

	if n < 2 {
		return 0
	}

	sum := 0.0
	for i := 1; i < n; i++ {
		sum += 0.5 * (y[i] + y[i-1]) * (x[i] - x[i-1])
	}

	return sum
}

// NearestIndex returns the index of the element of xs closest to x.
// Returns -1 for an empty slice.
func NearestIndex(xs []float64, x float64) int {
	if len(xs) == 0 {
		return -1
	}

	best := 0
	bestDiff := math.Abs(xs[0] - x)

	for i := 1; i < len(xs); i++ {
		diff := math.Abs(xs[i] - x)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}

	return best
}

// IsAscending reports whether xs is strictly increasing.
func IsAscending(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}

	return true
}
