package interp

// LinearAt returns the piecewise-linear interpolant of (xs, ys) at x.
// xs must be ascending. Outside the range of xs, left or right is
// returned instead.
func LinearAt(x float64, xs, ys []float64, left, right float64) float64 {
	n := len(xs)
	if n == 0 || len(ys) < n {
		return left
	}

	if x < xs[0] {
		return left
	}

	if x > xs[n-1] {
		return right
	}

	// Binary search for the bracketing interval.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}

	if xs[hi] == xs[lo] {
		return ys[lo]
	}

	frac := (x - xs[lo]) / (xs[hi] - xs[lo])

	return ys[lo] + frac*(ys[hi]-ys[lo])
}

// Linear interpolates (xs, ys) onto every point of xOut.
// Points outside the source range are filled with left or right.
func Linear(xOut, xs, ys []float64, left, right float64) []float64 {
	out := make([]float64, len(xOut))
	for i, x := range xOut {
		out[i] = LinearAt(x, xs, ys, left, right)
	}

	return out
}
