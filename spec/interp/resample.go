package interp

import "math"

// binEdges returns the midpoint bin edges of a wavelength grid.
// A grid of n centers yields n+1 edges; the outer edges mirror the
// first and last bin widths.
func binEdges(centers []float64) []float64 {
	n := len(centers)
	edges := make([]float64, n+1)

	for i := 1; i < n; i++ {
		edges[i] = 0.5 * (centers[i-1] + centers[i])
	}

	edges[0] = centers[0] - 0.5*(centers[1]-centers[0])
	edges[n] = centers[n-1] + 0.5*(centers[n-1]-centers[n-2])

	return edges
}

// Resample rebins flux (per unit wavelength, sampled at oldWavs) onto
// newWavs, conserving integrated flux over the overlap of each output
// bin with the source grid. Output bins entirely outside the source
// range are filled with zero. Both grids must be ascending and hold at
// least two points.
func Resample(newWavs, oldWavs, flux []float64) []float64 {
	out := make([]float64, len(newWavs))
	if len(newWavs) < 2 || len(oldWavs) < 2 || len(flux) < len(oldWavs) {
		return out
	}

	oldEdges := binEdges(oldWavs)
	newEdges := binEdges(newWavs)

	j := 0
	for i := range newWavs {
		lo := newEdges[i]
		hi := newEdges[i+1]

		if hi <= oldEdges[0] || lo >= oldEdges[len(oldEdges)-1] {
			continue
		}

		// Clip the output bin to the source coverage so partially
		// covered edge bins keep a sensible mean flux density.
		cLo := math.Max(lo, oldEdges[0])
		cHi := math.Min(hi, oldEdges[len(oldEdges)-1])

		for j > 0 && oldEdges[j] > cLo {
			j--
		}

		for j < len(oldWavs)-1 && oldEdges[j+1] <= cLo {
			j++
		}

		sum := 0.0
		for k := j; k < len(oldWavs); k++ {
			left := math.Max(oldEdges[k], cLo)
			right := math.Min(oldEdges[k+1], cHi)

			if right <= left {
				if oldEdges[k] >= cHi {
					break
				}

				continue
			}

			sum += flux[k] * (right - left)
		}

		out[i] = sum / (cHi - cLo)
	}

	return out
}
