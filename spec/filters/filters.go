// Package filters computes synthetic broadband photometry and
// rest-frame UVJ magnitudes from sampled spectra.
package filters

import (
	"math"

	"github.com/cwbudde/algo-astro/spec/core"
	"github.com/cwbudde/algo-astro/spec/interp"
)

const speedOfLightAS = 2.998e18 // Angstrom/s

// Filter is a throughput curve sampled on its own wavelength grid
// (Angstroms, ascending).
type Filter struct {
	Name       string
	Wavs       []float64
	Throughput []float64
}

// TopHat returns a filter with unit throughput between lo and hi.
func TopHat(name string, lo, hi float64) Filter {
	return Filter{
		Name:       name,
		Wavs:       []float64{lo, hi},
		Throughput: []float64{1, 1},
	}
}

// MeanFluxDensity returns the photon-weighted mean flux density of the
// spectrum (wavs, flux) through the filter:
//
//	<f> = Int f(w) T(w) w dw / Int T(w) w dw
//
// The throughput is interpolated onto the spectrum grid with zero fill
// outside the filter's coverage. Returns 0 for empty overlap.
func (f Filter) MeanFluxDensity(wavs, flux []float64) float64 {
	t := interp.Linear(wavs, f.Wavs, f.Throughput, 0, 0)

	num := make([]float64, len(wavs))
	den := make([]float64, len(wavs))
	for i := range wavs {
		num[i] = flux[i] * t[i] * wavs[i]
		den[i] = t[i] * wavs[i]
	}

	d := core.Trapz(den, wavs)
	if d <= 0 {
		return 0
	}

	return core.Trapz(num, wavs) / d
}

// EffectiveWavelength returns the throughput-weighted mean wavelength.
func (f Filter) EffectiveWavelength() float64 {
	num := make([]float64, len(f.Wavs))
	for i := range f.Wavs {
		num[i] = f.Throughput[i] * f.Wavs[i]
	}

	d := core.Trapz(f.Throughput, f.Wavs)
	if d <= 0 {
		return 0
	}

	return core.Trapz(num, f.Wavs) / d
}

// Photometry returns the mean flux density of the observed-frame
// spectrum through each filter, in filter order.
func Photometry(filts []Filter, obsWavs, flux []float64) []float64 {
	out := make([]float64, len(filts))
	for i, f := range filts {
		out[i] = f.MeanFluxDensity(obsWavs, flux)
	}

	return out
}

// UVJ rest-frame top-hat passbands.
var uvjBands = []Filter{
	TopHat("U", 3150, 3950),
	TopHat("V", 4950, 5750),
	TopHat("J", 11000, 13500),
}

// UVJ computes rest-frame U, V and J AB magnitudes from a rest-frame
// spectrum in per-wavelength flux density. Bands with no flux yield
// +Inf (an AB magnitude of an empty band).
func UVJ(restWavs, flux []float64) [3]float64 {
	var out [3]float64

	for i, band := range uvjBands {
		fLambda := band.MeanFluxDensity(restWavs, flux)
		eff := band.EffectiveWavelength()

		fNu := fLambda * eff * eff / speedOfLightAS
		if fNu <= 0 {
			out[i] = math.Inf(1)
			continue
		}

		out[i] = -2.5*math.Log10(fNu) - 48.6
	}

	return out
}
