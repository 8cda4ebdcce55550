// Package dust provides attenuation curves sampled on a wavelength
// grid and an energy-balance re-emission template.
//
// A Curve holds the continuum extinction shape ACont on the spectral
// grid and the line shape ALine at the emission-line rest wavelengths,
// both normalized to 1 at 5500 A, so that an attenuation Av in
// magnitudes produces the transmission 10^(-Av*A/2.5).
package dust

import (
	"math"

	"github.com/cwbudde/algo-astro/spec/core"
)

const normWavelength = 5500.0

// Curve holds extinction shapes. ACont is sampled on the rest-frame
// spectral grid and applies to continuum flux; ALine is sampled at the
// emission-line rest wavelengths and applies to line fluxes.
type Curve struct {
	ACont []float64
	ALine []float64
}

// PowerLaw returns a power-law curve A(wav) = (wav/5500)^-slope.
// A non-positive slope falls back to 0.7, the usual diffuse-ISM value.
func PowerLaw(wavs, lineWavs []float64, slope float64) *Curve {
	if slope <= 0 {
		slope = 0.7
	}

	shape := func(w float64) float64 { return math.Pow(w/normWavelength, -slope) }

	return &Curve{ACont: sample(wavs, shape), ALine: sample(lineWavs, shape)}
}

// Calzetti returns the Calzetti et al. (2000) starburst attenuation
// curve, normalized to 1 at 5500 A. Outside the calibrated
// 1200 A - 2.2 um range the nearest calibrated value is held.
func Calzetti(wavs, lineWavs []float64) *Curve {
	norm := calzettiK(normWavelength)
	shape := func(w float64) float64 { return calzettiK(w) / norm }

	return &Curve{ACont: sample(wavs, shape), ALine: sample(lineWavs, shape)}
}

func sample(wavs []float64, shape func(float64) float64) []float64 {
	out := make([]float64, len(wavs))
	for i, w := range wavs {
		out[i] = shape(w)
	}

	return out
}

func calzettiK(wav float64) float64 {
	um := core.Clamp(wav, 1200, 22000) / 1e4

	const rv = 4.05

	if um < 0.63 {
		return 2.659*(-2.156+1.509/um-0.198/(um*um)+0.011/(um*um*um)) + rv
	}

	return 2.659*(-1.857+1.040/um) + rv
}

// Transmission returns 10^(-av*a/2.5) element-wise.
func Transmission(av float64, a []float64) []float64 {
	out := make([]float64, len(a))
	for i, ai := range a {
		out[i] = math.Pow(10, -av*ai/2.5)
	}

	return out
}
