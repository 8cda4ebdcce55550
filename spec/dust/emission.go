package dust

import (
	"math"

	"github.com/cwbudde/algo-astro/spec/core"
)

// Emission is a three-parameter dust re-emission template sampled on a
// rest-frame wavelength grid. The spectrum is normalized to unit
// integral over the grid, so scaling it by the total attenuated flux
// conserves energy exactly.
//
// The parameters follow the Draine & Li (2007) convention: qpah sets
// the strength of the mid-infrared aromatic features, umin the
// radiation-field intensity heating the bulk of the dust, and gamma
// the fraction of dust exposed to a much stronger field.
type Emission struct {
	wavs []float64
}

// NewEmission returns a template generator on the given grid.
func NewEmission(wavs []float64) *Emission {
	return &Emission{wavs: wavs}
}

// Spectrum returns the unit-integral re-emission template for the
// given parameters. On grids with fewer than two points, or grids with
// no infrared coverage, a zero template is returned.
func (e *Emission) Spectrum(qpah, umin, gamma float64) []float64 {
	out := make([]float64, len(e.wavs))
	if len(e.wavs) < 2 {
		return out
	}

	if umin <= 0 {
		umin = 1
	}

	gamma = core.Clamp(gamma, 0, 1)

	// Cold component heated by umin, warm component by a fixed strong
	// field. Temperatures follow T ~ U^(1/6) for emission-dominated
	// grains around 18 K at U=1.
	coldT := 18.0 * math.Pow(umin, 1.0/6.0)
	warmT := 55.0

	for i, w := range e.wavs {
		v := (1-gamma)*greybody(w, coldT) + gamma*greybody(w, warmT)
		v += qpah * pahFeatures(w)
		out[i] = v
	}

	total := core.Trapz(out, e.wavs)
	if total <= 0 {
		return make([]float64, len(e.wavs))
	}

	for i := range out {
		out[i] /= total
	}

	return out
}

// greybody evaluates an emissivity-modified Planck function in
// wavelength units (arbitrary normalization).
func greybody(wav, temp float64) float64 {
	const (
		hck  = 1.4388e8 // h*c/k in Angstrom*Kelvin
		beta = 1.5      // emissivity index
	)

	x := hck / (wav * temp)
	if x > 500 {
		return 0
	}

	// B_lambda ~ wav^-5 / (exp(x)-1), modified by wav^-beta.
	return math.Pow(wav, -5-beta) / (math.Exp(x) - 1)
}

// pahFeatures is a crude stand-in for the aromatic emission bands,
// modeled as lognormal bumps at 6.2, 7.7 and 11.3 microns.
func pahFeatures(wav float64) float64 {
	const amp = 1e-43 // comparable to the greybody peak scale

	sum := 0.0
	for _, c := range []struct{ center, width float64 }{
		{center: 6.2e4, width: 0.035},
		{center: 7.7e4, width: 0.055},
		{center: 11.3e4, width: 0.04},
	} {
		x := math.Log(wav/c.center) / c.width
		sum += math.Exp(-0.5 * x * x)
	}

	return amp * sum
}
