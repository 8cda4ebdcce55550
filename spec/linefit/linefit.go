// Package linefit measures emission lines in sampled spectra by
// fitting a Gaussian plus constant continuum with Levenberg-Marquardt.
package linefit

import (
	"errors"
	"math"

	"github.com/maorshutman/lm"
)

const cKMS = 2.998e5

// ErrTooFewPoints is returned when the fit window holds fewer samples
// than free parameters.
var ErrTooFewPoints = errors.New("linefit: too few points in window")

// Result holds the fitted Gaussian parameters and derived quantities.
type Result struct {
	Amplitude float64 // peak flux density above the continuum
	Center    float64 // fitted line center, Angstroms
	Sigma     float64 // Gaussian width, Angstroms
	Continuum float64 // constant continuum level

	Flux        float64 // integrated line flux, amplitude*sigma*sqrt(2 pi)
	FWHM        float64 // 2*sqrt(2 ln 2)*sigma
	VelocityKMS float64 // offset from the rest wavelength, km/s
	RestWav     float64 // rest wavelength the velocity refers to
	RMS         float64 // root-mean-square residual of the fit
}

// Options control the fit setup.
type Options struct {
	// Initial guesses; zero values are replaced with estimates from
	// the data (peak height, flux-weighted centroid, window/10).
	Amplitude float64
	Center    float64
	Sigma     float64

	MaxIterations int // default 200
}

// Fit fits A*exp(-(w-mu)^2/(2 sigma^2)) + c to (wavs, flux) and
// reports the line measurement relative to restWav. wavs must be
// ascending and cover the line.
func Fit(wavs, flux []float64, restWav float64, opts Options) (Result, error) {
	n := len(wavs)
	if n < 5 || len(flux) < n {
		return Result{}, ErrTooFewPoints
	}

	init := initialGuess(wavs, flux, opts)

	residuals := func(dst, x []float64) {
		amp, mu, sigma, cont := x[0], x[1], x[2], x[3]
		if sigma == 0 {
			sigma = 1e-6
		}

		for i := 0; i < n; i++ {
			d := (wavs[i] - mu) / sigma
			dst[i] = amp*math.Exp(-0.5*d*d) + cont - flux[i]
		}
	}

	jac := lm.NumJac{Func: residuals}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}

	prob := lm.LMProblem{
		Dim:        4,
		Size:       n,
		Func:       residuals,
		Jac:        jac.Jac,
		InitParams: init,
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	res, err := lm.LM(prob, &lm.Settings{Iterations: maxIter, ObjectiveTol: 1e-16})
	if err != nil {
		return Result{}, err
	}

	amp, mu, sigma, cont := res.X[0], res.X[1], res.X[2], res.X[3]
	sigma = math.Abs(sigma)

	out := Result{
		Amplitude: amp,
		Center:    mu,
		Sigma:     sigma,
		Continuum: cont,
		Flux:      amp * sigma * math.Sqrt(2*math.Pi),
		FWHM:      2 * math.Sqrt(2*math.Ln2) * sigma,
		RestWav:   restWav,
	}

	if restWav > 0 {
		out.VelocityKMS = (mu/restWav - 1) * cKMS
	}

	sum := 0.0
	resid := make([]float64, n)
	residuals(resid, res.X)
	for _, r := range resid {
		sum += r * r
	}
	out.RMS = math.Sqrt(sum / float64(n))

	return out, nil
}

func initialGuess(wavs, flux []float64, opts Options) []float64 {
	n := len(wavs)

	minFlux := flux[0]
	maxFlux := flux[0]
	maxIdx := 0
	for i, f := range flux[:n] {
		if f > maxFlux {
			maxFlux = f
			maxIdx = i
		}
		if f < minFlux {
			minFlux = f
		}
	}

	amp := opts.Amplitude
	if amp == 0 {
		amp = maxFlux - minFlux
	}

	center := opts.Center
	if center == 0 {
		center = wavs[maxIdx]
	}

	sigma := opts.Sigma
	if sigma == 0 {
		sigma = (wavs[n-1] - wavs[0]) / 10
	}

	return []float64{amp, center, sigma, minFlux}
}
