// Package index measures spectral absorption and emission indices
// against sampled spectra.
//
// Two index types are supported: equivalent widths measured against a
// continuum interpolated from flanking windows, and break strengths
// defined as the ratio of mean fluxes in two windows (D4000-style).
package index

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-astro/spec/core"
	"github.com/cwbudde/algo-astro/spec/interp"
)

// Index types.
const (
	TypeEW    = "EW"    // equivalent width over a feature window
	TypeBreak = "break" // ratio of mean fluxes redward/blueward
)

// Definition describes a named index in rest-frame wavelengths.
//
// For TypeEW, Feature is the feature window and Continuum holds one or
// two flanking windows defining the pseudo-continuum. For TypeBreak,
// Continuum holds exactly two windows and the index is the ratio of
// the mean flux in the second to the first.
type Definition struct {
	Name      string
	Type      string
	Feature   [2]float64
	Continuum [][2]float64
}

// Validate checks window consistency.
func (d Definition) Validate() error {
	switch d.Type {
	case TypeEW:
		if d.Feature[1] <= d.Feature[0] {
			return fmt.Errorf("index %q: bad feature window %v", d.Name, d.Feature)
		}

		if len(d.Continuum) == 0 || len(d.Continuum) > 2 {
			return fmt.Errorf("index %q: need 1 or 2 continuum windows", d.Name)
		}
	case TypeBreak:
		if len(d.Continuum) != 2 {
			return fmt.Errorf("index %q: break needs exactly 2 windows", d.Name)
		}
	default:
		return fmt.Errorf("index %q: unknown type %q", d.Name, d.Type)
	}

	for _, w := range d.Continuum {
		if w[1] <= w[0] {
			return fmt.Errorf("index %q: bad continuum window %v", d.Name, w)
		}
	}

	return nil
}

// Measure evaluates the index against an observed-frame spectrum at
// redshift z. The spectrum is shifted to rest frame before windows are
// applied. Returns NaN when a required window has no coverage.
func Measure(d Definition, obsWavs, flux []float64, z float64) float64 {
	restWavs := make([]float64, len(obsWavs))
	for i, w := range obsWavs {
		restWavs[i] = w / (1 + z)
	}

	switch d.Type {
	case TypeBreak:
		blue := windowMean(restWavs, flux, d.Continuum[0])
		red := windowMean(restWavs, flux, d.Continuum[1])

		if math.IsNaN(blue) || math.IsNaN(red) || blue == 0 {
			return math.NaN()
		}

		return red / blue
	case TypeEW:
		return equivalentWidth(d, restWavs, flux)
	}

	return math.NaN()
}

func equivalentWidth(d Definition, restWavs, flux []float64) float64 {
	// Pseudo-continuum: constant from one window, or a straight line
	// through the means of two flanking windows.
	type anchor struct{ wav, flux float64 }

	anchors := make([]anchor, 0, 2)
	for _, w := range d.Continuum {
		m := windowMean(restWavs, flux, w)
		if math.IsNaN(m) {
			return math.NaN()
		}

		anchors = append(anchors, anchor{wav: 0.5 * (w[0] + w[1]), flux: m})
	}

	continuumAt := func(wav float64) float64 {
		if len(anchors) == 1 {
			return anchors[0].flux
		}

		span := anchors[1].wav - anchors[0].wav
		frac := (wav - anchors[0].wav) / span

		return anchors[0].flux + frac*(anchors[1].flux-anchors[0].flux)
	}

	// EW = Int (1 - f/f_cont) dwav over the feature window.
	var xs, ys []float64
	for i, w := range restWavs {
		if w < d.Feature[0] || w > d.Feature[1] {
			continue
		}

		cont := continuumAt(w)
		if cont == 0 {
			return math.NaN()
		}

		xs = append(xs, w)
		ys = append(ys, 1-flux[i]/cont)
	}

	if len(xs) < 2 {
		return math.NaN()
	}

	return core.Trapz(ys, xs)
}

func windowMean(restWavs, flux []float64, w [2]float64) float64 {
	var xs, ys []float64
	for i, wav := range restWavs {
		if wav >= w[0] && wav <= w[1] {
			xs = append(xs, wav)
			ys = append(ys, flux[i])
		}
	}

	if len(xs) < 2 {
		return math.NaN()
	}

	return core.Trapz(ys, xs) / (xs[len(xs)-1] - xs[0])
}

// Interpolated continuum helper kept for callers that need the
// continuum model itself (e.g. plotting index fits).
func ContinuumModel(d Definition, restWavs, flux []float64) []float64 {
	out := make([]float64, len(restWavs))

	switch len(d.Continuum) {
	case 0:
		return out
	case 1:
		m := windowMean(restWavs, flux, d.Continuum[0])
		for i := range out {
			out[i] = m
		}

		return out
	}

	blue := windowMean(restWavs, flux, d.Continuum[0])
	red := windowMean(restWavs, flux, d.Continuum[1])
	bw := 0.5 * (d.Continuum[0][0] + d.Continuum[0][1])
	rw := 0.5 * (d.Continuum[1][0] + d.Continuum[1][1])

	return interp.Linear(restWavs, []float64{bw, rw}, []float64{blue, red}, blue, red)
}
