// Package cosmo provides a precomputed redshift to luminosity-distance
// table for a flat Lambda-CDM cosmology, plus the flux-dilution factor
// used to convert luminosities to observed fluxes.
package cosmo

import (
	"math"

	"github.com/cwbudde/algo-astro/spec/core"
	"github.com/cwbudde/algo-astro/spec/interp"
)

const (
	defaultH0     = 70.0 // km/s/Mpc
	defaultOmegaM = 0.3
	defaultZMax   = 10.0
	defaultPoints = 1000

	speedOfLightKMS = 2.998e5
)

// FlatLCDM describes a flat Lambda-CDM cosmology.
type FlatLCDM struct {
	H0     float64 // Hubble constant, km/s/Mpc
	OmegaM float64 // matter density parameter
}

// DefaultCosmology returns the cosmology used when none is configured.
func DefaultCosmology() FlatLCDM {
	return FlatLCDM{H0: defaultH0, OmegaM: defaultOmegaM}
}

func (c FlatLCDM) efunc(z float64) float64 {
	zp1 := 1 + z
	return math.Sqrt(c.OmegaM*zp1*zp1*zp1 + (1 - c.OmegaM))
}

// Table holds luminosity distances sampled on a redshift grid.
// Lookups interpolate linearly and return 0 outside the grid, matching
// the edge-fill convention of the synthesis pipeline.
type Table struct {
	zGrid    []float64
	lDistMpc []float64
}

// NewTable precomputes luminosity distances for c on n redshift points
// up to zMax. Non-positive zMax or n fall back to defaults.
func NewTable(c FlatLCDM, zMax float64, n int) *Table {
	if zMax <= 0 {
		zMax = defaultZMax
	}

	if n < 2 {
		n = defaultPoints
	}

	if c.H0 <= 0 {
		c = DefaultCosmology()
	}

	zGrid := make([]float64, n)
	lDist := make([]float64, n)

	hubbleDist := speedOfLightKMS / c.H0 // Mpc

	// Cumulative trapezoid of 1/E(z) gives the comoving distance.
	comoving := 0.0
	prevInv := 1.0 / c.efunc(0)

	for i := range zGrid {
		z := zMax * float64(i) / float64(n-1)
		zGrid[i] = z

		if i > 0 {
			inv := 1.0 / c.efunc(z)
			dz := zGrid[i] - zGrid[i-1]
			comoving += 0.5 * (inv + prevInv) * dz
			prevInv = inv
		}

		lDist[i] = (1 + z) * hubbleDist * comoving
	}

	return &Table{zGrid: zGrid, lDistMpc: lDist}
}

// DefaultTable returns the table for the default cosmology.
func DefaultTable() *Table {
	return NewTable(DefaultCosmology(), defaultZMax, defaultPoints)
}

// LuminosityDistanceCM returns the luminosity distance at z in
// centimeters, interpolated from the table. Returns 0 outside the
// tabulated range.
func (t *Table) LuminosityDistanceCM(z float64) float64 {
	return core.MpcInCM * interp.LinearAt(z, t.zGrid, t.lDistMpc, 0, 0)
}

// FluxDilution returns the factor 4*pi*d_L^2 dividing a luminosity to
// obtain an observed flux. For z <= 0 the factor is exactly 1 (the
// spectrum stays in luminosity units).
func (t *Table) FluxDilution(z float64) float64 {
	if z <= 0 {
		return 1
	}

	d := t.LuminosityDistanceCM(z)

	return 4 * math.Pi * d * d
}
