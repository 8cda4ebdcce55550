// Package igm models intergalactic-medium transmission as a function
// of source redshift, sampled on a fixed rest-frame wavelength grid.
package igm

import "math"

// Model returns the IGM transmission curve for a source at redshift z,
// sampled on the model's rest-frame wavelength grid. Values are in
// [0, 1], one per grid point.
type Model interface {
	Transmission(z float64) []float64
}

// Unity is a transparent IGM: transmission 1 everywhere.
type Unity struct {
	n int
}

// NewUnity returns a transparent model for an n-point grid.
func NewUnity(n int) *Unity {
	return &Unity{n: n}
}

// Transmission implements Model.
func (u *Unity) Transmission(float64) []float64 {
	out := make([]float64, u.n)
	for i := range out {
		out[i] = 1
	}

	return out
}

// Lyman-series effective optical depth coefficients from Madau (1995).
var (
	lymanWavs   = []float64{1215.67, 1025.72, 972.537, 949.743}
	lymanCoeffs = []float64{0.0036, 0.0017, 0.0012, 0.00093}
)

// Madau computes Madau (1995) mean transmission: Lyman-series line
// blanketing plus photoelectric absorption below the Lyman limit.
// The most recent redshift's curve is cached, which covers the common
// pattern of many synthesis calls at a fixed redshift.
type Madau struct {
	restWavs []float64

	cachedZ     float64
	cachedTrans []float64
}

// NewMadau returns a Madau (1995) model on the given rest-frame
// wavelength grid (Angstroms).
func NewMadau(restWavs []float64) *Madau {
	return &Madau{restWavs: restWavs, cachedZ: math.NaN()}
}

// Transmission implements Model.
func (m *Madau) Transmission(z float64) []float64 {
	if z == m.cachedZ && m.cachedTrans != nil {
		return m.cachedTrans
	}

	trans := make([]float64, len(m.restWavs))
	for i, rw := range m.restWavs {
		obs := rw * (1 + z)
		trans[i] = math.Exp(-m.opticalDepth(obs, z))
	}

	m.cachedZ = z
	m.cachedTrans = trans

	return trans
}

func (m *Madau) opticalDepth(obsWav, z float64) float64 {
	tau := 0.0

	for i, lw := range lymanWavs {
		if obsWav < lw*(1+z) && obsWav > lw {
			tau += lymanCoeffs[i] * math.Pow(obsWav/lw, 3.46)
		}
	}

	// Photoelectric absorption blueward of the Lyman limit.
	const limit = 912.0
	if obsWav < limit*(1+z) {
		xc := obsWav / limit
		if xc < 1 {
			xc = 1
		}
		xem := 1 + z

		tau += 0.25*math.Pow(xc, 3)*(math.Pow(xem, 0.46)-math.Pow(xc, 0.46)) +
			9.4*math.Pow(xc, 1.5)*(math.Pow(xem, 0.18)-math.Pow(xc, 0.18)) -
			0.7*math.Pow(xc, 3)*(math.Pow(xc, -1.32)-math.Pow(xem, -1.32)) -
			0.023*(math.Pow(xem, 1.68)-math.Pow(xc, 1.68))
	}

	if tau < 0 {
		return 0
	}

	return tau
}
