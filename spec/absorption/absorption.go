package absorption

import "math"

// Lyman-alpha transition constants (CGS).
const (
	electronMass    = 9.1095e-28 // g
	electronCharge  = 4.8032e-10 // esu
	speedOfLight    = 2.998e10   // cm/s
	lyaWavelength   = 1215.67    // Angstrom
	oscillatorStr   = 0.416
	dampingConstant = 6.265e8 // 1/s
	dopplerBroad    = 1.0     // fixed broadening parameter
)

// Hjerting evaluates the Voigt-Hjerting profile H(a, x) using the
// Tepper-Garcia (2006) approximation. a is the damping parameter and
// x the dimensionless frequency offset from line center.
func Hjerting(a float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xi := range x {
		out[i] = hjertingAt(a, xi)
	}

	return out
}

func hjertingAt(a, x float64) float64 {
	p := x * x
	h0 := math.Exp(-p)
	q := 1.5 / p

	return h0 - a/math.Sqrt(math.Pi)/p*(h0*h0*(4*p*p+7*p+4+q)-q-1)
}

// Transmission returns exp(-tau) for a damped Lyman-alpha absorber
// with hydrogen column density t (cm^-2) at redshift zabs, evaluated
// at the given observed-frame wavelengths (Angstroms).
func Transmission(wavs []float64, t, zabs float64) []float64 {
	ca := math.Sqrt(math.Pi) * electronCharge * electronCharge * oscillatorStr *
		lyaWavelength * 1e-8 / electronMass / speedOfLight / dopplerBroad
	a := lyaWavelength * 1e-8 * dampingConstant / (4 * math.Pi * dopplerBroad)
	dlD := dopplerBroad / speedOfLight * lyaWavelength

	out := make([]float64, len(wavs))
	for i, w := range wavs {
		// The 0.01 offset keeps x away from the removable singularity
		// at exact line center.
		x := (w/(zabs+1)-lyaWavelength)/dlD + 0.01
		out[i] = math.Exp(-ca * t * hjertingAt(a, x))
	}

	return out
}
