package synth

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

const speedOfLightKMS = 2.998e5

// broaden convolves flux (sampled on wavs) with a Gaussian of velocity
// width sigmaKMS. The kernel width in pixels uses the median
// logarithmic step of the grid, which is exact for log-spaced grids
// and a good approximation for slowly varying spacing. The kernel is
// normalized to unit sum, so total flux is conserved away from the
// grid edges. Dispersions below a quarter pixel return the input
// unchanged (as a copy).
func broaden(wavs, flux []float64, sigmaKMS float64) []float64 {
	out := append([]float64(nil), flux...)

	n := len(flux)
	if n < 3 || sigmaKMS <= 0 {
		return out
	}

	sigmaPix := sigmaKMS / speedOfLightKMS / medianLogStep(wavs)
	if sigmaPix < 0.25 {
		return out
	}

	kernel := gaussKernel(sigmaPix)
	half := len(kernel) / 2

	// Edge-replicated padding keeps the convolution from bleeding
	// zeros into the first and last few pixels.
	padded := make([]float64, n+2*half)
	for i := range padded {
		switch {
		case i < half:
			padded[i] = flux[0]
		case i >= half+n:
			padded[i] = flux[n-1]
		default:
			padded[i] = flux[i-half]
		}
	}

	conv, err := fftConvolve(padded, kernel)
	if err != nil {
		// Fall back to direct convolution; same result, just slower.
		conv = directConvolve(padded, kernel)
	}

	// Full convolution of len(padded) with len(kernel) peaks aligned
	// such that output sample i+2*half corresponds to flux[i].
	for i := 0; i < n; i++ {
		out[i] = conv[i+2*half]
	}

	return out
}

func medianLogStep(wavs []float64) float64 {
	steps := make([]float64, 0, len(wavs)-1)
	for i := 1; i < len(wavs); i++ {
		if wavs[i] > 0 && wavs[i-1] > 0 {
			steps = append(steps, math.Log(wavs[i]/wavs[i-1]))
		}
	}

	if len(steps) == 0 {
		return math.Inf(1)
	}

	// Median via partial sort of a small slice.
	for i := 1; i < len(steps); i++ {
		for j := i; j > 0 && steps[j] < steps[j-1]; j-- {
			steps[j], steps[j-1] = steps[j-1], steps[j]
		}
	}

	return steps[len(steps)/2]
}

func gaussKernel(sigmaPix float64) []float64 {
	half := int(math.Ceil(4 * sigmaPix))
	if half < 1 {
		half = 1
	}

	kernel := make([]float64, 2*half+1)

	sum := 0.0
	for i := range kernel {
		d := float64(i-half) / sigmaPix
		kernel[i] = math.Exp(-0.5 * d * d)
		sum += kernel[i]
	}

	for i := range kernel {
		kernel[i] /= sum
	}

	return kernel
}

func fftConvolve(signal, kernel []float64) ([]float64, error) {
	outLen := len(signal) + len(kernel) - 1

	fftSize := 1
	for fftSize < outLen {
		fftSize <<= 1
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}

	sigPadded := make([]complex128, fftSize)
	for i, v := range signal {
		sigPadded[i] = complex(v, 0)
	}

	kerPadded := make([]complex128, fftSize)
	for i, v := range kernel {
		kerPadded[i] = complex(v, 0)
	}

	sigFreq := make([]complex128, fftSize)
	if err := plan.Forward(sigFreq, sigPadded); err != nil {
		return nil, err
	}

	kerFreq := make([]complex128, fftSize)
	if err := plan.Forward(kerFreq, kerPadded); err != nil {
		return nil, err
	}

	for i := range sigFreq {
		sigFreq[i] *= kerFreq[i]
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, sigFreq); err != nil {
		return nil, err
	}

	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(resultTime[i])
	}

	return out, nil
}

func directConvolve(signal, kernel []float64) []float64 {
	out := make([]float64, len(signal)+len(kernel)-1)
	for i, s := range signal {
		for j, k := range kernel {
			out[i+j] += s * k
		}
	}

	return out
}
