package absorption

import (
	"math"
	"testing"
)

func TestTransmissionZeroColumnDensity(t *testing.T) {
	wavs := []float64{1000, 1215.67, 1216, 5000, 20000}

	for _, zabs := range []float64{0, 0.5, 2.3} {
		trans := Transmission(wavs, 0, zabs)
		for i, v := range trans {
			if v != 1 {
				t.Fatalf("zabs=%v wav=%v: transmission got %v want 1", zabs, wavs[i], v)
			}
		}
	}
}

func TestTransmissionDampingWing(t *testing.T) {
	zabs := 1.0
	center := lyaWavelength * (1 + zabs)

	// Offsets on the red damping wing, walking away from line center.
	// Absorption must weaken monotonically with distance.
	wavs := []float64{center + 10, center + 100, center + 500}

	trans := Transmission(wavs, 1e21, zabs)

	if trans[0] >= 0.5 {
		t.Fatalf("near-center transmission got %v, expected strong absorption", trans[0])
	}

	if trans[2] <= 0.9 {
		t.Fatalf("far-wing transmission got %v, expected weak absorption", trans[2])
	}

	for i, v := range trans {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("transmission[%d] out of range: %v", i, v)
		}

		if i > 0 && v <= trans[i-1] {
			t.Fatalf("transmission not increasing away from center: %v", trans)
		}
	}
}

func TestHjertingFarWing(t *testing.T) {
	// Far from line center the Gaussian core vanishes and the damping
	// wing dominates: H(a, x) ~ a / (sqrt(pi) x^2).
	a := 1e-3
	x := []float64{50, 100, 500}

	got := Hjerting(a, x)
	for i, xi := range x {
		want := a / math.SqrtPi / (xi * xi)
		if math.Abs(got[i]-want)/want > 1e-2 {
			t.Fatalf("wing at x=%v: got %v want ~%v", xi, got[i], want)
		}
	}
}

func TestHjertingCoreMatchesGaussian(t *testing.T) {
	// For tiny damping the profile reduces to exp(-x^2).
	got := Hjerting(1e-12, []float64{0.5, 1, 2})
	want := []float64{math.Exp(-0.25), math.Exp(-1), math.Exp(-4)}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("core at index %d: got %v want %v", i, got[i], want[i])
		}
	}
}
