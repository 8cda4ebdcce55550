package dust

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-astro/spec/core"
)

func testWavs() []float64 {
	wavs := make([]float64, 300)
	for i := range wavs {
		wavs[i] = 1000 * math.Pow(10, float64(i)/100) // 1e3 to ~1e6 A, log spaced
	}

	return wavs
}

func TestPowerLawNormalizedAt5500(t *testing.T) {
	wavs := []float64{1000, 5500, 10000}
	c := PowerLaw(wavs, []float64{5500}, 0.7)

	if math.Abs(c.ACont[1]-1) > 1e-12 {
		t.Fatalf("A(5500) got %v want 1", c.ACont[1])
	}

	if c.ACont[0] <= c.ACont[1] || c.ACont[1] <= c.ACont[2] {
		t.Fatalf("extinction should fall with wavelength: %v", c.ACont)
	}

	if math.Abs(c.ALine[0]-1) > 1e-12 {
		t.Fatalf("line shape at 5500 got %v want 1", c.ALine[0])
	}
}

func TestCalzettiNormalizedAndUVSteep(t *testing.T) {
	wavs := []float64{1500, 3000, 5500, 12000}
	c := Calzetti(wavs, nil)

	if math.Abs(c.ACont[2]-1) > 1e-12 {
		t.Fatalf("Calzetti A(5500) got %v want 1", c.ACont[2])
	}

	for i := 1; i < len(c.ACont); i++ {
		if c.ACont[i] >= c.ACont[i-1] {
			t.Fatalf("Calzetti curve should decrease with wavelength: %v", c.ACont)
		}
	}
}

func TestTransmission(t *testing.T) {
	a := []float64{2, 1, 0.5}

	got := Transmission(2.5, a)
	want := []float64{0.01, 0.1, math.Pow(10, -0.5)}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("transmission[%d] got %v want %v", i, got[i], want[i])
		}
	}

	for _, v := range Transmission(0, a) {
		if v != 1 {
			t.Fatalf("Av=0 transmission got %v want 1", v)
		}
	}
}

func TestEmissionUnitIntegral(t *testing.T) {
	wavs := testWavs()
	e := NewEmission(wavs)

	for _, tc := range []struct{ qpah, umin, gamma float64 }{
		{qpah: 2, umin: 1, gamma: 0.01},
		{qpah: 0, umin: 5, gamma: 0.3},
		{qpah: 4, umin: 0.5, gamma: 0},
	} {
		spec := e.Spectrum(tc.qpah, tc.umin, tc.gamma)

		total := core.Trapz(spec, wavs)
		if math.Abs(total-1) > 1e-9 {
			t.Fatalf("qpah=%v umin=%v gamma=%v: integral got %v want 1",
				tc.qpah, tc.umin, tc.gamma, total)
		}

		for i, v := range spec {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("negative or NaN template value at %d: %v", i, v)
			}
		}
	}
}

func TestEmissionDegenerateGrid(t *testing.T) {
	e := NewEmission([]float64{5500})

	spec := e.Spectrum(2, 1, 0.01)
	if len(spec) != 1 || spec[0] != 0 {
		t.Fatalf("degenerate grid should give zero template, got %v", spec)
	}
}
