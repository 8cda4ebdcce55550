package interp

import (
	"math"
	"testing"
)

func TestLinearAtInterior(t *testing.T) {
	xs := []float64{0, 1, 2, 4}
	ys := []float64{0, 10, 20, 40}

	for _, tc := range []struct {
		x    float64
		want float64
	}{
		{x: 0, want: 0},
		{x: 0.5, want: 5},
		{x: 1.5, want: 15},
		{x: 3, want: 30},
		{x: 4, want: 40},
	} {
		got := LinearAt(tc.x, xs, ys, -1, -1)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("LinearAt(%v) got %v want %v", tc.x, got, tc.want)
		}
	}
}

func TestLinearAtFillValues(t *testing.T) {
	xs := []float64{1, 2}
	ys := []float64{5, 6}

	if got := LinearAt(0.5, xs, ys, 0, 99); got != 0 {
		t.Fatalf("left fill got %v want 0", got)
	}

	if got := LinearAt(3, xs, ys, 0, 99); got != 99 {
		t.Fatalf("right fill got %v want 99", got)
	}
}

func TestLinearVector(t *testing.T) {
	xs := []float64{0, 10}
	ys := []float64{0, 1}

	got := Linear([]float64{-5, 5, 15}, xs, ys, 0, 0)
	want := []float64{0, 0.5, 0}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Linear[%d] got %v want %v", i, got[i], want[i])
		}
	}
}
