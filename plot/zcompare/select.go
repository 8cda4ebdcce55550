package zcompare

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Flags holds the quality-flag conventions of the catalog.
type Flags struct {
	SecureMin    float64 // Z_FLAG at or above this is a secure redshift
	Tentative    float64 // Z_FLAG equal to this is tentative
	BadAstrodeep float64 // flag_astrodeep value marking unusable photo-z entries
}

// DefaultFlags returns the conventions of the NIRISS catalog release.
func DefaultFlags() Flags {
	return Flags{SecureMin: 4, Tentative: 3, BadAstrodeep: 100028}
}

// Selection holds per-row sample masks. Spec, Phot and NoZ partition
// the catalog by which prior redshift estimate is available; Secure
// and Tentative grade the grism measurement itself.
type Selection struct {
	Secure    []bool
	Tentative []bool
	Spec      []bool
	Phot      []bool
	NoZ       []bool
}

// Select builds the sample masks from the catalog quality columns.
// A prior spectroscopic redshift takes precedence: photometric rows
// are those with a finite photo-z, no spec-z, and a usable
// photometry flag.
func Select(cat *Catalog, f Flags) (*Selection, error) {
	zFlag, err := cat.Column(ColZFlag)
	if err != nil {
		return nil, err
	}

	zSpec, err := cat.Column(ColZSpec)
	if err != nil {
		return nil, err
	}

	zPhot, err := cat.Column(ColZPhot)
	if err != nil {
		return nil, err
	}

	photFlag, err := cat.Column(ColPhotFlag)
	if err != nil {
		return nil, err
	}

	n := cat.Rows()
	sel := &Selection{
		Secure:    make([]bool, n),
		Tentative: make([]bool, n),
		Spec:      make([]bool, n),
		Phot:      make([]bool, n),
		NoZ:       make([]bool, n),
	}

	for i := 0; i < n; i++ {
		sel.Secure[i] = zFlag[i] >= f.SecureMin
		sel.Tentative[i] = zFlag[i] == f.Tentative
		sel.Spec[i] = isFinite(zSpec[i])
		sel.Phot[i] = isFinite(zPhot[i]) && !sel.Spec[i] && photFlag[i] != f.BadAstrodeep
		sel.NoZ[i] = !sel.Spec[i] && !sel.Phot[i]
	}

	return sel, nil
}

// Count returns the number of set entries in mask.
func Count(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}

	return n
}

// And returns the elementwise conjunction of two masks.
func And(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}

	return out
}

// SigmaZ is the population standard deviation of (z - ref) over the
// rows where mask is set and both values are finite. NaN when no row
// qualifies.
func SigmaZ(z, ref []float64, mask []bool) float64 {
	var diffs []float64

	for i := range mask {
		if mask[i] && isFinite(z[i]) && isFinite(ref[i]) {
			diffs = append(diffs, z[i]-ref[i])
		}
	}

	if len(diffs) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(diffs, nil)

	return math.Sqrt(stat.MomentAbout(2, diffs, mean, nil))
}

// Outlier is a catalog row whose grism and reference redshifts
// disagree beyond the threshold.
type Outlier struct {
	Number  float64
	ZNIRISS float64
	ZRef    float64
}

// Outliers lists the rows in mask where |Z_NIRISS - ref| exceeds
// threshold, in catalog order.
func Outliers(cat *Catalog, refColumn string, mask []bool, threshold float64) ([]Outlier, error) {
	number, err := cat.Column(ColNumber)
	if err != nil {
		return nil, err
	}

	z, err := cat.Column(ColZNIRISS)
	if err != nil {
		return nil, err
	}

	ref, err := cat.Column(refColumn)
	if err != nil {
		return nil, err
	}

	var out []Outlier

	for i := range mask {
		if mask[i] && math.Abs(z[i]-ref[i]) > threshold {
			out = append(out, Outlier{Number: number[i], ZNIRISS: z[i], ZRef: ref[i]})
		}
	}

	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
