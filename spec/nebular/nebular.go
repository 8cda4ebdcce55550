// Package nebular defines the emission-line catalog shared by nebular
// models and the synthesis pipeline, using Cloudy-style line names.
package nebular

import "fmt"

// cKMS is the speed of light in km/s as used for velocity shifts.
const cKMS = 3.0e5

// Catalog is an ordered set of emission lines with rest wavelengths.
// Line-flux arrays produced by nebular models are aligned with the
// catalog order.
type Catalog struct {
	names []string
	wavs  []float64
	index map[string]int
}

// NewCatalog builds a catalog from parallel name and rest-wavelength
// (Angstrom) slices.
func NewCatalog(names []string, wavs []float64) (*Catalog, error) {
	if len(names) != len(wavs) {
		return nil, fmt.Errorf("nebular: %d names but %d wavelengths", len(names), len(wavs))
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, ok := index[n]; ok {
			return nil, fmt.Errorf("nebular: duplicate line name %q", n)
		}
		index[n] = i
	}

	return &Catalog{names: names, wavs: wavs, index: index}, nil
}

// DefaultCatalog returns the rest-UV/optical lines commonly measured
// in grism spectroscopy, in Cloudy naming convention.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]string{
			"H  1  1215.67A",
			"He 2  1640.41A",
			"C  3  1908.73A",
			"Mg 2  2795.53A",
			"O  2  3726.03A",
			"O  2  3728.81A",
			"Ne 3  3868.76A",
			"H  1  4340.46A",
			"O  3  4363.21A",
			"H  1  4861.33A",
			"O  3  4958.91A",
			"O  3  5006.84A",
			"He 1  5875.64A",
			"N  2  6548.05A",
			"H  1  6562.81A",
			"N  2  6583.45A",
			"S  2  6716.44A",
			"S  2  6730.82A",
		},
		[]float64{
			1215.67,
			1640.41,
			1908.73,
			2795.53,
			3726.03,
			3728.81,
			3868.76,
			4340.46,
			4363.21,
			4861.33,
			4958.91,
			5006.84,
			5875.64,
			6548.05,
			6562.81,
			6583.45,
			6716.44,
			6730.82,
		},
	)
	if err != nil {
		panic(err) // static tables above are consistent
	}

	return c
}

// Len returns the number of lines.
func (c *Catalog) Len() int { return len(c.names) }

// Names returns the line names in catalog order. The caller must not
// modify the returned slice.
func (c *Catalog) Names() []string { return c.names }

// Wavelengths returns the rest wavelengths in catalog order. The
// caller must not modify the returned slice.
func (c *Catalog) Wavelengths() []float64 { return c.wavs }

// Index returns the catalog position of the named line.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Wavelength returns the rest wavelength of the named line.
func (c *Catalog) Wavelength(name string) (float64, bool) {
	i, ok := c.index[name]
	if !ok {
		return 0, false
	}

	return c.wavs[i], true
}

// ShiftedWavelength applies a velocity shift in km/s to a rest
// wavelength using the non-relativistic approximation wav*(1+v/c).
func ShiftedWavelength(wav, velShiftKMS float64) float64 {
	return wav * (1 + velShiftKMS/cKMS)
}
