// Command specgen synthesizes a model galaxy spectrum from a YAML
// component file and writes it as CSV.
//
// The built-in stellar model is a two-temperature blackbody toy,
// useful for exercising the pipeline without population-synthesis
// grids.
//
// Usage:
//
//	specgen [flags] components.yaml
//
// Examples:
//
//	specgen components.yaml
//	specgen --out spectrum.csv --wav-min 900 --wav-max 50000 components.yaml
//	specgen --remove-line "H  1  6562.81A" components.yaml
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-astro/spec/dust"
	"github.com/cwbudde/algo-astro/spec/nebular"
	"github.com/cwbudde/algo-astro/synth"
)

func main() {
	out := pflag.StringP("out", "o", "spectrum.csv", "output CSV path")
	wavMin := pflag.Float64("wav-min", 800, "grid start, Angstroms")
	wavMax := pflag.Float64("wav-max", 60000, "grid end, Angstroms")
	wavCount := pflag.Int("wav-count", 2000, "number of grid points (log spaced)")
	continuumOnly := pflag.Bool("continuum-only", false, "suppress nebular emission")
	removeLines := pflag.StringArray("remove-line", nil, "emission line name to remove (repeatable)")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: specgen [flags] components.yaml\n\n")
		fmt.Fprintf(os.Stderr, "Synthesizes a model spectrum from physical components.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	opts := synth.UpdateOptions{
		ContinuumOnly: *continuumOnly,
		RemoveLines:   *removeLines,
	}

	if err := run(pflag.Arg(0), *out, *wavMin, *wavMax, *wavCount, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(componentsPath, out string, wavMin, wavMax float64, wavCount int, opts synth.UpdateOptions) error {
	data, err := os.ReadFile(componentsPath)
	if err != nil {
		return err
	}

	comp, err := synth.ParseComponents(data)
	if err != nil {
		return err
	}

	wavs := logGrid(wavMin, wavMax, wavCount)

	cfg := synth.Config{
		Wavelengths: wavs,
		History:     &toyHistory{},
		Stellar:     &blackbodyStellar{wavs: wavs},
	}

	if comp.Nebular != nil {
		cfg.Nebular = &recombinationNebular{wavs: wavs}
	}

	if comp.Dust != nil {
		catalog := nebular.DefaultCatalog()
		cfg.Dust = dust.Calzetti(wavs, catalog.Wavelengths())
	}

	syn, err := synth.NewSynthesizer(cfg)
	if err != nil {
		return err
	}

	res, err := syn.Update(comp, opts)
	if err != nil {
		return err
	}

	if res.Unphysical {
		fmt.Fprintln(os.Stderr, "warning: unphysical star-formation history, spectrum zeroed")
	}

	if err := writeCSV(out, wavs, comp.Redshift, res.Full); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)

	return nil
}

func writeCSV(path string, restWavs []float64, z float64, flux []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"wav_obs", "flux"}); err != nil {
		return err
	}

	zp1 := 1 + z
	for i := range restWavs {
		record := []string{
			strconv.FormatFloat(restWavs[i]*zp1, 'g', 10, 64),
			strconv.FormatFloat(flux[i], 'g', 10, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func logGrid(lo, hi float64, n int) []float64 {
	wavs := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range wavs {
		wavs[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}

	return wavs
}

// toyHistory accepts any parameters and exposes a single-cell grid.
type toyHistory struct{}

func (toyHistory) Update(synth.Components) error { return nil }
func (toyHistory) Unphysical() bool              { return false }
func (toyHistory) Grid() [][]float64             { return [][]float64{{1}} }

// blackbodyStellar models young stars as a hot blackbody and the older
// population as a cooler one, in arbitrary luminosity units.
type blackbodyStellar struct {
	wavs []float64
}

func (s *blackbodyStellar) Spectrum([][]float64, float64) ([]float64, []float64) {
	bc := make([]float64, len(s.wavs))
	diffuse := make([]float64, len(s.wavs))

	for i, w := range s.wavs {
		bc[i] = 0.2 * planck(w, 15000)
		diffuse[i] = planck(w, 5000)
	}

	return bc, diffuse
}

// planck evaluates an unnormalized blackbody spectral density at
// wavelength w (Angstroms) and temperature t (Kelvin).
func planck(w, t float64) float64 {
	const hcOverK = 1.4388e8 // Angstrom Kelvin

	x := hcOverK / (w * t)
	if x > 500 {
		return 0
	}

	// Scaled so optical fluxes are of order unity.
	return 1e17 / (math.Pow(w, 5) * (math.Exp(x) - 1))
}

// recombinationNebular emits fixed-ratio hydrogen lines and a shallow
// continuum, scaled by the ionization parameter.
type recombinationNebular struct {
	wavs []float64
}

func (n *recombinationNebular) LineFluxes(_ [][]float64, _, logU float64) []float64 {
	catalog := nebular.DefaultCatalog()
	scale := math.Pow(10, logU+3)

	fluxes := make([]float64, catalog.Len())
	for i, name := range catalog.Names() {
		switch name {
		case "H  1  6562.81A":
			fluxes[i] = 2.86 * scale
		case "H  1  4861.33A":
			fluxes[i] = scale
		case "H  1  1215.67A":
			fluxes[i] = 23 * scale
		}
	}

	return fluxes
}

func (n *recombinationNebular) Spectrum(_ [][]float64, _, logU float64) []float64 {
	scale := math.Pow(10, logU+3)

	out := make([]float64, len(n.wavs))
	for i, w := range n.wavs {
		if w > 3646 { // Balmer jump
			out[i] = 1e-4 * scale * math.Exp(-w/20000)
		}
	}

	return out
}
