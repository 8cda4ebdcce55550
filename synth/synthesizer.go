package synth

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-astro/spec/core"
	"github.com/cwbudde/algo-astro/spec/cosmo"
	"github.com/cwbudde/algo-astro/spec/dust"
	"github.com/cwbudde/algo-astro/spec/filters"
	"github.com/cwbudde/algo-astro/spec/igm"
	"github.com/cwbudde/algo-astro/spec/index"
	"github.com/cwbudde/algo-astro/spec/nebular"
)

// Errors returned by NewSynthesizer and Update.
var (
	ErrNoWavelengths  = errors.New("synth: wavelength grid needs at least two ascending points")
	ErrNoHistory      = errors.New("synth: history collaborator is required")
	ErrNoStellar      = errors.New("synth: stellar collaborator is required")
	ErrNegRedshift    = errors.New("synth: redshift must be >= 0")
	ErrMissingSFH     = errors.New("synth: components lack an SFH sub-mapping")
	ErrMissingDust    = errors.New("synth: dust is configured but components lack dust parameters")
	ErrMissingNebular = errors.New("synth: nebular is configured but components lack nebular parameters")
	ErrMissingAGN     = errors.New("synth: AGN is configured but components lack AGN parameters")
	ErrNoNebHistory   = errors.New("synth: nebular metallicity override needs a NebHistory collaborator")
)

// HistoryModel supplies the star-formation history. Grid is the
// chemical-evolution grid consumed by stellar and nebular models;
// Unphysical reports star formation predating the universe for the
// most recent Update.
type HistoryModel interface {
	Update(Components) error
	Unphysical() bool
	Grid() [][]float64
}

// StellarModel turns a chemical-evolution grid into spectra on the
// synthesizer's wavelength grid: the birth-cloud component (stars
// younger than tBC, in Gyr) and the older diffuse component.
type StellarModel interface {
	Spectrum(grid [][]float64, tBC float64) (birthCloud, diffuse []float64)
}

// NebularModel produces line fluxes (aligned with the configured line
// catalog) and the nebular continuum+line spectrum on the wavelength
// grid, given the grid, birth-cloud age and ionization parameter.
type NebularModel interface {
	LineFluxes(grid [][]float64, tBC, logU float64) []float64
	Spectrum(grid [][]float64, tBC, logU float64) []float64
}

// AGNModel produces an AGN continuum on the wavelength grid for the
// most recently updated parameters.
type AGNModel interface {
	Update(params map[string]float64)
	Spectrum() []float64
}

// Config wires a Synthesizer. Wavelengths, History and Stellar are
// required; everything else is optional and disables the matching
// pipeline stage when absent.
type Config struct {
	Wavelengths []float64 // rest-frame grid, Angstroms, ascending
	OutputWavs  []float64 // observed-frame output grid, optional

	History    HistoryModel
	NebHistory HistoryModel // separate history for nebular metallicity overrides
	Stellar    StellarModel
	Nebular    NebularModel
	AGN        AGNModel

	Lines        *nebular.Catalog // defaults to nebular.DefaultCatalog when Nebular is set
	Dust         *dust.Curve
	DustEmission *dust.Emission // defaults to a template on Wavelengths when Dust is set
	IGM          igm.Model      // defaults to igm.NewMadau(Wavelengths)
	Distances    *cosmo.Table   // defaults to cosmo.DefaultTable()

	Filters []filters.Filter
	Indices []index.Definition
}

// UpdateOptions modify a single Update call.
type UpdateOptions struct {
	// ContinuumOnly suppresses all nebular emission.
	ContinuumOnly bool

	// RemoveLines names emission lines (catalog convention) whose flux
	// is subtracted from the spectrum at their (velocity-shifted) grid
	// position. Lines landing on a grid edge are left untouched.
	RemoveLines []string
}

// Result holds every output of one Update call.
type Result struct {
	// Full is the spectrum on the internal wavelength grid, in
	// erg/s/A/cm^2 for redshift > 0 or erg/s/A at redshift 0.
	Full []float64

	// BirthCloud isolates the young component after diffuse
	// attenuation; nil when dust is not configured.
	BirthCloud []float64

	// Resampled is the spectrum on Config.OutputWavs; nil when no
	// output grid is configured.
	Resampled []float64

	// LineFluxes maps line names to integrated fluxes; nil when
	// nebular is not configured.
	LineFluxes map[string]float64

	// Photometry holds mean flux densities per configured filter.
	Photometry []float64

	// UVJ holds rest-frame U, V, J magnitudes.
	UVJ [3]float64

	// IndexNames and Indices hold the configured spectral indices in
	// input order.
	IndexNames []string
	Indices    []float64

	// Unphysical reports that the requested star-formation history
	// implies stars older than the universe; all spectral outputs are
	// zeroed in that case.
	Unphysical bool
}

// Synthesizer combines collaborator models into observable spectra.
// Instances are not safe for concurrent use; each Update fully
// recomputes its Result before returning.
type Synthesizer struct {
	cfg Config
}

// NewSynthesizer validates cfg, fills defaults, and returns a
// synthesizer bound to the fixed wavelength grid.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if len(cfg.Wavelengths) < 2 || !core.IsAscending(cfg.Wavelengths) {
		return nil, ErrNoWavelengths
	}

	if cfg.History == nil {
		return nil, ErrNoHistory
	}

	if cfg.Stellar == nil {
		return nil, ErrNoStellar
	}

	if len(cfg.OutputWavs) > 0 && !core.IsAscending(cfg.OutputWavs) {
		return nil, fmt.Errorf("synth: output grid must be ascending")
	}

	if len(cfg.Indices) > 0 {
		if len(cfg.OutputWavs) == 0 {
			return nil, fmt.Errorf("synth: spectral indices need an output grid")
		}

		for _, d := range cfg.Indices {
			if err := d.Validate(); err != nil {
				return nil, err
			}
		}
	}

	if cfg.Nebular != nil && cfg.Lines == nil {
		cfg.Lines = nebular.DefaultCatalog()
	}

	if cfg.Dust != nil {
		if len(cfg.Dust.ACont) != len(cfg.Wavelengths) {
			return nil, fmt.Errorf("synth: dust curve has %d continuum points, grid has %d",
				len(cfg.Dust.ACont), len(cfg.Wavelengths))
		}

		if cfg.Nebular != nil && len(cfg.Dust.ALine) != cfg.Lines.Len() {
			return nil, fmt.Errorf("synth: dust curve has %d line points, catalog has %d",
				len(cfg.Dust.ALine), cfg.Lines.Len())
		}

		if cfg.DustEmission == nil {
			cfg.DustEmission = dust.NewEmission(cfg.Wavelengths)
		}
	}

	if cfg.IGM == nil {
		cfg.IGM = igm.NewMadau(cfg.Wavelengths)
	}

	if cfg.Distances == nil {
		cfg.Distances = cosmo.DefaultTable()
	}

	return &Synthesizer{cfg: cfg}, nil
}

// Wavelengths returns the internal rest-frame grid.
func (s *Synthesizer) Wavelengths() []float64 {
	return s.cfg.Wavelengths
}
