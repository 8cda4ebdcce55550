package synth

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-astro/spec/filters"
	"github.com/cwbudde/algo-astro/spec/index"
	"github.com/cwbudde/algo-astro/spec/interp"
)

// Update recomputes every model output for the given components.
// An unphysical star-formation history is reported through
// Result.Unphysical with zeroed spectra, not through the error.
func (s *Synthesizer) Update(comp Components, opts UpdateOptions) (*Result, error) {
	if err := s.checkComponents(comp); err != nil {
		return nil, err
	}

	if err := s.cfg.History.Update(comp); err != nil {
		return nil, err
	}

	res := &Result{}

	if s.cfg.History.Unphysical() {
		res.Unphysical = true
		res.Full = make([]float64, len(s.cfg.Wavelengths))
	} else if err := s.fullSpectrum(comp, opts, res); err != nil {
		return nil, err
	}

	z := comp.Redshift
	obsWavs := s.observedGrid(z)

	if len(s.cfg.OutputWavs) > 0 {
		res.Resampled = interp.Resample(s.cfg.OutputWavs, obsWavs, res.Full)

		if comp.VelDisp > 0 {
			res.Resampled = broaden(s.cfg.OutputWavs, res.Resampled, comp.VelDisp)
		}
	}

	if s.cfg.AGN != nil {
		s.addAGN(comp, res, obsWavs)
	}

	if len(s.cfg.Filters) > 0 {
		res.Photometry = filters.Photometry(s.cfg.Filters, obsWavs, res.Full)
	}

	if !res.Unphysical {
		res.UVJ = filters.UVJ(s.cfg.Wavelengths, res.Full)
	}

	if len(s.cfg.Indices) > 0 {
		res.IndexNames = make([]string, len(s.cfg.Indices))
		res.Indices = make([]float64, len(s.cfg.Indices))

		for i, d := range s.cfg.Indices {
			res.IndexNames[i] = d.Name
			res.Indices[i] = index.Measure(d, s.cfg.OutputWavs, res.Resampled, z)
		}
	}

	return res, nil
}

func (s *Synthesizer) checkComponents(comp Components) error {
	if comp.Redshift < 0 {
		return ErrNegRedshift
	}

	if len(comp.SFH) == 0 {
		return ErrMissingSFH
	}

	if s.cfg.Dust != nil && comp.Dust == nil {
		return ErrMissingDust
	}

	if s.cfg.Nebular != nil && comp.Nebular == nil {
		return ErrMissingNebular
	}

	if s.cfg.AGN != nil && comp.AGN == nil {
		return ErrMissingAGN
	}

	return nil
}

// observedGrid returns the internal grid shifted to the observed
// frame.
func (s *Synthesizer) observedGrid(z float64) []float64 {
	out := make([]float64, len(s.cfg.Wavelengths))
	zp1 := 1 + z
	for i, w := range s.cfg.Wavelengths {
		out[i] = w * zp1
	}

	return out
}

// addAGN adds the AGN continuum, IGM-attenuated at the model redshift,
// to the full spectrum and, when present, the resampled spectrum.
func (s *Synthesizer) addAGN(comp Components, res *Result, obsWavs []float64) {
	s.cfg.AGN.Update(comp.AGN)

	agnSpec := append([]float64(nil), s.cfg.AGN.Spectrum()...)
	vecmath.MulBlockInPlace(agnSpec, s.cfg.IGM.Transmission(comp.Redshift))

	zp1 := 1 + comp.Redshift

	scaled := make([]float64, len(agnSpec))
	vecmath.ScaleBlock(scaled, agnSpec, 1/zp1)

	vecmath.AddBlockInPlace(res.Full, scaled)

	if len(s.cfg.OutputWavs) > 0 {
		agnInterp := interp.Linear(s.cfg.OutputWavs, obsWavs, scaled, 0, 0)
		vecmath.AddBlockInPlace(res.Resampled, agnInterp)
	}
}
