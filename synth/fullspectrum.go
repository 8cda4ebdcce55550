package synth

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-astro/spec/absorption"
	"github.com/cwbudde/algo-astro/spec/core"
	"github.com/cwbudde/algo-astro/spec/dust"
	"github.com/cwbudde/algo-astro/spec/nebular"
)

// fullSpectrum combines the component models into res.Full on the
// internal grid. The stage order is physical and load-bearing: each
// stage operates on the cumulative output of the previous ones.
func (s *Synthesizer) fullSpectrum(comp Components, opts UpdateOptions, res *Result) error {
	wavs := s.cfg.Wavelengths
	tBC := comp.birthCloudAge()

	bc, diffuse := s.cfg.Stellar.Spectrum(s.cfg.History.Grid(), tBC)

	spectrumBC := append([]float64(nil), bc...)
	spectrum := append([]float64(nil), diffuse...)

	var emLines []float64

	if s.cfg.Nebular != nil && !opts.ContinuumOnly {
		var err error
		emLines, err = s.addNebular(comp, opts, spectrumBC)
		if err != nil {
			return err
		}
	}

	// Extra attenuation local to stellar birth clouds, tracked for
	// energy balance.
	dustFlux := 0.0

	if s.cfg.Dust != nil {
		eta := comp.Dust.eta()

		if comp.Dust.Eta != 0 {
			bcAvReduced := (eta - 1) * comp.Dust.Av
			transRed := dust.Transmission(bcAvReduced, s.cfg.Dust.ACont)

			dusted := make([]float64, len(spectrumBC))
			vecmath.MulBlock(dusted, spectrumBC, transRed)

			dustFlux += lostFlux(spectrumBC, dusted, wavs)
			spectrumBC = dusted
		}

		if emLines != nil {
			lineTrans := dust.Transmission(eta*comp.Dust.Av, s.cfg.Dust.ALine)
			vecmath.MulBlockInPlace(emLines, lineTrans)
		}
	}

	vecmath.AddBlockInPlace(spectrum, spectrumBC)

	// Diffuse-ISM attenuation plus energy-balance re-emission.
	if s.cfg.Dust != nil {
		trans := dust.Transmission(comp.Dust.Av, s.cfg.Dust.ACont)

		dusted := make([]float64, len(spectrum))
		vecmath.MulBlock(dusted, spectrum, trans)

		dustFlux += lostFlux(spectrum, dusted, wavs)
		spectrum = dusted

		res.BirthCloud = make([]float64, len(spectrumBC))
		vecmath.MulBlock(res.BirthCloud, spectrumBC, trans)

		qpah, umin, gamma := comp.Dust.emissionParams()
		template := s.cfg.DustEmission.Spectrum(qpah, umin, gamma)
		for i := range spectrum {
			spectrum[i] += dustFlux * template[i]
		}
	}

	igmTrans := s.cfg.IGM.Transmission(comp.Redshift)
	vecmath.MulBlockInPlace(spectrum, igmTrans)

	if comp.DLA != nil {
		dlaTrans := absorption.Transmission(
			s.observedGrid(comp.Redshift), comp.DLA.ColumnDensity, comp.DLA.Redshift)
		vecmath.MulBlockInPlace(spectrum, dlaTrans)
	}

	if res.BirthCloud != nil {
		vecmath.MulBlockInPlace(res.BirthCloud, igmTrans)
	}

	// Luminosity to observed flux. Line fluxes are integrated
	// quantities and carry no (1+z) bandwidth term.
	dilution := s.cfg.Distances.FluxDilution(comp.Redshift)

	vecmath.ScaleBlockInPlace(spectrum, core.LSun/(dilution*(1+comp.Redshift)))

	if res.BirthCloud != nil {
		vecmath.ScaleBlockInPlace(res.BirthCloud, core.LSun/(dilution*(1+comp.Redshift)))
	}

	if emLines != nil {
		vecmath.ScaleBlockInPlace(emLines, core.LSun/dilution)
	}

	if s.cfg.Nebular != nil {
		res.LineFluxes = make(map[string]float64, s.cfg.Lines.Len())
		for i, name := range s.cfg.Lines.Names() {
			if emLines != nil {
				res.LineFluxes[name] = emLines[i]
			} else {
				res.LineFluxes[name] = 0
			}
		}
	}

	res.Full = spectrum

	return nil
}

// addNebular reprocesses birth-cloud flux below the Lyman limit into
// nebular emission, applies requested line removals, and returns the
// per-line fluxes in catalog order.
func (s *Synthesizer) addNebular(comp Components, opts UpdateOptions, spectrumBC []float64) ([]float64, error) {
	wavs := s.cfg.Wavelengths

	grid := s.cfg.History.Grid()

	if comp.Nebular.Metallicity > 0 {
		if s.cfg.NebHistory == nil {
			return nil, ErrNoNebHistory
		}

		nebComp := comp.withNebularMetallicity(comp.Nebular.Metallicity)
		if err := s.cfg.NebHistory.Update(nebComp); err != nil {
			return nil, err
		}

		grid = s.cfg.NebHistory.Grid()
	}

	tBC := comp.birthCloudAge()
	logU := comp.Nebular.LogU

	emLines := append([]float64(nil), s.cfg.Nebular.LineFluxes(grid, tBC, logU)...)

	// All stellar emission below the Lyman limit is reprocessed by the
	// nebular gas.
	for i, w := range wavs {
		if w < core.LymanLimit {
			spectrumBC[i] = 0
		}
	}

	vecmath.AddBlockInPlace(spectrumBC, s.cfg.Nebular.Spectrum(grid, tBC, logU))

	for _, name := range opts.RemoveLines {
		idx, ok := s.cfg.Lines.Index(name)
		if !ok {
			return nil, fmt.Errorf("synth: unknown emission line %q", name)
		}

		lineWav := nebular.ShiftedWavelength(s.cfg.Lines.Wavelengths()[idx], comp.Nebular.VelShift)

		ind := core.NearestIndex(wavs, lineWav)
		if ind == 0 || ind == len(wavs)-1 {
			// Lines landing on a grid edge are left untouched.
			continue
		}

		// Fluxes are per unit wavelength, so removal divides by the
		// local bin width rather than subtracting the flux directly.
		width := (wavs[ind+1] - wavs[ind-1]) / 2
		spectrumBC[ind] -= emLines[idx] / width
	}

	return emLines, nil
}

func lostFlux(before, after, wavs []float64) float64 {
	diff := make([]float64, len(before))
	for i := range diff {
		diff[i] = before[i] - after[i]
	}

	return core.Trapz(diff, wavs)
}
