// Package synth generates model galaxy spectra by combining stellar,
// nebular, dust, AGN and foreground-absorption components on a fixed
// rest-frame wavelength grid.
//
// The physical models themselves (stellar population grids, nebular
// grids, AGN templates) are collaborators supplied through interfaces;
// this package owns the combination pipeline: birth-cloud and diffuse
// dust attenuation with energy-balance re-emission, Lyman-limit
// reprocessing, emission-line removal, IGM and DLA transmission,
// luminosity-to-flux conversion, velocity-dispersion broadening, and
// the derived observables (resampled spectra, photometry, UVJ
// magnitudes, spectral indices).
//
// # Usage
//
//	syn, err := synth.NewSynthesizer(synth.Config{
//	    Wavelengths: wavs,
//	    History:     history,
//	    Stellar:     stellar,
//	    Dust:        dust.Calzetti(wavs, catalog.Wavelengths()),
//	})
//	res, err := syn.Update(components, synth.UpdateOptions{
//	    RemoveLines: []string{"H  1  6562.81A"},
//	})
//
// Each Update call fully recomputes every output; a Result is a pure
// function of (Config, Components, UpdateOptions).
package synth
