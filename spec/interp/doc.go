// Package interp provides interpolation and resampling of sampled
// spectra onto arbitrary wavelength grids.
//
// Two operations are exposed:
//
//   - Linear: piecewise-linear interpolation with constant fill values
//     outside the source range, matching the usual table-lookup
//     semantics for redshift/distance tables and AGN spectra.
//   - Resample: flux-conserving rebinning for spectra sampled in
//     per-wavelength flux density, used when projecting a model
//     spectrum onto an instrument wavelength grid.
package interp
