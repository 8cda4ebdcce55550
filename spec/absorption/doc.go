// Package absorption models foreground hydrogen absorption systems.
//
// It implements the Voigt-Hjerting profile approximation of
// Tepper-Garcia (2006) and a single-line damped Lyman-alpha (DLA)
// transmission curve with fixed Doppler broadening. The DLA model is a
// deliberately simplified description of a foreground absorber: one
// transition, fixed broadening, no metal lines.
package absorption
