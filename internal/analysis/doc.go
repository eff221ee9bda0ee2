// Package analysis provides post-processing tools for hard-disk gas runs.
//
// The package includes:
//
//   - [PowerSpectrum] and [DominantFrequency]: spectra of sampled metric series
//   - [SpeedHistogram], [SpeedPDF] and [ThermalDeviation]: comparison of the
//     speed distribution with the two-dimensional Maxwell-Boltzmann law
//   - [DensityProfile] and [StateToASCII]: where each species sits in the box
//   - [LyapunovExponent]: growth rate of the separation between a gas and a
//     slightly perturbed copy
//
// # Relaxation
//
// A gas started from standard-normal velocities relaxes towards the Rayleigh
// speed law within a few collision times:
//
//	_, density := analysis.SpeedHistogram(state.Particles, -1, 20)
//	dev := analysis.ThermalDeviation(state.Particles, -1, 20)
package analysis
