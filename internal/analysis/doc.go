// Package analysis turns sampled run histories into summary numbers.
//
// Probe velocities recorded by a run form evenly spaced time series. The
// package reports their statistics and, through [DominantFrequency], the
// strongest oscillation in them, which for a bluff-body wake is the vortex
// shedding frequency:
//
//	freq, power := analysis.DominantFrequency(series, dt)
package analysis
