// Package analysis characterizes recorded runs.
//
//   - [Spectrum] and [DominantFrequency]: ringing frequency of a series
//   - [DecayRate]: exponential decay of activity once the pointer leaves
//   - [ParamSweep]: one run per parameter value, collecting metrics
//
// # Ringing
//
// The mesh spring is underdamped, so a displaced surface oscillates while
// it settles. The dominant frequency of the mean activity series recovers
// that oscillation:
//
//	hz, err := analysis.DominantFrequency(series, 60)
package analysis
