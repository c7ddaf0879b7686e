// Package analysis characterizes recorded hover episodes.
//
// The package works on plain series taken from a run trace:
//
//   - [PowerSpectrum]: magnitude spectrum of a signal
//   - [Autocorrelation]: normalized autocorrelation at a lag
//   - [Summarize]: mean, spread and extrema of a series
//   - [Divergence]: growth rate of a perturbation under noise-free dynamics
//   - [NewPhasePortrait]: 2D phase space trajectory with ASCII rendering
//
// # Sensitivity
//
// A positive divergence rate means nearby hover states separate over time:
//
//	rate := analysis.Divergence(params, cfg, trim, heli.InitialSnapshot(), heli.W, 1e-6, 100)
//	if rate > 0 {
//	    // trim point is unstable
//	}
package analysis
