// Package heli models a small helicopter in the generalized hover regime.
//
// The package is the environment core behind an external control or
// learning loop. A [Simulator] exposes two entry points:
//
//   - [Simulator.Reset]: start a new episode at rest, level, at the origin
//   - [Simulator.Update]: apply one control action for one 0.1s control period
//
// Both return the 12-value [Observation] and a scalar cost.
//
// Every stage is also available as a pure function over an explicit
// [Snapshot]: [Integrate], [IsTerminal], [Observe] and [Cost]. The
// simulator only threads a snapshot through them, so episodes can be saved
// with [Simulator.Snapshot] and resumed with [Simulator.Restore].
//
// # Example
//
//	af, _ := heli.LookupAirframe("xcell_tempest")
//	sim, err := heli.New(af.Params[:], af.NoiseStd[:], heli.DefaultConfig(), rand.New(rand.NewSource(1)))
//	obs, cost := sim.Reset()
//	for !sim.Terminal() {
//	    obs, cost = sim.Update(policy(obs))
//	}
//
// # Thread Safety
//
// A Simulator is NOT safe for concurrent use. Independent instances share
// no mutable state and may run in parallel.
package heli
