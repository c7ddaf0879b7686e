// Package control provides open-loop action sources that drive a
// [heli.Simulator] from outside.
//
// Every source implements Compute(obs, step), the same contract an external
// learning agent fulfils:
//
//   - [None]: zero action, the helicopter falls
//   - [Constant]: a fixed action, typically the hover trim
//   - [Random]: uniform exploration around a base action
//   - [Manual]: an action set interactively from the live view
//   - [Replay]: a recorded action sequence
//
// # Usage
//
//	ctrl := control.NewRandom(trim, 0.3, seed)
//	obs, _ := sim.Reset()
//	for step := 0; !sim.Terminal(); step++ {
//	    obs, _ = sim.Update(ctrl.Compute(obs, step))
//	}
package control
