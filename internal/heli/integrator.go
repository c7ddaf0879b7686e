package heli

import (
	"github.com/san-kum/hoversim/internal/noise"
	"github.com/san-kum/hoversim/internal/quat"
)

// Integrate advances s by one control period with explicit Euler sub-steps
// of cfg.Dt. The action is clamped before use. The noise in s is held
// constant across the sub-steps; Steps and Terminal are left untouched.
func Integrate(s Snapshot, p Params, a Action, cfg Config) Snapshot {
	a = a.Clamp()
	for i := 0; i < cfg.Substeps(); i++ {
		s.State, s.Orientation = substep(s.State, s.Orientation, s.Noise, p, a, cfg.Dt)
		if cfg.Renormalize {
			s.Orientation = s.Orientation.Normalize()
		}
	}
	return s
}

func substep(x State, q quat.Quat, n noise.Vector, p Params, a Action, dt float64) (State, quat.Quat) {
	x[X] += dt * x[U]
	x[Y] += dt * x[V]
	x[Z] += dt * x[W]

	// forces are modelled in the body frame
	vel := quat.InverseRotate(x.Velocity(), q)
	delta := quat.Vec3{
		p[UDrag]*vel[0] + n[0],
		p[VDrag]*vel[1] + p[SideThrust] + n[1],
		p[WDrag]*vel[2] + p[WColl]*a[Collective] + n[2],
	}
	delta = quat.Rotate(delta, q)

	x[U] += dt * delta[0]
	x[V] += dt * delta[1]
	x[W] += dt * (delta[2] + Gravity)

	q = quat.Multiply(q, quat.FromRotation(x.AngularVelocity().Scale(dt)))

	dp := p[PDrag]*x[P] + p[PAilr]*a[Aileron] + n[3]
	dq := p[QDrag]*x[Q] + p[QElev]*a[Elevator] + n[4]
	dr := p[RDrag]*x[R] + p[RRudd]*a[Rudder] + n[5]

	x[P] += dt * dp
	x[Q] += dt * dq
	x[R] += dt * dr

	return x, q
}
