package heli

import (
	"fmt"
	"math"

	"github.com/san-kum/hoversim/internal/noise"
	"github.com/san-kum/hoversim/internal/quat"
)

const (
	StateDim       = 9
	ActionDim      = 4
	ParamDim       = 11
	ObservationDim = 12
)

// State indices. Velocity and position are world frame, rates body frame.
const (
	U = iota
	V
	W
	X
	Y
	Z
	P
	Q
	R
)

// Action indices.
const (
	Aileron = iota
	Elevator
	Rudder
	Collective
)

// Model coefficient indices.
const (
	UDrag      = 0
	VDrag      = 1
	SideThrust = 2
	WDrag      = 3
	WColl      = 4
	PDrag      = 5
	PAilr      = 6
	QDrag      = 7
	QElev      = 8
	RDrag      = 9
	RRudd      = 10
)

const (
	Gravity       = 9.81
	ControlPeriod = 0.1

	DefaultDt       = 0.01
	DefaultMaxSteps = 6000
)

var stateNames = [StateDim]string{"u", "v", "w", "x", "y", "z", "p", "q", "r"}

// StateNames returns the short names of the state components in order.
func StateNames() []string { return stateNames[:] }

type State [StateDim]float64

func (s State) Velocity() quat.Vec3        { return quat.Vec3{s[U], s[V], s[W]} }
func (s State) Position() quat.Vec3        { return quat.Vec3{s[X], s[Y], s[Z]} }
func (s State) AngularVelocity() quat.Vec3 { return quat.Vec3{s[P], s[Q], s[R]} }

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var actionNames = [ActionDim]string{"aileron", "elevator", "rudder", "collective"}

// ActionNames returns the control channel names in index order.
func ActionNames() []string { return actionNames[:] }

// ActionIndex resolves a control channel name.
func ActionIndex(name string) (int, error) {
	for i, n := range actionNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown action channel %q", ErrParameterBounds, name)
}

// Action is [aileron, elevator, rudder, collective].
type Action [ActionDim]float64

// Clamp saturates every channel to [-1, 1].
func (a Action) Clamp() Action {
	for i, v := range a {
		a[i] = math.Min(math.Max(v, -1), 1)
	}
	return a
}

// ActionFromSlice copies up to ActionDim values from s.
func ActionFromSlice(s []float64) Action {
	var a Action
	copy(a[:], s)
	return a
}

// Params holds the aerodynamic drag and control coupling coefficients.
type Params [ParamDim]float64

var paramNames = [ParamDim]string{
	"u_drag", "v_drag", "side_thrust", "w_drag", "w_coll",
	"p_drag", "p_ailr", "q_drag", "q_elev", "r_drag", "r_rudd",
}

// ParamNames returns the coefficient names in index order.
func ParamNames() []string { return paramNames[:] }

// ParamIndex resolves a coefficient name.
func ParamIndex(name string) (int, error) {
	for i, n := range paramNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown coefficient %q", ErrParameterBounds, name)
}

// Observation is body-frame velocity, body-frame position, angular rates and
// the orientation vector part.
type Observation [ObservationDim]float64

// Limits bound the flight envelope. Tilt bounds |w| of the orientation.
type Limits struct {
	State [StateDim]float64
	Tilt  float64
}

func DefaultLimits() Limits {
	var l Limits
	for i := U; i <= W; i++ {
		l.State[i] = 5.0
	}
	for i := X; i <= Z; i++ {
		l.State[i] = 20.0
	}
	for i := P; i <= R; i++ {
		l.State[i] = 4 * math.Pi
	}
	l.Tilt = math.Cos(30.0 / 2.0 * math.Pi / 180.0)
	return l
}

// Snapshot is the complete mutable state of an episode. It is a value type;
// copies are independent.
type Snapshot struct {
	State       State
	Orientation quat.Quat
	Noise       noise.Vector
	Steps       int
	Terminal    bool
}

// InitialSnapshot is the state at the start of every episode.
func InitialSnapshot() Snapshot {
	return Snapshot{Orientation: quat.Identity}
}

// Config holds the per-simulator settings that are not airframe data.
type Config struct {
	Dt       float64
	MaxSteps int
	Limits   Limits
	// Renormalize rescales the orientation to unit length after every
	// sub-step.
	Renormalize bool
}

func DefaultConfig() Config {
	return Config{
		Dt:       DefaultDt,
		MaxSteps: DefaultMaxSteps,
		Limits:   DefaultLimits(),
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}

// Substeps is the number of Euler sub-steps per control period.
func (c Config) Substeps() int {
	return int(ControlPeriod / c.Dt)
}
