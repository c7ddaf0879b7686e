// Package quat implements unit-quaternion algebra for spatial rotation.
//
// Quaternions use the scalar-last convention [x, y, z, w]. A vector is
// rotated by embedding it as the pure quaternion [v, 0] and conjugating:
//
//	r := q * [v, 0] * conj(q)
//
// Functions in this package never renormalize their inputs; callers that
// compose many incremental rotations decide when to call [Quat.Normalize].
package quat

import "math"

// SmallAngle is the rotation magnitude below which FromRotation switches to
// the linear approximation.
const SmallAngle = 1e-4

// Quat is a quaternion in scalar-last order.
type Quat [4]float64

// Vec3 is a 3-vector.
type Vec3 [3]float64

// Identity is the zero rotation.
var Identity = Quat{0, 0, 0, 1}

func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vec3) Norm() float64      { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Scale(f float64) Vec3 { return Vec3{v[0] * f, v[1] * f, v[2] * f} }

// Conjugate negates the vector part.
func (q Quat) Conjugate() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// Vector returns the vector part [x, y, z].
func (q Quat) Vector() Vec3 {
	return Vec3{q[0], q[1], q[2]}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

// Normalize returns q scaled to unit length. The zero quaternion maps to Identity.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return Identity
	}
	return Quat{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// Tilt returns the total rotation angle of q in radians, in [0, π].
func (q Quat) Tilt() float64 {
	w := math.Abs(q[3])
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

// Multiply returns the Hamilton product q1*q2.
func Multiply(q1, q2 Quat) Quat {
	return Quat{
		q1[3]*q2[0] + q1[0]*q2[3] + q1[1]*q2[2] - q1[2]*q2[1],
		q1[3]*q2[1] - q1[0]*q2[2] + q1[1]*q2[3] + q1[2]*q2[0],
		q1[3]*q2[2] + q1[0]*q2[1] - q1[1]*q2[0] + q1[2]*q2[3],
		q1[3]*q2[3] - q1[0]*q2[0] - q1[1]*q2[1] - q1[2]*q2[2],
	}
}

// Rotate rotates v by q.
func Rotate(v Vec3, q Quat) Vec3 {
	r := Multiply(Multiply(q, Quat{v[0], v[1], v[2], 0}), q.Conjugate())
	return r.Vector()
}

// InverseRotate rotates v by the conjugate of q.
func InverseRotate(v Vec3, q Quat) Vec3 {
	return Rotate(v, q.Conjugate())
}

// FromRotation builds the quaternion for the rotation vector v, whose
// direction is the axis and whose length is the angle.
func FromRotation(v Vec3) Quat {
	angle := v.Norm()
	if angle < SmallAngle {
		h := v.Scale(0.5)
		return Quat{h[0], h[1], h[2], math.Sqrt(1 - h.Dot(h))}
	}
	s := math.Sin(angle/2) / angle
	return Quat{v[0] * s, v[1] * s, v[2] * s, math.Cos(angle / 2)}
}

// FromOrientation rebuilds a unit quaternion from its vector part.
// The caller must ensure |v| <= 1.
func FromOrientation(v Vec3) Quat {
	return Quat{v[0], v[1], v[2], math.Sqrt(1 - v.Dot(v))}
}
