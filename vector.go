package spaceball

import (
	"fmt"
	"math"
)

// VelocityVector is the decomposition of a speed along the horizontal and vertical axes.
// It is a value: build a new one whenever the speed or the angle changes.
type VelocityVector struct {
	v, vx, vy float64
}

// NewVelocityVector returns the velocity vector of the provided speed along the provided angle (in radians).
func NewVelocityVector(speed, angle float64) VelocityVector {
	sθ, cθ := math.Sin(angle), math.Cos(angle)
	return VelocityVector{v: speed, vx: speed * cθ, vy: speed * sθ}
}

// V returns the magnitude of the vector.
func (vv VelocityVector) V() float64 {
	return vv.v
}

// X returns the horizontal component.
func (vv VelocityVector) X() float64 {
	return vv.vx
}

// Y returns the vertical component.
func (vv VelocityVector) Y() float64 {
	return vv.vy
}

// Angle returns the direction of the vector in radians.
func (vv VelocityVector) Angle() float64 {
	return math.Atan2(vv.vy, vv.vx)
}

// String implements the Stringer interface.
func (vv VelocityVector) String() string {
	return fmt.Sprintf("v=%.3f m/s (vx=%.3f, vy=%.3f)", vv.v, vv.vx, vv.vy)
}
