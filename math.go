package spaceball

import (
	"math"

	"github.com/soniakeys/unit"
)

const (
	// g0 is Earth's gravitational acceleration in m/s^2, which every body multiplier is relative to.
	g0 = 9.8
	// ftPerMeter is the meters to feet factor used for reporting.
	ftPerMeter = 3.284
	// meterPerFt is the feet to meters factor used for the launch height.
	meterPerFt = 0.3048
)

// MPHToMetersPerSecond converts miles per hour to meters per second.
// The factors are kept as is (hours to seconds, then miles to kilometers, then kilometers to meters).
func MPHToMetersPerSecond(n float64) float64 {
	return n * (1 / 60.) * (1 / 60.) * (1.60934 / 1) * (1000 / 1)
}

// MetersToFeet converts meters to feet.
func MetersToFeet(n float64) float64 {
	return n * ftPerMeter
}

// FeetToMeters converts feet to meters.
func FeetToMeters(n float64) float64 {
	return n * meterPerFt
}

// Deg2rad converts degrees to radians. Unlike an orbital angle, a launch angle is not wrapped.
func Deg2rad(a float64) float64 {
	return unit.AngleFromDeg(a).Rad()
}

// Rad2deg converts radians to degrees.
func Rad2deg(a float64) float64 {
	return unit.Angle(a).Deg()
}

// isFinite returns whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
