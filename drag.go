package spaceball

import (
	"fmt"
	"math"
)

type point struct {
	x, y float64
}

// dragForce returns the quadratic drag on the projectile moving at v along θ, split along both axes.
// Both components are magnitudes along the direction of motion: subtract them to slow the ball down.
func dragForce(body CelestialBody, p Projectile, v, θ float64) (fx, fy float64) {
	f := 0.5 * body.AirDensity * v * v * p.Area * p.DragCoefficient
	sθ, cθ := math.Sin(θ), math.Cos(θ)
	return f * cθ, f * sθ
}

// dragAcceleration returns the acceleration of the projectile at velocity (vx, vy) moving along θ.
func dragAcceleration(body CelestialBody, p Projectile, g, v, θ float64) (ax, ay float64) {
	fx, fy := dragForce(body, p, v, θ)
	ax = -fx / p.Mass
	ay = -fy/p.Mass - g
	return
}

// groundCrossing linearly interpolates where the segment between the last two samples meets y = 0.
func groundCrossing(prev, last point) (float64, error) {
	if prev.y == last.y {
		return 0, fmt.Errorf("%w: y=%f on both of the last samples", ErrDegenerateCrossing, last.y)
	}
	ft := prev.y / (prev.y - last.y)
	return prev.x + (last.x-prev.x)*ft, nil
}

// maxSteps returns the number of steps after which the integration is considered diverging.
func (s *Simulation) maxSteps() uint64 {
	return uint64(s.conf.MaxFlightTime / s.conf.Step)
}

// distanceWithDrag integrates the trajectory with explicit constant acceleration steps
// (cf. https://physics.stackexchange.com/a/336696). The loop keeps going while the ball is
// still above ground or still rising, so it only stops on a downward crossing of the ground.
func (s *Simulation) distanceWithDrag(record func(Sample)) (float64, error) {
	p := s.conf.Projectile
	g := gravity(s.body)
	dt := s.conf.Step.Seconds()
	maxSteps := s.maxSteps()

	x, y := 0.0, s.height
	v, vx, vy := s.velocity.V(), s.velocity.X(), s.velocity.Y()
	θ := s.angle
	t := 0.0
	prev, last := point{x, y}, point{x, y}
	if record != nil {
		record(Sample{T: t, X: x, Y: y, VX: vx, VY: vy})
	}

	var steps uint64
	for y > 0 || vy > 0 {
		if steps >= maxSteps {
			return 0, fmt.Errorf("%w: still airborne after %s (x=%f m, y=%f m)", ErrDidNotConverge, s.conf.MaxFlightTime, x, y)
		}
		ax, ay := dragAcceleration(s.body, p, g, v, θ)
		x = x + vx*dt + 0.5*ax*dt*dt
		y = y + vy*dt + 0.5*ay*dt*dt
		vx = vx + ax*dt
		vy = vy + ay*dt
		// Drag for the next step follows the new direction of motion.
		v = math.Sqrt(vx*vx + vy*vy)
		θ = math.Atan2(vy, vx)
		if !isFinite(x) || !isFinite(y) {
			return 0, fmt.Errorf("%w: state overflowed at t=%f s (x=%f m, y=%f m)", ErrNonFinite, t, x, y)
		}
		prev, last = last, point{x, y}
		t += dt
		steps++
		if record != nil {
			record(Sample{T: t, X: x, Y: y, VX: vx, VY: vy})
		}
	}
	if steps == 0 {
		// Launched from the ground and not going up.
		return 0, nil
	}
	s.logger.Log("level", "debug", "subsys", "traj", "steps", steps, "flight(s)", t)
	return groundCrossing(prev, last)
}
