package spaceball

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
)

// dragIntegrable is an ode.Integrable of the ball with drag. Its state is [x y vx vy]^T.
type dragIntegrable struct {
	body       CelestialBody
	projectile Projectile
	g          float64
	state      []float64
	prev, last point
	step       float64
	steps      uint64
	maxSteps   uint64
	diverged   bool
	overflowed bool
	record     func(Sample)
}

// GetState implements the ode.Integrable interface.
func (d *dragIntegrable) GetState() []float64 {
	return d.state
}

// SetState implements the ode.Integrable interface.
func (d *dragIntegrable) SetState(t float64, s []float64) {
	d.state = s
	d.prev, d.last = d.last, point{s[0], s[1]}
	d.steps++
	if d.record != nil {
		d.record(Sample{T: float64(d.steps) * d.step, X: s[0], Y: s[1], VX: s[2], VY: s[3]})
	}
}

// Stop implements the ode.Integrable interface.
func (d *dragIntegrable) Stop(t float64) bool {
	for _, v := range d.state {
		if !isFinite(v) {
			d.overflowed = true
			return true
		}
	}
	if !(d.state[1] > 0 || d.state[3] > 0) {
		return true
	}
	if d.steps >= d.maxSteps {
		d.diverged = true
		return true
	}
	return false
}

// Func implements the ode.Integrable interface.
func (d *dragIntegrable) Func(t float64, s []float64) []float64 {
	vx, vy := s[2], s[3]
	v := math.Sqrt(vx*vx + vy*vy)
	ax, ay := dragAcceleration(d.body, d.projectile, d.g, v, math.Atan2(vy, vx))
	return []float64{vx, vy, ax, ay}
}

// distanceWithDragRK4 is the same as distanceWithDrag but each step is a fourth order Runge Kutta step.
// The drag direction is reevaluated at every stage instead of once per step.
func (s *Simulation) distanceWithDragRK4(record func(Sample)) (float64, error) {
	vx, vy := s.velocity.X(), s.velocity.Y()
	d := &dragIntegrable{
		body:       s.body,
		projectile: s.conf.Projectile,
		g:          gravity(s.body),
		state:      []float64{0, s.height, vx, vy},
		prev:       point{0, s.height},
		last:       point{0, s.height},
		step:       s.conf.Step.Seconds(),
		maxSteps:   s.maxSteps(),
		record:     record,
	}
	if record != nil {
		record(Sample{X: 0, Y: s.height, VX: vx, VY: vy})
	}
	if _, _, err := ode.NewRK4(0, d.step, d).Solve(); err != nil { // Blocking.
		return 0, err
	}
	if d.overflowed {
		return 0, fmt.Errorf("%w: state overflowed after %d steps (x=%f m, y=%f m)", ErrNonFinite, d.steps, d.state[0], d.state[1])
	}
	if d.diverged {
		return 0, fmt.Errorf("%w: still airborne after %s (x=%f m, y=%f m)", ErrDidNotConverge, s.conf.MaxFlightTime, d.state[0], d.state[1])
	}
	if d.steps == 0 {
		return 0, nil
	}
	s.logger.Log("level", "debug", "subsys", "traj", "steps", d.steps, "flight(s)", float64(d.steps)*d.step)
	return groundCrossing(d.prev, d.last)
}
