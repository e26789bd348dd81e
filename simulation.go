package spaceball

import (
	"errors"
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
)

var (
	// ErrInvalidInput is returned when the launch conditions or the configuration cannot be simulated.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDidNotConverge is returned when the ball has not come back to the ground within the max flight time.
	ErrDidNotConverge = errors.New("simulation did not converge")
	// ErrDegenerateCrossing is returned when the last two samples are at the same height and the ground crossing cannot be interpolated.
	ErrDegenerateCrossing = errors.New("degenerate ground crossing")
	// ErrNonFinite is returned when the trajectory overflows and the distance is not a finite number.
	ErrNonFinite = errors.New("non finite trajectory")
)

/* Handles the trajectory of the ball. */

// Simulation defines the launch of a ball from a celestial body and computes how far it goes.
type Simulation struct {
	speedMPH, angleDeg, heightFt float64
	body                         CelestialBody
	speed                        float64 // m/s
	angle                        float64 // radians
	height                       float64 // meters
	velocity                     VelocityVector
	conf                         Config
	export                       ExportConfig
	logger                       kitlog.Logger
}

// NewSimulation is the same as NewSimulationFromHeight with the default launch height and configuration.
func NewSimulation(speedMPH, angleDeg float64, body CelestialBody) (*Simulation, error) {
	return NewSimulationFromHeight(speedMPH, angleDeg, DefaultLaunchHeight, body, DefaultConfig())
}

// NewSimulationFromHeight returns a new Simulation of a ball hit at speedMPH (in miles per hour),
// with a launch angle of angleDeg (in degrees) from heightFt (in feet) above the ground.
func NewSimulationFromHeight(speedMPH, angleDeg, heightFt float64, body CelestialBody, conf Config) (*Simulation, error) {
	if !isFinite(speedMPH) || speedMPH < 0 {
		return nil, fmt.Errorf("%w: speed must be a non-negative number, got %f", ErrInvalidInput, speedMPH)
	}
	if !isFinite(angleDeg) {
		return nil, fmt.Errorf("%w: launch angle must be finite, got %f", ErrInvalidInput, angleDeg)
	}
	if !isFinite(heightFt) || heightFt < 0 {
		return nil, fmt.Errorf("%w: launch height must be a non-negative number, got %f", ErrInvalidInput, heightFt)
	}
	if !(body.GravityMultiplier > 0) || !isFinite(body.GravityMultiplier) {
		return nil, fmt.Errorf("%w: %s has no usable gravity (%f)", ErrInvalidInput, body, body.GravityMultiplier)
	}
	if body.AirDensity < 0 || !isFinite(body.AirDensity) {
		return nil, fmt.Errorf("%w: %s has a negative air density (%f)", ErrInvalidInput, body, body.AirDensity)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{speedMPH: speedMPH, angleDeg: angleDeg, heightFt: heightFt, body: body, conf: conf, logger: kitlog.NewNopLogger()}
	s.speed = MPHToMetersPerSecond(speedMPH)
	s.angle = Deg2rad(angleDeg)
	s.height = FeetToMeters(heightFt)
	s.velocity = NewVelocityVector(s.speed, s.angle)
	return s, nil
}

// ComputeDistance returns the horizontal distance (in meters) traveled by a baseball hit at
// speedMPH and angleDeg from heightFt above the surface of the provided body.
func ComputeDistance(speedMPH, angleDeg float64, body CelestialBody, heightFt float64) (float64, error) {
	s, err := NewSimulationFromHeight(speedMPH, angleDeg, heightFt, body, DefaultConfig())
	if err != nil {
		return 0, err
	}
	return s.Distance()
}

// WithLogger returns a copy of this simulation which logs to the provided logger.
func (s Simulation) WithLogger(logger kitlog.Logger) *Simulation {
	s.logger = kitlog.With(logger, "body", s.body.Name)
	return &s
}

// WithExport returns a copy of this simulation which exports its trajectory as configured.
func (s Simulation) WithExport(conf ExportConfig) *Simulation {
	s.export = conf
	return &s
}

// Body returns the body the ball is hit from.
func (s *Simulation) Body() CelestialBody {
	return s.body
}

// SpeedMPH returns the launch speed as provided, in miles per hour.
func (s *Simulation) SpeedMPH() float64 {
	return s.speedMPH
}

// AngleDeg returns the launch angle as provided, in degrees.
func (s *Simulation) AngleDeg() float64 {
	return s.angleDeg
}

// HeightFt returns the launch height as provided, in feet.
func (s *Simulation) HeightFt() float64 {
	return s.heightFt
}

// Velocity returns the initial velocity vector (m/s).
func (s *Simulation) Velocity() VelocityVector {
	return s.velocity
}

// Distance returns the horizontal distance (in meters) traveled by the ball until it hits the ground.
// Airless bodies use the closed form solution, all others are integrated with drag.
func (s *Simulation) Distance() (dist float64, err error) {
	var exp *exporter
	if !s.export.IsUseless() {
		if exp, err = startExport(s.export, s.body); err != nil {
			return 0, err
		}
		defer func() {
			if ferr := exp.finish(dist, err); ferr != nil && err == nil {
				dist, err = 0, ferr
			}
		}()
	}

	if !hasAtmosphere(s.body) {
		dist = s.distanceWithoutDrag()
		if !isFinite(dist) {
			err = fmt.Errorf("%w: closed form distance is %f", ErrNonFinite, dist)
			s.logger.Log("level", "critical", "subsys", "traj", "branch", "analytical", "err", err)
			return 0, err
		}
		if exp != nil {
			if err = s.sampleWithoutDrag(exp.record); err != nil {
				s.logger.Log("level", "critical", "subsys", "traj", "branch", "analytical", "err", err)
				return 0, err
			}
		}
		s.logger.Log("level", "info", "subsys", "traj", "branch", "analytical", "distance(m)", dist)
		return dist, nil
	}

	var record func(Sample)
	if exp != nil {
		record = exp.record
	}
	switch s.conf.Integrator {
	case RK4:
		dist, err = s.distanceWithDragRK4(record)
	default:
		dist, err = s.distanceWithDrag(record)
	}
	if err == nil && !isFinite(dist) {
		err = fmt.Errorf("%w: integrated distance is %f", ErrNonFinite, dist)
	}
	if err != nil {
		s.logger.Log("level", "critical", "subsys", "traj", "branch", "drag", "integrator", s.conf.Integrator, "err", err)
		return 0, err
	}
	s.logger.Log("level", "info", "subsys", "traj", "branch", "drag", "integrator", s.conf.Integrator, "distance(m)", dist)
	return dist, nil
}

// hasAtmosphere returns whether the body will slow down the ball.
func hasAtmosphere(body CelestialBody) bool {
	return body.AirDensity != 0
}

// gravity returns the gravitational acceleration (m/s^2) at the surface of the body.
func gravity(body CelestialBody) float64 {
	return g0 * body.GravityMultiplier
}

// distanceWithoutDrag solves y(t) = h + vy*t - g*t^2/2 = 0 for the positive root.
func (s *Simulation) distanceWithoutDrag() float64 {
	g := gravity(s.body)
	vy := s.velocity.V() * math.Sin(s.angle)
	flightTime := (vy + math.Sqrt(vy*vy+2*g*s.height)) / g
	return s.velocity.X() * flightTime
}

// sampleWithoutDrag records the closed form trajectory every step until the ground is reached.
// Flights longer than the max flight time are not sampled.
func (s *Simulation) sampleWithoutDrag(record func(Sample)) error {
	g := gravity(s.body)
	vx, vy0 := s.velocity.X(), s.velocity.V()*math.Sin(s.angle)
	flightTime := (vy0 + math.Sqrt(vy0*vy0+2*g*s.height)) / g
	if !isFinite(flightTime) {
		return fmt.Errorf("%w: closed form flight time is %f", ErrNonFinite, flightTime)
	}
	if flightTime > s.conf.MaxFlightTime.Seconds() {
		return fmt.Errorf("%w: flight of %f s exceeds %s", ErrDidNotConverge, flightTime, s.conf.MaxFlightTime)
	}
	dt := s.conf.Step.Seconds()
	at := func(t float64) Sample {
		return Sample{T: t, X: vx * t, Y: s.height + vy0*t - 0.5*g*t*t, VX: vx, VY: vy0 - g*t}
	}
	maxSteps := s.maxSteps()
	for i := uint64(0); i <= maxSteps && float64(i)*dt < flightTime; i++ {
		record(at(float64(i) * dt))
	}
	final := at(flightTime)
	final.Y = 0
	record(final)
	return nil
}
