package spaceball

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// StepSize is the default step size of the drag integration.
	StepSize = 10 * time.Millisecond
	// MaxFlightTime is the default hard limit on the simulated time of flight.
	MaxFlightTime = 100000 * time.Second
	// DefaultLaunchHeight is the height (in feet) of the bat when it hits the ball.
	DefaultLaunchHeight = 3.0
)

// Integrator defines an enum of integration schemes for the drag path.
type Integrator uint8

const (
	// Euler is the explicit constant acceleration step, the default.
	Euler Integrator = iota + 1
	// RK4 is the fourth order Runge Kutta step.
	RK4
)

func (i Integrator) String() string {
	switch i {
	case Euler:
		return "euler"
	case RK4:
		return "rk4"
	}
	panic("cannot stringify unknown integrator")
}

// IntegratorFromString returns the integrator from its name.
func IntegratorFromString(name string) (Integrator, error) {
	switch strings.ToLower(name) {
	case "", "euler":
		return Euler, nil
	case "rk4":
		return RK4, nil
	default:
		return 0, fmt.Errorf("%w: unknown integrator '%s'", ErrInvalidInput, name)
	}
}

// Projectile defines the physical constants of what is launched.
type Projectile struct {
	Mass            float64 // kg
	Area            float64 // cross sectional area in m^2
	DragCoefficient float64
}

// Baseball is the default projectile.
var Baseball = Projectile{Mass: 0.145, Area: 0.0042, DragCoefficient: 0.3}

// Validate returns an error if the projectile cannot be simulated.
func (p Projectile) Validate() error {
	if !(p.Mass > 0) || !isFinite(p.Mass) {
		return fmt.Errorf("%w: projectile mass must be positive, got %f", ErrInvalidInput, p.Mass)
	}
	if p.Area < 0 || !isFinite(p.Area) {
		return fmt.Errorf("%w: projectile area must be non-negative, got %f", ErrInvalidInput, p.Area)
	}
	if p.DragCoefficient < 0 || !isFinite(p.DragCoefficient) {
		return fmt.Errorf("%w: drag coefficient must be non-negative, got %f", ErrInvalidInput, p.DragCoefficient)
	}
	return nil
}

// Config configures a simulation.
type Config struct {
	Projectile    Projectile
	Step          time.Duration
	MaxFlightTime time.Duration
	Integrator    Integrator
}

// DefaultConfig returns the configuration of a baseball integrated with Euler steps of 10 ms.
func DefaultConfig() Config {
	return Config{Projectile: Baseball, Step: StepSize, MaxFlightTime: MaxFlightTime, Integrator: Euler}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if err := c.Projectile.Validate(); err != nil {
		return err
	}
	if c.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %s", ErrInvalidInput, c.Step)
	}
	if c.MaxFlightTime < c.Step {
		return fmt.Errorf("%w: max flight time %s is shorter than the step %s", ErrInvalidInput, c.MaxFlightTime, c.Step)
	}
	if c.Integrator != Euler && c.Integrator != RK4 {
		return fmt.Errorf("%w: unknown integrator %d", ErrInvalidInput, c.Integrator)
	}
	return nil
}

// LoadConfig reads the `projectile` and `simulation` sections of the provided viper instance.
// Any missing key keeps its default value.
func LoadConfig(v *viper.Viper) (Config, error) {
	conf := DefaultConfig()
	v.SetDefault("projectile.mass", conf.Projectile.Mass)
	v.SetDefault("projectile.area", conf.Projectile.Area)
	v.SetDefault("projectile.cd", conf.Projectile.DragCoefficient)
	v.SetDefault("simulation.step", conf.Step)
	v.SetDefault("simulation.max_time", conf.MaxFlightTime)
	v.SetDefault("simulation.integrator", conf.Integrator.String())

	conf.Projectile = Projectile{
		Mass:            v.GetFloat64("projectile.mass"),
		Area:            v.GetFloat64("projectile.area"),
		DragCoefficient: v.GetFloat64("projectile.cd"),
	}
	conf.Step = v.GetDuration("simulation.step")
	conf.MaxFlightTime = v.GetDuration("simulation.max_time")
	integrator, err := IntegratorFromString(v.GetString("simulation.integrator"))
	if err != nil {
		return Config{}, err
	}
	conf.Integrator = integrator
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}
