package spaceball

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

// Reference distances (meters) of a baseball hit at 110 MPH and 35° from 3 ft.
var referenceDistances = map[string]float64{
	"mercury": 614.4648859343339,
	"venus":   9.286018566882538,
	"earth":   130.3822333996432,
	"mars":    590.4303459719915,
	"jupiter": 88.51232346191149,
	"saturn":  193.4583848150239,
	"uranus":  214.25879825493834,
	"neptune": 154.25868682864203,
	"pluto":   3931.2254625299943,
	"moon":    1398.0834742291606,
	"sun":     9.427923121962397,
}

// closedForm is the no drag range, written independently of the simulation.
func closedForm(mph, deg, heightFt, gMult float64) float64 {
	v := mph * 1609.34 / 3600
	θ := deg * math.Pi / 180
	h := heightFt * 0.3048
	g := 9.8 * gMult
	tof := (v*math.Sin(θ) + math.Sqrt(math.Pow(v*math.Sin(θ), 2)+2*g*h)) / g
	return v * math.Cos(θ) * tof
}

func airless(body CelestialBody) CelestialBody {
	body.AirDensity = 0
	return body
}

func TestReferenceDistances(t *testing.T) {
	for _, body := range Bodies() {
		sim, err := NewSimulation(110, 35, body)
		if err != nil {
			t.Fatalf("%s: %s", body, err)
		}
		dist, err := sim.Distance()
		if err != nil {
			t.Fatalf("%s: %s", body, err)
		}
		exp := referenceDistances[body.Name]
		if !floats.EqualWithinRel(dist, exp, 1e-9) {
			t.Fatalf("%s: distance=%.12f m, expected %.12f m", body, dist, exp)
		}
		t.Logf("[OK] %s: %f m", body, dist)
	}
}

func TestOtherReferenceDistances(t *testing.T) {
	for _, tc := range []struct {
		mph, deg, height float64
		body             CelestialBody
		exp              float64
	}{
		{110, 45, 3, Moon, 1487.3347841886791},
		{110, 35, 0, Earth, 129.59018301673916},
		{50, 35, 3, Earth, 41.68224965336608},
	} {
		dist, err := ComputeDistance(tc.mph, tc.deg, tc.body, tc.height)
		if err != nil {
			t.Fatalf("%+v: %s", tc, err)
		}
		if !floats.EqualWithinRel(dist, tc.exp, 1e-9) {
			t.Fatalf("%+v: distance=%.12f m", tc, dist)
		}
	}
}

func TestAirlessBodiesMatchClosedForm(t *testing.T) {
	for _, body := range []CelestialBody{Pluto, Moon, Sun} {
		for _, deg := range []float64{0, 10, 35, 45, 60, 89} {
			for _, height := range []float64{0, 3, 100} {
				dist, err := ComputeDistance(110, deg, body, height)
				if err != nil {
					t.Fatalf("%s: %s", body, err)
				}
				exp := closedForm(110, deg, height, body.GravityMultiplier)
				if !floats.EqualWithinAbsOrRel(dist, exp, 1e-12, 1e-9) {
					t.Fatalf("%s at %f° from %f ft: %f != %f", body, deg, height, dist, exp)
				}
			}
		}
	}
}

func TestDragReducesRange(t *testing.T) {
	for _, body := range Bodies() {
		if !hasAtmosphere(body) {
			continue
		}
		for _, mph := range []float64{10, 60, 110, 150} {
			withDrag, err := ComputeDistance(mph, 35, body, DefaultLaunchHeight)
			if err != nil {
				t.Fatalf("%s: %s", body, err)
			}
			without, err := ComputeDistance(mph, 35, airless(body), DefaultLaunchHeight)
			if err != nil {
				t.Fatalf("%s: %s", body, err)
			}
			if withDrag >= without {
				t.Fatalf("%s at %f MPH: drag %f m >= no drag %f m", body, mph, withDrag, without)
			}
		}
	}
}

func TestDistanceIncreasesWithSpeed(t *testing.T) {
	for _, body := range []CelestialBody{Earth, Mars, Moon, Venus} {
		prev := -1.0
		for mph := 5.0; mph <= 200; mph += 5 {
			dist, err := ComputeDistance(mph, 35, body, DefaultLaunchHeight)
			if err != nil {
				t.Fatalf("%s: %s", body, err)
			}
			if dist <= prev {
				t.Fatalf("%s: %f MPH went %f m, less than %f m at %f MPH", body, mph, dist, prev, mph-5)
			}
			prev = dist
		}
	}
}

func TestGroundLaunch(t *testing.T) {
	for _, body := range Bodies() {
		dist, err := ComputeDistance(110, 0, body, 0)
		if err != nil {
			t.Fatalf("%s: %s", body, err)
		}
		if dist != 0 {
			t.Fatalf("%s: ball launched flat from the ground went %f m", body, dist)
		}
		// Thrown into the ground.
		dist, err = ComputeDistance(110, -10, body, 0)
		if err != nil {
			t.Fatalf("%s: %s", body, err)
		}
		if hasAtmosphere(body) && dist != 0 {
			t.Fatalf("%s: ball thrown into the ground went %f m", body, dist)
		}
	}
	// Going up from the ground must still fly.
	dist, err := ComputeDistance(110, 35, Earth, 0)
	if err != nil || dist <= 0 {
		t.Fatalf("ball from the ground went %f m (err: %v)", dist, err)
	}
}

func TestSunIsShorterThanEarth(t *testing.T) {
	sun, err := ComputeDistance(110, 35, Sun, DefaultLaunchHeight)
	if err != nil {
		t.Fatal(err)
	}
	earth, err := ComputeDistance(110, 35, Earth, DefaultLaunchHeight)
	if err != nil {
		t.Fatal(err)
	}
	if sun >= earth/10 {
		t.Fatalf("Sun %f m is not much shorter than Earth %f m", sun, earth)
	}
	moon, _ := ComputeDistance(110, 35, Moon, DefaultLaunchHeight)
	if moon <= sun {
		t.Fatal("the Moon should be further than the Sun")
	}
}

func TestDragPathWithoutAir(t *testing.T) {
	// Without air, the integration only suffers from the interpolation of the last step.
	for _, body := range []CelestialBody{Moon, Sun, Pluto} {
		sim, err := NewSimulation(110, 35, body)
		if err != nil {
			t.Fatal(err)
		}
		exp := sim.distanceWithoutDrag()
		for _, solve := range []func(func(Sample)) (float64, error){sim.distanceWithDrag, sim.distanceWithDragRK4} {
			dist, err := solve(nil)
			if err != nil {
				t.Fatalf("%s: %s", body, err)
			}
			// The chord of the last step always cuts the parabola short.
			if dist > exp || !floats.EqualWithinRel(dist, exp, 1e-3) {
				t.Fatalf("%s: integrated %f m != %f m", body, dist, exp)
			}
		}
	}
}

func TestRK4(t *testing.T) {
	conf := DefaultConfig()
	conf.Integrator = RK4
	for _, tc := range []struct {
		body CelestialBody
		exp  float64
		tol  float64 // relative to Euler
	}{{Earth, 130.57099305074712, 5e-3}, {Mars, 590.4444986398624, 1e-3}, {Venus, 9.71181013100311, 0.1}} {
		sim, err := NewSimulationFromHeight(110, 35, DefaultLaunchHeight, tc.body, conf)
		if err != nil {
			t.Fatal(err)
		}
		dist, err := sim.Distance()
		if err != nil {
			t.Fatalf("%s: %s", tc.body, err)
		}
		if !floats.EqualWithinRel(dist, tc.exp, 1e-6) {
			t.Fatalf("%s: RK4 distance=%.12f m", tc.body, dist)
		}
		if euler := referenceDistances[tc.body.Name]; !floats.EqualWithinRel(dist, euler, tc.tol) {
			t.Fatalf("%s: RK4 %f m too far from Euler %f m", tc.body, dist, euler)
		}
	}
	// Airless bodies do not integrate at all.
	sim, _ := NewSimulationFromHeight(110, 35, DefaultLaunchHeight, Moon, conf)
	if dist, _ := sim.Distance(); !floats.EqualWithinRel(dist, referenceDistances["moon"], 1e-9) {
		t.Fatalf("the Moon with RK4 went %f m", dist)
	}
}

func TestStepSize(t *testing.T) {
	// A finer step converges towards the same distance.
	conf := DefaultConfig()
	conf.Step = time.Millisecond
	sim, err := NewSimulationFromHeight(110, 35, DefaultLaunchHeight, Earth, conf)
	if err != nil {
		t.Fatal(err)
	}
	fine, err := sim.Distance()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinRel(fine, referenceDistances["earth"], 1e-2) {
		t.Fatalf("1 ms step went %f m", fine)
	}
}

func TestInvalidInputs(t *testing.T) {
	for _, tc := range []struct {
		mph, deg, height float64
		body             CelestialBody
	}{
		{-1, 35, 3, Earth},
		{math.NaN(), 35, 3, Earth},
		{math.Inf(1), 35, 3, Earth},
		{110, math.NaN(), 3, Earth},
		{110, math.Inf(-1), 3, Earth},
		{110, 35, -1, Earth},
		{110, 35, math.NaN(), Earth},
		{110, 35, 3, CelestialBody{"void", 0, 0}},
		{110, 35, 3, CelestialBody{"antigravity", -1, 1}},
		{110, 35, 3, CelestialBody{"vacuum", 1, -1}},
	} {
		if _, err := ComputeDistance(tc.mph, tc.deg, tc.body, tc.height); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", tc, err)
		}
	}
	for _, mod := range []func(*Config){
		func(c *Config) { c.Step = 0 },
		func(c *Config) { c.Step = -time.Second },
		func(c *Config) { c.MaxFlightTime = time.Millisecond },
		func(c *Config) { c.Projectile.Mass = 0 },
		func(c *Config) { c.Projectile.Area = -1 },
		func(c *Config) { c.Projectile.DragCoefficient = math.NaN() },
		func(c *Config) { c.Integrator = 0 },
	} {
		conf := DefaultConfig()
		mod(&conf)
		if _, err := NewSimulationFromHeight(110, 35, 3, Earth, conf); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", conf, err)
		}
	}
	// A zero speed is valid: the ball just drops.
	if dist, err := ComputeDistance(0, 35, Earth, 3); err != nil || !floats.EqualWithinAbs(dist, 0, 1e-12) {
		t.Fatalf("dropped ball went %f m (err: %v)", dist, err)
	}
}

func TestDidNotConverge(t *testing.T) {
	for _, integrator := range []Integrator{Euler, RK4} {
		conf := DefaultConfig()
		conf.MaxFlightTime = time.Second
		conf.Integrator = integrator
		sim, err := NewSimulationFromHeight(110, 35, 3, Earth, conf)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := sim.Distance(); !errors.Is(err, ErrDidNotConverge) {
			t.Fatalf("%s: expected ErrDidNotConverge, got %v", integrator, err)
		}
	}
}

func TestNonFiniteDistance(t *testing.T) {
	for _, integrator := range []Integrator{Euler, RK4} {
		conf := DefaultConfig()
		conf.Integrator = integrator
		sim, err := NewSimulationFromHeight(1e160, 35, 3, Earth, conf)
		if err != nil {
			t.Fatal(err)
		}
		if dist, err := sim.Distance(); !errors.Is(err, ErrNonFinite) || dist != 0 {
			t.Fatalf("%s: expected ErrNonFinite, got %f (%v)", integrator, dist, err)
		}
	}
	conf := DefaultConfig()
	conf.Integrator = RK4
	sim, err := NewSimulationFromHeight(5000, 35, 3, Venus, conf)
	if err != nil {
		t.Fatal(err)
	}
	if dist, err := sim.Distance(); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("venus: expected ErrNonFinite, got %f (%v)", dist, err)
	}
	if dist, err := ComputeDistance(1e200, 35, Moon, 3); !errors.Is(err, ErrNonFinite) || dist != 0 {
		t.Fatalf("moon: expected ErrNonFinite, got %f (%v)", dist, err)
	}
}

func TestGroundCrossing(t *testing.T) {
	if _, err := groundCrossing(point{1, 0.5}, point{2, 0.5}); !errors.Is(err, ErrDegenerateCrossing) {
		t.Fatalf("expected ErrDegenerateCrossing, got %v", err)
	}
	x, err := groundCrossing(point{10, 1}, point{12, -1})
	if err != nil || x != 11 {
		t.Fatalf("crossing at %f (err: %v)", x, err)
	}
	x, err = groundCrossing(point{10, 1}, point{12, 0})
	if err != nil || x != 12 {
		t.Fatalf("crossing at %f (err: %v)", x, err)
	}
}

func TestSimulationAccessors(t *testing.T) {
	sim, err := NewSimulation(110, 35, Mars)
	if err != nil {
		t.Fatal(err)
	}
	if sim.SpeedMPH() != 110 || sim.AngleDeg() != 35 || sim.HeightFt() != DefaultLaunchHeight || sim.Body() != Mars {
		t.Fatal("inputs not kept")
	}
	vv := sim.Velocity()
	if !floats.EqualWithinRel(vv.V(), MPHToMetersPerSecond(110), 1e-15) || !floats.EqualWithinAbs(vv.Angle(), Deg2rad(35), 1e-12) {
		t.Fatalf("incorrect initial velocity %s", vv)
	}
}

func TestLogger(t *testing.T) {
	var mu sync.Mutex
	var branches []string
	logger := kitlog.LoggerFunc(func(keyvals ...interface{}) error {
		mu.Lock()
		defer mu.Unlock()
		for i := 0; i < len(keyvals)-1; i += 2 {
			if keyvals[i] == "branch" {
				branches = append(branches, keyvals[i+1].(string))
			}
		}
		return nil
	})
	for _, body := range []CelestialBody{Earth, Moon} {
		sim, _ := NewSimulation(110, 35, body)
		if _, err := sim.WithLogger(logger).Distance(); err != nil {
			t.Fatal(err)
		}
	}
	if len(branches) != 2 || branches[0] != "drag" || branches[1] != "analytical" {
		t.Fatalf("unexpected branches: %v", branches)
	}
}

func TestConcurrentSimulations(t *testing.T) {
	bodies := Bodies()
	dists := make([]float64, len(bodies))
	var wg sync.WaitGroup
	for i, body := range bodies {
		wg.Add(1)
		go func(i int, body CelestialBody) {
			defer wg.Done()
			dists[i], _ = ComputeDistance(110, 35, body, DefaultLaunchHeight)
		}(i, body)
	}
	wg.Wait()
	for i, body := range bodies {
		if !floats.EqualWithinRel(dists[i], referenceDistances[body.Name], 1e-9) {
			t.Fatalf("%s: %f m in parallel", body, dists[i])
		}
	}
}
