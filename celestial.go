package spaceball

import (
	"fmt"
	"strings"
)

// CelestialBody defines the surface conditions of a celestial body.
// Gravity multipliers are relative to Earth and come from
// https://galileo.phys.virginia.edu/classes/152.mf1i.spring02/GravityFactSheet.htm
// and densities (kg/m^3) from http://btc.montana.edu/ceres/malcolm/cd/html/orbitsfacts.html
type CelestialBody struct {
	Name              string
	GravityMultiplier float64
	AirDensity        float64
}

// String implements the Stringer interface.
func (c CelestialBody) String() string {
	return c.Name + " body"
}


/* Definitions */

// Mercury is hot and almost airless.
var Mercury = CelestialBody{"mercury", 0.378, 0.0002}

// Venus is poisonous and very thick.
var Venus = CelestialBody{"venus", 0.894, 65}

// Earth is home.
var Earth = CelestialBody{"earth", 1, 1.23}

// Mars is the vacation place.
var Mars = CelestialBody{"mars", 0.379, 0.020}

// Jupiter is big.
var Jupiter = CelestialBody{"jupiter", 2.54, 0.16}

// Saturn floats and that's really cool.
var Saturn = CelestialBody{"saturn", 1.07, 0.19}

// Uranus is no joke.
var Uranus = CelestialBody{"uranus", 0.8, 0.42}

// Neptune is windy.
var Neptune = CelestialBody{"neptune", 1.2, 0.45}

// Pluto is not a planet, and has no air to speak of.
var Pluto = CelestialBody{"pluto", 0.059, 0}

// Moon is ours.
var Moon = CelestialBody{"moon", 0.166, 0}

// Sun is our closest star. Its surface is treated as airless.
var Sun = CelestialBody{"sun", 28, 0}

// Bodies returns all the known bodies in their declared order.
func Bodies() []CelestialBody {
	return []CelestialBody{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, Moon, Sun}
}

// CelestialBodyFromString returns the body from its name.
func CelestialBodyFromString(name string) (CelestialBody, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "the ")
	for _, body := range Bodies() {
		if body.Name == name {
			return body, nil
		}
	}
	return CelestialBody{}, fmt.Errorf("undefined celestial body '%s'", name)
}
