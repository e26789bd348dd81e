package spaceball

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// displayNames overrides the title cased name of some bodies.
var displayNames = map[string]string{
	"moon": "the Moon",
	"sun":  "the Sun",
}

// DisplayName returns how the body is named in a sentence.
func DisplayName(body CelestialBody) string {
	if name, ok := displayNames[body.Name]; ok {
		return name
	}
	if body.Name == "" {
		return ""
	}
	return strings.ToUpper(body.Name[:1]) + strings.ToLower(body.Name[1:])
}

// Report is the human readable result of a simulation.
type Report struct {
	Body     CelestialBody
	SpeedMPH float64
	AngleDeg float64
	Distance float64 // meters
}

// NewReport runs the simulation and returns its report.
func NewReport(s *Simulation) (Report, error) {
	dist, err := s.Distance()
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", DisplayName(s.Body()), err)
	}
	return Report{Body: s.Body(), SpeedMPH: s.SpeedMPH(), AngleDeg: s.AngleDeg(), Distance: dist}, nil
}

// String implements the Stringer interface.
func (r Report) String() string {
	return fmt.Sprintf("A ball on %s, hit at %s MPH, and an angle of %s°, would travel %s feet.",
		DisplayName(r.Body), strconv.FormatFloat(round2(r.SpeedMPH), 'f', -1, 64), strconv.FormatFloat(r.AngleDeg, 'f', -1, 64), FormatFeet(r.Distance))
}

// FormatFeet returns the provided distance (in meters) in feet. Anything under a hundredth of
// a foot is in scientific notation, the rest is rounded to two decimals with thousands separators.
func FormatFeet(meters float64) string {
	return formatFeet(MetersToFeet(meters))
}

func formatFeet(ft float64) string {
	if ft < 1e-2 {
		return fmt.Sprintf("%.2e", ft)
	}
	str := humanize.Commaf(round2(ft))
	if !strings.Contains(str, ".") {
		str += ".0"
	}
	return str
}

// round2 rounds to two decimals going through the decimal representation.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		panic(err)
	}
	return r
}
