package main

import (
	"flag"
	"fmt"

	"github.com/ChristopherRabotin/spaceball"
	"github.com/spf13/viper"
)

// flagKeys maps the command line flags to their scenario key.
var flagKeys = map[string]string{
	"mph":    "launch.mph",
	"angle":  "launch.angle",
	"height": "launch.height",
	"body":   "launch.bodies",
}

type scenarioConfig struct {
	mph, angle, height float64
	bodies             []spaceball.CelestialBody
	conf               spaceball.Config
	export             spaceball.ExportConfig
}

func (sc scenarioConfig) String() string {
	return fmt.Sprintf("%.2f MPH at %.2f° from %.2f ft on %d bodies", sc.mph, sc.angle, sc.height, len(sc.bodies))
}

// scenarioFromViper reads the scenario. Flags set on the command line take precedence over the scenario file.
func scenarioFromViper(v *viper.Viper) (sc scenarioConfig, err error) {
	v.SetDefault("launch.mph", defaultMPH)
	v.SetDefault("launch.angle", defaultAngle)
	v.SetDefault("launch.height", spaceball.DefaultLaunchHeight)
	v.SetDefault("launch.bodies", []string{})
	v.SetDefault("export.output_dir", ".")
	flag.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if f.Name == "body" {
			v.Set(key, []string{f.Value.String()})
			return
		}
		v.Set(key, f.Value.String())
	})

	sc.mph = v.GetFloat64("launch.mph")
	sc.angle = v.GetFloat64("launch.angle")
	sc.height = v.GetFloat64("launch.height")

	names := v.GetStringSlice("launch.bodies")
	if len(names) == 0 {
		sc.bodies = spaceball.Bodies()
	} else {
		sc.bodies = make([]spaceball.CelestialBody, len(names))
		for i, name := range names {
			if sc.bodies[i], err = spaceball.CelestialBodyFromString(name); err != nil {
				return sc, err
			}
		}
	}

	if sc.conf, err = spaceball.LoadConfig(v); err != nil {
		return sc, err
	}

	sc.export = spaceball.ExportConfig{
		Filename:  v.GetString("export.filename"),
		OutputDir: v.GetString("export.output_dir"),
		AsCSV:     v.GetBool("export.csv"),
		Timestamp: v.GetBool("export.timestamp"),
	}
	return sc, nil
}
