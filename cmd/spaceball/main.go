package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ChristopherRabotin/spaceball"
	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// This code hits a ball from every requested body and prints how far it goes.

const (
	defaultScenario = "~~unset~~"
	defaultMPH      = 110
	defaultAngle    = 35
)

var (
	scenario string
	mph      float64
	angle    float64
	height   float64
	bodyName string
	numCPUs  int
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.Float64Var(&mph, "mph", defaultMPH, "launch speed in miles per hour")
	flag.Float64Var(&angle, "angle", defaultAngle, "launch angle in degrees")
	flag.Float64Var(&height, "height", spaceball.DefaultLaunchHeight, "launch height in feet")
	flag.StringVar(&bodyName, "body", "", "only simulate this body (e.g. `mars`)")
	flag.IntVar(&numCPUs, "cpus", -1, "number of CPUs to use (set to 0 for max CPUs)")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	v := viper.New()
	if scenario != defaultScenario {
		readScenario(v, scenario)
	}
	sc, err := scenarioFromViper(v)
	if err != nil {
		log.Fatalf("invalid scenario: %s", err)
	}
	if verbose {
		log.Printf("[conf] launch: %s\n", sc)
		log.Printf("[conf] projectile: %+v\n", sc.conf.Projectile)
		log.Printf("[conf] integrator: %s, step: %s, max flight: %s\n", sc.conf.Integrator, sc.conf.Step, sc.conf.MaxFlightTime)
		if !sc.export.IsUseless() {
			log.Printf("[conf] exporting trajectories to %s\n", sc.export.OutputDir)
		}
	}

	availableCPUs := runtime.NumCPU()
	if numCPUs <= 0 || numCPUs > availableCPUs {
		numCPUs = availableCPUs
	}

	var logger kitlog.Logger
	if verbose {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	} else {
		logger = kitlog.NewNopLogger()
	}

	reports, errs := run(sc, logger, numCPUs)
	for i, rpt := range reports {
		if errs[i] != nil {
			log.Fatalf("%s", errs[i])
		}
		fmt.Println(rpt)
	}
}

// run simulates every body of the scenario on up to numCPUs goroutines.
// Reports are returned in the order of the bodies.
func run(sc scenarioConfig, logger kitlog.Logger, numCPUs int) ([]spaceball.Report, []error) {
	var wg sync.WaitGroup
	cpuChan := make(chan bool, numCPUs)
	reports := make([]spaceball.Report, len(sc.bodies))
	errs := make([]error, len(sc.bodies))
	for i, body := range sc.bodies {
		wg.Add(1)
		cpuChan <- true
		go func(i int, body spaceball.CelestialBody) {
			defer func() {
				<-cpuChan
				wg.Done()
			}()
			sim, err := spaceball.NewSimulationFromHeight(sc.mph, sc.angle, sc.height, body, sc.conf)
			if err != nil {
				errs[i] = err
				return
			}
			sim = sim.WithLogger(logger).WithExport(sc.export)
			reports[i], errs[i] = spaceball.NewReport(sim)
		}(i, body)
	}
	wg.Wait()
	return reports, errs
}

func readScenario(v *viper.Viper, path string) {
	if filepath.Dir(path) != "." {
		v.SetConfigFile(path)
	} else {
		path = strings.Replace(path, ".toml", "", 1)
		v.AddConfigPath(".")
		v.SetConfigName(path)
		path = "./" + path + ".toml"
	}
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("%s: Error %s", path, err)
	}
}
