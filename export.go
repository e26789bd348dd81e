package spaceball

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Sample is one point of a trajectory.
type Sample struct {
	T, X, Y, VX, VY float64 // s, m, m, m/s, m/s
}

// ToText returns the CSV record of this sample.
func (s Sample) ToText() []string {
	record := make([]string, 5)
	for i, val := range []float64{s.T, s.X, s.Y, s.VX, s.VY} {
		record[i] = strconv.FormatFloat(val, 'f', 6, 64)
	}
	return record
}

// ExportConfig configures the exporting of the trajectory.
type ExportConfig struct {
	Filename  string
	OutputDir string
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// Path returns the path of the trajectory file of the provided body.
func (c ExportConfig) Path(body CelestialBody, dt time.Time) string {
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	name := body.Name
	if c.Filename != "" {
		name = c.Filename + "-" + name
	}
	if c.Timestamp {
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, dt.Year(), dt.Month(), dt.Day(), dt.Hour(), dt.Minute(), dt.Second())
	}
	return filepath.Join(dir, "trajectory-"+name+".csv")
}

// StreamSamples writes all the samples of the channel as CSV until it is closed.
// The channel is always drained, even if writing fails.
func StreamSamples(w io.Writer, samples <-chan Sample) (err error) {
	cw := csv.NewWriter(w)
	err = cw.Write([]string{"t", "x", "y", "vx", "vy"})
	for sample := range samples {
		if err != nil {
			continue
		}
		err = cw.Write(sample.ToText())
	}
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// exporter streams the samples of one simulation to a file.
type exporter struct {
	f       *os.File
	samples chan Sample
	done    chan error
}

func startExport(conf ExportConfig, body CelestialBody) (*exporter, error) {
	path := conf.Path(body, time.Now().UTC())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create trajectory file: %w", err)
	}
	e := &exporter{f: f, samples: make(chan Sample, 1000), done: make(chan error, 1)} // a 1k entry buffer
	go func() {
		e.done <- StreamSamples(f, e.samples)
	}()
	return e, nil
}

func (e *exporter) record(s Sample) {
	e.samples <- s
}

// finish closes the stream and writes where the ground was crossed, unless the simulation failed.
func (e *exporter) finish(dist float64, simErr error) error {
	close(e.samples)
	err := <-e.done
	if err == nil {
		if simErr != nil {
			_, err = fmt.Fprintf(e.f, "# simulation failed: %s\n", simErr)
		} else {
			_, err = fmt.Fprintf(e.f, "# ground crossing: %f m\n", dist)
		}
	}
	if cerr := e.f.Close(); err == nil {
		err = cerr
	}
	return err
}
