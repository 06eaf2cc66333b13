// Package tracker implements trackers which record data generated
// during an experiment and persist it to disk
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// Tracker caches data from the timesteps of a running experiment.
// Experiments send every environmental timestep to each registered
// Tracker through Track; the Tracker decides which data it keeps.
// Save persists all cached data to disk, usually once the experiment
// has finished.
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// LoadData reads a slice of float64 previously persisted by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaddata: could not open data file: %v", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loaddata: could not decode data: %v", err)
	}
	return data, nil
}
