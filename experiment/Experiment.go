// Package experiment implements functionality for running training
// experiments. An experiment drives the interaction between an agent
// and an environment episode by episode, tracks the data each
// timestep generates, and decides when training has converged.
package experiment

import (
	"fmt"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/experiment/tracker"
)

// Experiment runs an agent on an environment. Experiments send every
// environmental timestep to their registered tracker.Trackers, whose
// cached data is persisted with Save once the run finishes.
type Experiment interface {
	// Run runs the experiment to completion, to convergence or to the
	// episode cap, whichever comes first
	Run() (Report, error)

	// Register adds a Tracker to the (possibly already running)
	// experiment
	Register(t tracker.Tracker)

	// Save persists all tracked data to disk
	Save() error
}

// Report summarizes a finished experiment
type Report struct {
	// Converged reports whether the moving average of episodic returns
	// reached the solve threshold. Reaching the episode cap without
	// converging is a valid outcome, not an error.
	Converged bool

	// Episodes is the number of episodes run
	Episodes int

	// MovingAverage is the final moving average of episodic returns
	MovingAverage float64
}

// Config configures an experiment run
type Config struct {
	// MaxEpisodes caps the number of training episodes
	MaxEpisodes int

	// MaxStepsPerEpisode cuts an episode off after this many steps,
	// whether or not a terminal state was reached
	MaxStepsPerEpisode int

	// SolveThreshold is the moving average of episodic returns at
	// which the task counts as solved
	SolveThreshold float64

	// AverageWindow is the number of most recent episodic returns the
	// moving average is computed over. Zero selects the default of
	// 100.
	AverageWindow int

	// ModelPath, if non-empty, is the file the agent's learned weights
	// are checkpointed to upon convergence. The agent must implement
	// agent.Saver for the checkpoint to be written.
	ModelPath string

	// Progress displays a terminal progress bar over episodes
	Progress bool
}

// Validate checks the configuration for errors, returning the first
// one found
func (c Config) Validate() error {
	if c.MaxEpisodes <= 0 {
		return fmt.Errorf("episode cap must be positive: have(%v)",
			c.MaxEpisodes)
	}
	if c.MaxStepsPerEpisode <= 0 {
		return fmt.Errorf("step cap must be positive: have(%v)",
			c.MaxStepsPerEpisode)
	}
	if c.AverageWindow < 0 {
		return fmt.Errorf("average window cannot be negative: have(%v)",
			c.AverageWindow)
	}
	return nil
}

// window returns the configured moving average window, falling back
// to the default
func (c Config) window() int {
	if c.AverageWindow == 0 {
		return 100
	}
	return c.AverageWindow
}
