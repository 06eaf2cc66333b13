package experiment

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/agent"
	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/experiment/tracker"
	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/utils/progressbar"
)

// runState is a phase of the training loop
type runState int

const (
	episodeStart runState = iota // reset environment, begin episode
	stepLoop                     // act, observe, learn
	episodeEnd                   // decay exploration, check convergence
	converged                    // checkpoint learned weights
	finished                     // no further transitions
)

// Online is an Experiment that trains an agent online only. No
// offline evaluation is performed.
//
// The run proceeds through an explicit state machine: each episode
// starts by resetting the environment, loops over environmental steps
// until a terminal state or the step cap, and ends by decaying the
// agent's exploration and recomputing a moving average of episodic
// returns. Once the moving average reaches the solve threshold the
// learned weights are checkpointed and the run stops; reaching the
// episode cap without converging stops the run without error.
type Online struct {
	environment env.Environment
	agent       agent.Agent
	config      Config
	log         zerolog.Logger

	state    runState
	step     ts.TimeStep
	trackers []tracker.Tracker
	returns  []float64
}

// NewOnline creates and returns a new online experiment running agent
// a on environment e. Timestep data is sent to each Tracker in
// trackers.
func NewOnline(e env.Environment, a agent.Agent, config Config,
	log zerolog.Logger, trackers ...tracker.Tracker) (*Online, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("online: invalid configuration: %v", err)
	}

	return &Online{
		environment: e,
		agent:       a,
		config:      config,
		log:         log,
		state:       episodeStart,
		trackers:    trackers,
	}, nil
}

// Register adds a Tracker to the experiment
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Run runs the experiment until the agent converges or the episode
// cap is reached. Environment and agent errors abort the run.
func (o *Online) Run() (Report, error) {
	var bar *progressbar.ProgressBar
	if o.config.Progress {
		bar = progressbar.New(50, o.config.MaxEpisodes, time.Second)
		bar.Display()
		defer bar.Close()
	}

	o.state = episodeStart
	solved := false

	for o.state != finished {
		switch o.state {
		case episodeStart:
			if err := o.startEpisode(); err != nil {
				return Report{}, err
			}

		case stepLoop:
			if err := o.runEpisode(); err != nil {
				return Report{}, err
			}

		case episodeEnd:
			o.endEpisode()
			if bar != nil {
				bar.Increment()
			}

		case converged:
			solved = true
			if err := o.checkpoint(); err != nil {
				return Report{}, err
			}
			o.state = finished
		}
	}

	report := Report{
		Converged:     solved,
		Episodes:      len(o.returns),
		MovingAverage: o.movingAverage(),
	}
	o.log.Info().
		Bool("converged", report.Converged).
		Int("episodes", report.Episodes).
		Float64("movingAverage", report.MovingAverage).
		Msg("run finished")

	return report, nil
}

// startEpisode resets the environment and hands the starting timestep
// to the agent
func (o *Online) startEpisode() error {
	o.step = o.environment.Reset()
	if err := o.agent.ObserveFirst(o.step); err != nil {
		return fmt.Errorf("run: could not start episode: %v", err)
	}
	o.track(o.step)
	o.returns = append(o.returns, 0.0)

	o.state = stepLoop
	return nil
}

// runEpisode loops over environmental steps until a terminal state or
// the step cap is reached
func (o *Online) runEpisode() error {
	for steps := 0; !o.step.Last() && steps < o.config.MaxStepsPerEpisode; steps++ {
		action := o.agent.SelectAction(o.step)

		var err error
		o.step, _, err = o.environment.Step(action)
		if err != nil {
			return fmt.Errorf("run: could not step environment: %v", err)
		}
		o.track(o.step)
		o.returns[len(o.returns)-1] += o.step.Reward

		if err := o.agent.Observe(action, o.step); err != nil {
			return fmt.Errorf("run: could not observe step: %v", err)
		}
		if err := o.agent.Step(); err != nil {
			return fmt.Errorf("run: could not step agent: %v", err)
		}
	}

	o.state = episodeEnd
	return nil
}

// endEpisode decays the agent's exploration, logs the episode, and
// decides whether the run continues, converged, or hit the episode
// cap
func (o *Online) endEpisode() {
	o.agent.EndEpisode()

	episodes := len(o.returns)
	average := o.movingAverage()

	event := o.log.Info().
		Int("episode", episodes).
		Float64("return", o.returns[episodes-1]).
		Float64("movingAverage", average)
	if explorer, ok := o.agent.(interface{ Epsilon() float64 }); ok {
		event = event.Float64("epsilon", explorer.Epsilon())
	}
	event.Msg("episode finished")

	switch {
	case average >= o.config.SolveThreshold:
		o.state = converged
	case episodes >= o.config.MaxEpisodes:
		o.state = finished
	default:
		o.state = episodeStart
	}
}

// checkpoint persists the agent's learned weights if the agent
// supports it and a model path was configured
func (o *Online) checkpoint() error {
	o.log.Info().
		Int("episode", len(o.returns)).
		Float64("movingAverage", o.movingAverage()).
		Msg("converged")

	saver, ok := o.agent.(agent.Saver)
	if !ok || o.config.ModelPath == "" {
		return nil
	}
	if err := saver.Save(o.config.ModelPath); err != nil {
		return fmt.Errorf("run: could not checkpoint agent: %v", err)
	}
	o.log.Info().Str("path", o.config.ModelPath).Msg("checkpoint written")
	return nil
}

// movingAverage computes the mean of the most recent episodic
// returns, over at most the configured window
func (o *Online) movingAverage() float64 {
	if len(o.returns) == 0 {
		return 0.0
	}

	window := o.config.window()
	if len(o.returns) < window {
		window = len(o.returns)
	}
	return stat.Mean(o.returns[len(o.returns)-window:], nil)
}

// track sends the current timestep to each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// Save persists all tracked data to disk
func (o *Online) Save() error {
	for _, tr := range o.trackers {
		if err := tr.Save(); err != nil {
			return err
		}
	}
	return nil
}

var _ Experiment = (*Online)(nil)
