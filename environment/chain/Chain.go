// Package chain implements the classic chain MDP: states are laid out
// in a line, the agent starts near the left end, and walking to the
// rightmost state ends the episode. Observations are one-hot encodings
// of the current position. The environment is deliberately tiny; it
// exists so that training runs end-to-end without an external
// simulator.
package chain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// Actions available in the chain
const (
	Left int = iota
	Right
)

// Default task parameters
const (
	StepPenalty float64 = 0.01
	GoalReward  float64 = 1.0
)

// Chain implements the chain MDP as an environment.Environment
type Chain struct {
	env.Task
	env.Starter
	ender env.Ender

	numStates int
	discount  float64

	position    int
	currentStep ts.TimeStep
}

// New returns a chain of numStates states with the given task and
// starting-state distribution, together with the first timestep of the
// environment. Episodes are cut off after cutoff steps.
func New(task env.Task, starter env.Starter, numStates, cutoff int,
	discount float64) (*Chain, ts.TimeStep, error) {
	if numStates < 2 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: chain needs at least "+
			"2 states \n\thave(%v)", numStates)
	}
	if discount < 0 || discount >= 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount out of [0, 1) "+
			"\n\thave(%v)", discount)
	}

	c := &Chain{
		Task:      task,
		Starter:   starter,
		ender:     env.NewStepLimit(cutoff),
		numStates: numStates,
		discount:  discount,
	}
	step := c.Reset()

	return c, step, nil
}

// NewDefault returns a chain with the Reach task and a uniform
// starting distribution over the left half of the chain
func NewDefault(numStates, cutoff int, discount float64,
	seed uint64) (*Chain, ts.TimeStep, error) {
	starter := env.NewUniformStarter([]r1.Interval{
		{Min: 0, Max: float64(numStates-1) / 2},
	}, seed)
	task := NewReach(numStates-1, StepPenalty, GoalReward)

	return New(task, starter, numStates, cutoff, discount)
}

// Reset resets the environment to a starting state between episodes
func (c *Chain) Reset() ts.TimeStep {
	start := c.Start().AtVec(0)
	c.position = int(math.Floor(start))
	if c.position < 0 {
		c.position = 0
	}
	if c.position > c.numStates-1 {
		c.position = c.numStates - 1
	}

	step := ts.New(ts.First, 0, c.discount, c.obs(), 0)
	c.currentStep = step

	return step
}

// Step takes one environmental step with a single discrete action and
// returns the resulting timestep and whether it was the last in the
// episode
func (c *Chain) Step(action mat.Vector) (ts.TimeStep, bool, error) {
	if action.Len() != 1 {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions must be "+
			"1-dimensional \n\thave(%v)", action.Len())
	}

	prevObs := c.currentStep.Observation

	a := int(action.AtVec(0))
	switch a {
	case Left:
		if c.position > 0 {
			c.position--
		}
	case Right:
		if c.position < c.numStates-1 {
			c.position++
		}
	default:
		return ts.TimeStep{}, true, fmt.Errorf("step: action %v: %w", a,
			env.ErrInvalidAction)
	}

	nextObs := c.obs()
	reward := c.GetReward(prevObs, action, nextObs)

	step := ts.New(ts.Mid, reward, c.discount, nextObs,
		c.currentStep.Number+1)
	if c.AtGoal(nextObs) {
		// Terminal states zero the discount so that learners stop
		// bootstrapping; cutoffs below keep it
		step.StepType = ts.Last
		step.Discount = 0
	} else {
		c.ender.End(&step)
	}

	c.currentStep = step

	return step, step.Last(), nil
}

// obs returns the one-hot observation of the current chain position
func (c *Chain) obs() mat.Vector {
	data := make([]float64, c.numStates)
	data[c.position] = 1.0
	return mat.NewVecDense(c.numStates, data)
}

// ObservationSpec returns the observation specification of the chain
func (c *Chain) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(c.numStates, nil)
	low := mat.NewVecDense(c.numStates, nil)
	high := mat.NewVecDense(c.numStates, ones(c.numStates))

	return env.NewSpec(shape, env.Observation, low, high, env.Continuous)
}

// ActionSpec returns the action specification of the chain
func (c *Chain) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	low := mat.NewVecDense(1, []float64{float64(Left)})
	high := mat.NewVecDense(1, []float64{float64(Right)})

	return env.NewSpec(shape, env.Action, low, high, env.Discrete)
}

// RewardSpec returns the reward specification of the chain
func (c *Chain) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	low := mat.NewVecDense(1, []float64{-StepPenalty})
	high := mat.NewVecDense(1, []float64{GoalReward})

	return env.NewSpec(shape, env.Reward, low, high, env.Continuous)
}

// DiscountSpec returns the discount specification of the chain
func (c *Chain) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	low := mat.NewVecDense(1, []float64{c.discount})
	high := mat.NewVecDense(1, []float64{c.discount})

	return env.NewSpec(shape, env.Discount, low, high, env.Continuous)
}

func ones(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = 1.0
	}
	return data
}
