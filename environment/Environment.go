// Package environment outlines the interfaces needed to implement
// concrete environments
package environment

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// ErrInvalidAction is returned by environments when stepped with an
// action outside their action set. It indicates a caller bug and
// should be treated as fatal.
var ErrInvalidAction = errors.New("action outside the environment's action set")

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when episodes end for reasons other than reaching
// a terminal state, e.g. timestep limits. Enders modify the timestep
// in-place to mark it as the last in its episode.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment
type Task interface {
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool
}

// Environment implements a simulated environment, which includes a
// Task to complete. Environments start ready to use and are reset
// between episodes. Step errors are propagated to the caller
// unchanged; environments perform no retries.
type Environment interface {
	Task
	Starter
	Reset() timestep.TimeStep
	Step(action mat.Vector) (timestep.TimeStep, bool, error)
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
