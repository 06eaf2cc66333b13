package chain

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/utils/floatutils"
)

// Reach implements the task of walking to the rightmost state of the
// chain. Every step costs a small penalty, and reaching the goal state
// earns a fixed reward.
type Reach struct {
	goal        int
	stepPenalty float64
	goalReward  float64
}

// NewReach returns a Reach task with goal state goal
func NewReach(goal int, stepPenalty, goalReward float64) *Reach {
	return &Reach{goal: goal, stepPenalty: stepPenalty, goalReward: goalReward}
}

// GetReward returns the reward for a transition ending in nextState
func (r *Reach) GetReward(state, action, nextState mat.Vector) float64 {
	if position(nextState) == r.goal {
		return r.goalReward
	}
	return -r.stepPenalty
}

// AtGoal returns whether state is the goal state of the chain
func (r *Reach) AtGoal(state mat.Matrix) bool {
	v, ok := state.(mat.Vector)
	if !ok {
		return false
	}
	return position(v) == r.goal
}

// position recovers the chain position encoded in a one-hot
// observation vector
func position(obs mat.Vector) int {
	raw := make([]float64, obs.Len())
	for i := range raw {
		raw[i] = obs.AtVec(i)
	}
	_, indices := floatutils.MaxSlice(raw)
	return indices[0]
}
