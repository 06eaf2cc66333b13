package chain

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// fixedStarter always starts episodes at the same chain position
type fixedStarter struct {
	position float64
}

func (f fixedStarter) Start() mat.Vector {
	return mat.NewVecDense(1, []float64{f.position})
}

func newTestChain(t *testing.T, numStates, cutoff int,
	start float64) (*Chain, ts.TimeStep) {
	t.Helper()

	task := NewReach(numStates-1, StepPenalty, GoalReward)
	c, first, err := New(task, fixedStarter{start}, numStates, cutoff, 0.99)
	if err != nil {
		t.Fatalf("could not create chain: %v", err)
	}
	return c, first
}

func action(a int) mat.Vector {
	return mat.NewVecDense(1, []float64{float64(a)})
}

// TestStepMovesAlongChain checks movement, rewards, and observation
// encoding for ordinary steps
func TestStepMovesAlongChain(t *testing.T) {
	c, first := newTestChain(t, 5, 100, 0)

	if !first.First() {
		t.Error("reset should return the first timestep of an episode")
	}
	if first.Observation.AtVec(0) != 1.0 {
		t.Errorf("wrong starting observation: %v", mat.Formatted(first.Observation))
	}

	step, last, err := c.Step(action(Right))
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if last {
		t.Error("mid-chain step should not end the episode")
	}
	if step.Observation.AtVec(1) != 1.0 {
		t.Errorf("wrong observation after moving right: %v",
			mat.Formatted(step.Observation))
	}
	if step.Reward != -StepPenalty {
		t.Errorf("wrong step reward \n\twant(%v) \n\thave(%v)",
			-StepPenalty, step.Reward)
	}

	// Moving left off the chain's end keeps the position fixed
	step, _, err = c.Step(action(Left))
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	step, _, err = c.Step(action(Left))
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if step.Observation.AtVec(0) != 1.0 {
		t.Errorf("expected to remain at the left end: %v",
			mat.Formatted(step.Observation))
	}
}

// TestGoalIsTerminal checks that reaching the goal ends the episode
// with a zeroed discount
func TestGoalIsTerminal(t *testing.T) {
	c, _ := newTestChain(t, 3, 100, 1)

	step, last, err := c.Step(action(Right))
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}

	if !last {
		t.Error("reaching the goal should end the episode")
	}
	if !step.TerminalEnd() {
		t.Error("goal state should be a true terminal end")
	}
	if step.Discount != 0 {
		t.Errorf("terminal step should zero the discount: have(%v)",
			step.Discount)
	}
	if step.Reward != GoalReward {
		t.Errorf("wrong goal reward \n\twant(%v) \n\thave(%v)",
			GoalReward, step.Reward)
	}
}

// TestCutoffKeepsDiscount checks that hitting the step limit ends the
// episode without marking it terminal, so learners keep bootstrapping
func TestCutoffKeepsDiscount(t *testing.T) {
	c, _ := newTestChain(t, 10, 2, 0)

	if _, last, err := c.Step(action(Right)); err != nil || last {
		t.Fatalf("first step should not end the episode (err: %v)", err)
	}

	step, last, err := c.Step(action(Right))
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if !last {
		t.Error("step limit should end the episode")
	}
	if step.TerminalEnd() {
		t.Error("a cutoff is not a terminal end")
	}
	if step.Discount != 0.99 {
		t.Errorf("cutoff should keep the discount \n\twant(%v) "+
			"\n\thave(%v)", 0.99, step.Discount)
	}
}

// TestStepRejectsInvalidActions checks that actions outside the
// action set fail with ErrInvalidAction
func TestStepRejectsInvalidActions(t *testing.T) {
	c, _ := newTestChain(t, 5, 100, 0)

	_, _, err := c.Step(action(7))
	if !errors.Is(err, env.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction \n\thave(%v)", err)
	}
}
