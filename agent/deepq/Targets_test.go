package deepq

import (
	"math"
	"testing"
)

// TestBootstrapTargets checks the one-step update target on a batch
// mixing terminal and non-terminal transitions
func TestBootstrapTargets(t *testing.T) {
	rewards := []float64{5.0, -1.0}
	discounts := []float64{0.995, 0.0} // second transition is terminal
	nextActionValues := []float64{
		1.0, 2.0, 3.0, 4.0, // max = 4
		10.0, 20.0, 30.0, 40.0, // ignored past a terminal state
	}

	targets := bootstrapTargets(rewards, discounts, nextActionValues, 4)

	if expected := 5.0 + 0.995*4.0; math.Abs(targets[0]-expected) > 1e-12 {
		t.Errorf("wrong bootstrapped target \n\twant(%v) \n\thave(%v)",
			expected, targets[0])
	}
	if targets[1] != -1.0 {
		t.Errorf("terminal target should equal the reward "+
			"\n\twant(%v) \n\thave(%v)", -1.0, targets[1])
	}
}

// TestBootstrapTargetsNegativeValues checks that the maximum over next
// action values is taken even when all values are negative
func TestBootstrapTargetsNegativeValues(t *testing.T) {
	rewards := []float64{0.0}
	discounts := []float64{1.0}
	nextActionValues := []float64{-3.0, -1.0, -2.0}

	targets := bootstrapTargets(rewards, discounts, nextActionValues, 3)

	if targets[0] != -1.0 {
		t.Errorf("wrong bootstrapped target \n\twant(%v) \n\thave(%v)",
			-1.0, targets[0])
	}
}
