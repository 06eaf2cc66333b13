package deepq

// bootstrapTargets computes the one-step update target for each
// transition in a batch:
//
//	y = r + γ max_a' Q'(s', a')
//
// where Q'(s', ·) are the target network's action values at the next
// state. The discounts argument holds the per-transition value of γ,
// which is zero on transitions into a terminal state so that nothing
// is bootstrapped past the end of an episode. The nextActionValues
// argument holds the target network's outputs in row-major order, one
// row of numActions values per transition.
func bootstrapTargets(rewards, discounts, nextActionValues []float64,
	numActions int) []float64 {
	targets := make([]float64, len(rewards))
	for i := range rewards {
		row := nextActionValues[i*numActions : (i+1)*numActions]

		max := row[0]
		for _, v := range row[1:] {
			if v > max {
				max = v
			}
		}

		targets[i] = rewards[i] + discounts[i]*max
	}
	return targets
}
