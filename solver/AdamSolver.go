package solver

import G "gorgonia.org/gorgonia"

// NewDefaultAdam returns a new Adam Solver with default hyperparameters
func NewDefaultAdam(stepSize float64, batchSize int) *Solver {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchSize int) *Solver {
	adam := G.NewAdamSolver(
		G.WithLearnRate(stepSize),
		G.WithEps(epsilon),
		G.WithBeta1(beta1),
		G.WithBeta2(beta2),
		G.WithBatchSize(float64(batchSize)),
	)

	return &Solver{Solver: adam, Type: Adam}
}
