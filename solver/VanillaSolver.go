package solver

import G "gorgonia.org/gorgonia"

// NewVanilla returns a new vanilla gradient descent Solver
func NewVanilla(learnRate float64, batchSize int) *Solver {
	vanilla := G.NewVanillaSolver(
		G.WithLearnRate(learnRate),
		G.WithBatchSize(float64(batchSize)),
	)

	return &Solver{Solver: vanilla, Type: Vanilla}
}
