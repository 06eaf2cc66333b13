// Package solver wraps Gorgonia Solvers behind named constructors so
// that agent configurations can refer to them by type.
package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
)

// Solver wraps a Gorgonia Solver together with its type name
type Solver struct {
	G.Solver
	Type Type
}

// String implements the fmt.Stringer interface
func (s *Solver) String() string {
	return string(s.Type)
}

// FromType constructs the solver named by t with the given step size
// and batch size, using default values for any remaining
// hyperparameters
func FromType(t Type, stepSize float64, batch int) (*Solver, error) {
	switch t {
	case Adam:
		return NewDefaultAdam(stepSize, batch), nil
	case Vanilla:
		return NewVanilla(stepSize, batch), nil
	}
	return nil, fmt.Errorf("fromtype: no such solver type %v", t)
}
