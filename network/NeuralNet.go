// Package network implements neural network function approximators
// using Gorgonia. Networks map state observations to vectors of
// action values; learning and automatic differentiation are supplied
// by Gorgonia and consumed here as-is.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network function approximator. A NeuralNet
// populates a Gorgonia ExprGraph; an external VM runs the graph after
// SetInput to produce a prediction, which Output returns.
//
// Set copies another network's weights into the receiver. Polyak
// moves the receiver's weights toward another network's weights by an
// exponential smoothing step, leaving the source untouched.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error
	Set(NeuralNet) error
	Polyak(NeuralNet, float64) error
	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}
