// Package policy implements action-selection policies backed by
// neural network function approximation.
package policy

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/network"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/utils/floatutils"
)

// MultiHeadEGreedyMLP implements an epsilon greedy policy using a
// feedforward neural network. Given an environment with N actions,
// the network produces N outputs, each predicting the value of a
// distinct action.
//
// MultiHeadEGreedyMLP populates a gorgonia.ExprGraph with the network
// function approximator and selects actions based on its output. The
// struct has no VM of its own; an external VM should run the policy's
// graph before an action is selected:
//
//	Set up VM with policy's graph:	vm = NewTapeMachine(policy.Network().Graph())
//	Set input to policy's network:	policy.Network().SetInput(obs)
//	Predict the action values:	vm.RunAll()
//	Select an action:		action, _ = policy.SelectAction()
//
// All randomness (the explore/exploit coin flip, random action draws,
// and argmax tie-breaking) comes from a single seeded source, so
// action selection is reproducible given a fixed seed.
type MultiHeadEGreedyMLP struct {
	network.NeuralNet
	epsilon float64

	rng  *rand.Rand
	seed int64
}

// NewMultiHeadEGreedyMLP creates and returns a new MultiHeadEGreedyMLP
// for selecting actions in environment e. The hiddenSizes, biases, and
// activations parameters configure the hidden layers of the underlying
// network; a final linear layer predicting one value per environmental
// action is always added, so a linear policy is obtained by leaving
// them empty. The batch parameter determines the number of
// observations in an input batch.
func NewMultiHeadEGreedyMLP(epsilon float64, e env.Environment, batch int,
	g *G.ExprGraph, hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*network.Activation,
	seed int64) (*MultiHeadEGreedyMLP, error) {
	numActions := int(e.ActionSpec().UpperBound.AtVec(0)) + 1
	features := e.ObservationSpec().Shape.Len()

	net, err := network.NewMultiHeadMLP(features, batch, numActions, g,
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy network: %v", err)
	}

	source := rand.NewSource(seed)

	return &MultiHeadEGreedyMLP{
		NeuralNet: net,
		epsilon:   epsilon,
		rng:       rand.New(source),
		seed:      seed,
	}, nil
}

// Network returns the neural network function approximator that the
// policy uses
func (e *MultiHeadEGreedyMLP) Network() network.NeuralNet {
	return e.NeuralNet
}

// ClonePolicy clones a MultiHeadEGreedyMLP
func (e *MultiHeadEGreedyMLP) ClonePolicy() (*MultiHeadEGreedyMLP, error) {
	return e.ClonePolicyWithBatch(e.BatchSize())
}

// ClonePolicyWithBatch clones a MultiHeadEGreedyMLP with a new input
// batch size
func (e *MultiHeadEGreedyMLP) ClonePolicyWithBatch(
	batchSize int) (*MultiHeadEGreedyMLP, error) {
	net, err := e.NeuralNet.CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("clonepolicywithbatch: could not clone "+
			"policy: %v", err)
	}

	source := rand.NewSource(e.seed)

	return &MultiHeadEGreedyMLP{
		NeuralNet: net,
		epsilon:   e.epsilon,
		rng:       rand.New(source),
		seed:      e.seed,
	}, nil
}

// SetEpsilon sets the value for epsilon in the epsilon greedy policy
func (e *MultiHeadEGreedyMLP) SetEpsilon(ε float64) {
	e.epsilon = ε
}

// Epsilon gets the value of epsilon for the policy
func (e *MultiHeadEGreedyMLP) Epsilon() float64 {
	return e.epsilon
}

// SelectAction selects an action according to the action values
// generated from the last run of the policy's computational graph.
// With probability epsilon a random action is returned; otherwise the
// action of maximal value is returned, with ties broken by the
// policy's seeded random source. The function returns the selected
// action and its approximated value.
func (e *MultiHeadEGreedyMLP) SelectAction() (*mat.VecDense, float64) {
	if e.Output() == nil {
		panic("selectaction: vm must be run before selecting an action")
	}

	actionValues := e.Output().Data().([]float64)

	// With probability epsilon return a random action
	if probability := e.rng.Float64(); probability < e.epsilon {
		action := e.rng.Intn(e.Outputs())
		return mat.NewVecDense(1, []float64{float64(action)}),
			actionValues[action]
	}

	// If multiple actions have max value, return a random max-valued
	// action
	_, maxIndices := floatutils.MaxSlice(actionValues)
	action := maxIndices[e.rng.Intn(len(maxIndices))]

	return mat.NewVecDense(1, []float64{float64(action)}),
		actionValues[action]
}

// Save persists the policy's network weights and exploration settings
// to the file at path
func (e *MultiHeadEGreedyMLP) Save(path string) error {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(&e.NeuralNet); err != nil {
		return fmt.Errorf("save: could not encode network: %v", err)
	}
	if err := enc.Encode(e.epsilon); err != nil {
		return fmt.Errorf("save: could not encode epsilon: %v", err)
	}
	if err := enc.Encode(e.seed); err != nil {
		return fmt.Errorf("save: could not encode seed: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save: could not write policy: %v", err)
	}
	return nil
}

// Load restores a policy previously persisted with Save
func Load(path string) (*MultiHeadEGreedyMLP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: could not read policy: %v", err)
	}
	dec := gob.NewDecoder(bytes.NewReader(data))

	policy := &MultiHeadEGreedyMLP{}
	if err := dec.Decode(&policy.NeuralNet); err != nil {
		return nil, fmt.Errorf("load: could not decode network: %v", err)
	}
	if err := dec.Decode(&policy.epsilon); err != nil {
		return nil, fmt.Errorf("load: could not decode epsilon: %v", err)
	}
	if err := dec.Decode(&policy.seed); err != nil {
		return nil, fmt.Errorf("load: could not decode seed: %v", err)
	}
	policy.rng = rand.New(rand.NewSource(policy.seed))

	return policy, nil
}
