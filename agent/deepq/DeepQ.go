// Package deepq implements the deep Q-learning algorithm: Q-learning
// with neural network function approximation, an experience replay
// buffer, and a slowly-tracking target network.
package deepq

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/agent"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/agent/policy"
	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/expreplay"
	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/utils/floatutils"
)

// DeepQ implements the deep Q-learning algorithm with the MSE loss
//
// The agent maintains four views of the Q-function:
//
//	behaviourPolicy	selects actions during training (ε-greedy,
//			batch size 1)
//	greedyPolicy	selects actions during evaluation (greedy,
//			batch size 1)
//	trainNet	learns the weights on sampled minibatches
//	targetNet	provides the bootstrapped update target and
//			tracks trainNet by Polyak averaging
//
// All four share an architecture; behaviourPolicy and greedyPolicy are
// kept in sync with trainNet after every gradient step.
type DeepQ struct {
	behaviourPolicy   *policy.MultiHeadEGreedyMLP
	behaviourPolicyVM G.VM
	greedyPolicy      *policy.MultiHeadEGreedyMLP
	greedyPolicyVM    G.VM

	trainNet   *policy.MultiHeadEGreedyMLP
	trainNetVM G.VM
	solver     G.Solver

	targetNet   *policy.MultiHeadEGreedyMLP
	targetNetVM G.VM
	tau         float64

	// Input nodes of trainNet's graph. The update target
	// y = r + γ max[Q'(s', a')] is computed outside the graph from the
	// target network's outputs and fed in through updateTargets; the
	// selectedActions node holds one-hot encodings of the actions whose
	// values the loss is taken over.
	updateTargets   *G.Node
	selectedActions *G.Node

	replay     *expreplay.Buffer
	numActions int
	batchSize  int
	gamma      float64

	epsilonDecay float64
	epsilonMin   float64

	updateInterval int
	stepsTaken     int

	prevStep   ts.TimeStep
	prevAction int
	nextStep   ts.TimeStep

	eval bool
}

// New creates and returns a new DeepQ agent acting in environment e
func New(e env.Environment, config Config, seed int64) (*DeepQ, error) {
	if e.ActionSpec().Cardinality != env.Discrete {
		return nil, fmt.Errorf("deepq: cannot use non-discrete actions")
	}
	if e.ActionSpec().LowerBound.Len() > 1 {
		return nil, fmt.Errorf("deepq: actions must be 1-dimensional")
	}
	if e.ActionSpec().LowerBound.AtVec(0) != 0.0 {
		return nil, fmt.Errorf("deepq: actions must be enumerated " +
			"starting from 0")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("deepq: invalid configuration: %v", err)
	}

	numActions := int(e.ActionSpec().UpperBound.AtVec(0)) + 1
	numFeatures := e.ObservationSpec().Shape.Len()
	batchSize := config.BatchSize

	activations, err := config.activations()
	if err != nil {
		return nil, fmt.Errorf("deepq: %v", err)
	}

	// Behaviour policy for selecting actions during training
	g := G.NewGraph()
	behaviourPolicy, err := policy.NewMultiHeadEGreedyMLP(
		config.Epsilon,
		e,
		1, // a single observation per action selection
		g,
		config.PolicyLayers,
		config.Biases,
		config.InitWFn.InitWFn(),
		activations,
		seed,
	)
	if err != nil {
		return nil, fmt.Errorf("deepq: could not create behaviour "+
			"policy: %v", err)
	}
	behaviourPolicyVM := G.NewTapeMachine(g)

	// Greedy policy for selecting actions during evaluation
	greedyPolicy, err := behaviourPolicy.ClonePolicy()
	if err != nil {
		return nil, fmt.Errorf("deepq: could not create greedy policy: %v",
			err)
	}
	greedyPolicy.SetEpsilon(0.0)
	greedyPolicyVM := G.NewTapeMachine(greedyPolicy.Graph())

	// Target network providing the update target
	targetNet, err := behaviourPolicy.ClonePolicyWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("deepq: could not create target "+
			"network: %v", err)
	}
	targetNet.SetEpsilon(0.0)
	targetNetVM := G.NewTapeMachine(targetNet.Graph())

	// Training network which learns the weights
	trainNet, err := behaviourPolicy.ClonePolicyWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("deepq: could not create learning "+
			"network: %v", err)
	}
	gTrain := trainNet.Graph()

	// The update target for each transition in the batch is fed in as
	// an input value
	updateTargets := G.NewVector(gTrain, tensor.Float64,
		G.WithShape(batchSize), G.WithName("updateTargets"))

	// One-hot encodings of the actions taken at the previous states.
	// These select which of the N predicted action values the loss is
	// computed over.
	selectedActions := G.NewMatrix(gTrain, tensor.Float64,
		G.WithShape(batchSize, numActions), G.WithName("selectedActions"))

	selectedActionValues := G.Must(G.HadamardProd(trainNet.Prediction(),
		selectedActions))
	selectedActionValues = G.Must(G.Sum(selectedActionValues, 1))

	// Mean squared TD error
	losses := G.Must(G.Sub(updateTargets, selectedActionValues))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	if _, err := G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("deepq: could not compute gradient: %v", err)
	}

	trainNetVM := G.NewTapeMachine(gTrain,
		G.BindDualValues(trainNet.Learnables()...))

	replay, err := expreplay.New(config.ReplayCapacity, numFeatures,
		numActions, seed)
	if err != nil {
		return nil, fmt.Errorf("deepq: could not create experience "+
			"replay buffer: %v", err)
	}

	return &DeepQ{
		behaviourPolicy:   behaviourPolicy,
		behaviourPolicyVM: behaviourPolicyVM,
		greedyPolicy:      greedyPolicy,
		greedyPolicyVM:    greedyPolicyVM,
		trainNet:          trainNet,
		trainNetVM:        trainNetVM,
		solver:            config.Solver,
		targetNet:         targetNet,
		targetNetVM:       targetNetVM,
		tau:               config.Tau,
		updateTargets:     updateTargets,
		selectedActions:   selectedActions,
		replay:            replay,
		numActions:        numActions,
		batchSize:         batchSize,
		gamma:             config.Gamma,
		epsilonDecay:      config.EpsilonDecay,
		epsilonMin:        config.EpsilonMin,
		updateInterval:    config.UpdateInterval,
	}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (d *DeepQ) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observefirst: timestep %v is not the first "+
			"of an episode", t.Number)
	}
	d.prevStep = ts.TimeStep{}
	d.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first,
// adding the completed transition to the experience replay buffer
func (d *DeepQ) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: actions must be 1-dimensional: "+
			"\n\twant(1) \n\thave(%v)", action.Len())
	}

	if !d.nextStep.First() {
		transition := ts.NewTransition(d.prevStep, d.prevAction, d.nextStep)
		if err := d.replay.Add(transition); err != nil {
			return fmt.Errorf("observe: could not record transition: %v", err)
		}
	}

	d.prevStep = d.nextStep
	d.nextStep = nextStep
	d.prevAction = int(action.AtVec(0))

	// No further Observe call follows the last step of an episode, so
	// the episode's final transition is recorded here
	if nextStep.Last() {
		transition := ts.NewTransition(d.prevStep, d.prevAction, d.nextStep)
		if err := d.replay.Add(transition); err != nil {
			return fmt.Errorf("observe: could not record final "+
				"transition: %v", err)
		}
	}
	return nil
}

// Step updates the weights of the agent's policies. A gradient step is
// taken once every UpdateInterval environmental steps, provided the
// replay buffer holds at least a full batch; otherwise Step is a
// no-op.
func (d *DeepQ) Step() error {
	d.stepsTaken++
	if d.stepsTaken%d.updateInterval != 0 {
		return nil
	}

	states, actions, rewards, nextStates, dones, err :=
		d.replay.Sample(d.batchSize)
	if expreplay.IsInsufficientSamples(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("step: could not sample minibatch: %v", err)
	}

	// Predict the action values in the next states using the target
	// network
	if err := d.targetNet.SetInput(nextStates); err != nil {
		return fmt.Errorf("step: could not set target network input: %v",
			err)
	}
	if err := d.targetNetVM.RunAll(); err != nil {
		return fmt.Errorf("step: could not run target network: %v", err)
	}
	nextActionValues := make([]float64, d.batchSize*d.numActions)
	copy(nextActionValues, d.targetNet.Output().Data().([]float64))
	d.targetNetVM.Reset()

	// Terminal transitions contribute nothing past the episode's end
	discounts := make([]float64, d.batchSize)
	for i, done := range dones {
		if !done {
			discounts[i] = d.gamma
		}
	}

	targets := bootstrapTargets(rewards, discounts, nextActionValues,
		d.numActions)
	targetTensor := tensor.New(tensor.WithBacking(targets),
		tensor.WithShape(d.batchSize))
	if err := G.Let(d.updateTargets, targetTensor); err != nil {
		return fmt.Errorf("step: could not set update targets: %v", err)
	}

	// One-hot encode the actions taken at the previous states
	oneHot := make([]float64, d.batchSize*d.numActions)
	for i, action := range actions {
		oneHot[i*d.numActions+action] = 1.0
	}
	actionTensor := tensor.New(tensor.WithBacking(oneHot),
		tensor.WithShape(d.batchSize, d.numActions))
	if err := G.Let(d.selectedActions, actionTensor); err != nil {
		return fmt.Errorf("step: could not set selected actions: %v", err)
	}

	// Run the learning step
	if err := d.trainNet.SetInput(states); err != nil {
		return fmt.Errorf("step: could not set learning network input: %v",
			err)
	}
	if err := d.trainNetVM.RunAll(); err != nil {
		return fmt.Errorf("step: could not run learning step: %v", err)
	}
	if err := d.solver.Step(d.trainNet.Model()); err != nil {
		return fmt.Errorf("step: could not update weights: %v", err)
	}
	d.trainNetVM.Reset()

	// Move the target network toward the newly learned weights
	if d.tau == 1.0 {
		err = d.targetNet.Set(d.trainNet)
	} else {
		err = d.targetNet.Polyak(d.trainNet, d.tau)
	}
	if err != nil {
		return fmt.Errorf("step: could not update target network: %v", err)
	}

	if err := d.behaviourPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not sync behaviour policy: %v", err)
	}
	if err := d.greedyPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not sync greedy policy: %v", err)
	}
	return nil
}

// SelectAction runs the necessary VMs and returns an action selected
// by the behaviour policy, or by the greedy policy when the agent is
// in evaluation mode
func (d *DeepQ) SelectAction(t ts.TimeStep) *mat.VecDense {
	var p *policy.MultiHeadEGreedyMLP
	var vm G.VM

	if d.eval {
		p = d.greedyPolicy
		vm = d.greedyPolicyVM
	} else {
		p = d.behaviourPolicy
		vm = d.behaviourPolicyVM
	}

	obs := t.Observation.(*mat.VecDense).RawVector().Data
	if err := p.SetInput(obs); err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}
	if err := vm.RunAll(); err != nil {
		panic(fmt.Sprintf("selectaction: could not run policy: %v", err))
	}

	action, _ := p.SelectAction()
	vm.Reset()
	return action
}

// EndEpisode decays the behaviour policy's exploration at the end of
// each episode, never below the configured floor
func (d *DeepQ) EndEpisode() {
	ε := floatutils.Max(d.epsilonMin,
		d.epsilonDecay*d.behaviourPolicy.Epsilon())
	d.behaviourPolicy.SetEpsilon(ε)
}

// Epsilon returns the behaviour policy's current exploration rate
func (d *DeepQ) Epsilon() float64 {
	return d.behaviourPolicy.Epsilon()
}

// TdError calculates the TD error generated by the learner on a
// transition
func (d *DeepQ) TdError(t ts.Transition) float64 {
	d.behaviourPolicy.SetInput(t.State.(*mat.VecDense).RawVector().Data)
	d.behaviourPolicyVM.RunAll()
	actionValues := d.behaviourPolicy.Output().Data().([]float64)
	actionValue := actionValues[t.Action]
	d.behaviourPolicyVM.Reset()

	d.greedyPolicy.SetInput(t.NextState.(*mat.VecDense).RawVector().Data)
	d.greedyPolicyVM.RunAll()
	_, nextActionValue := d.greedyPolicy.SelectAction()
	d.greedyPolicyVM.Reset()

	discount := d.gamma
	if t.Done {
		discount = 0.0
	}
	return t.Reward + discount*nextActionValue - actionValue
}

// Eval sets the agent into evaluation mode
func (d *DeepQ) Eval() {
	d.eval = true
}

// Train sets the agent into training mode
func (d *DeepQ) Train() {
	d.eval = false
}

// IsEval indicates whether the agent is in evaluation mode
func (d *DeepQ) IsEval() bool {
	return d.eval
}

// Save persists the learned weights to the file at path
func (d *DeepQ) Save(path string) error {
	return d.greedyPolicy.Save(path)
}

var _ agent.Agent = (*DeepQ)(nil)
var _ agent.TdErrorer = (*DeepQ)(nil)
var _ agent.Saver = (*DeepQ)(nil)
