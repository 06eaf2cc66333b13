package deepq

import (
	"fmt"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/initwfn"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/network"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/solver"
)

// Config implements a configuration for a DeepQ agent
type Config struct {
	// PolicyLayers determines the sizes of the hidden layers of the
	// Q-network. A final linear layer with one output per action is
	// always added.
	PolicyLayers []int

	// Biases determines whether each hidden layer has a bias unit
	Biases []bool

	// Activations holds the activation of each hidden layer, keyed by
	// name so that configurations can be deserialized
	Activations []string

	// Solver is the gradient-based optimizer used to update the
	// Q-network weights
	Solver *solver.Solver

	// InitWFn determines how network weights are initialized
	InitWFn *initwfn.InitWFn

	// Epsilon is the starting probability of selecting a random action
	Epsilon float64

	// EpsilonDecay multiplies Epsilon at the end of each episode
	EpsilonDecay float64

	// EpsilonMin is the floor below which Epsilon never decays
	EpsilonMin float64

	// Gamma is the discount factor used in the bootstrapped update
	// target
	Gamma float64

	// ReplayCapacity is the maximum number of transitions held in the
	// experience replay buffer. Once full, the oldest transition is
	// evicted on each insertion.
	ReplayCapacity int

	// BatchSize is the number of transitions sampled from the replay
	// buffer for each gradient step
	BatchSize int

	// UpdateInterval is the number of environmental steps between
	// gradient steps
	UpdateInterval int

	// Tau is the Polyak averaging constant. After each gradient step
	// the target network weights θ' are moved toward the train network
	// weights θ by θ' ← τθ + (1-τ)θ'. Tau = 1.0 copies the weights
	// outright.
	Tau float64
}

// DefaultConfig returns a configuration with reasonable defaults for
// episodic control tasks
func DefaultConfig() Config {
	return Config{
		PolicyLayers: []int{64, 64},
		Biases:       []bool{true, true},
		Activations:  []string{"relu", "relu"},
		Solver:       solver.NewDefaultAdam(0.001, 64),
		InitWFn:      initwfn.NewGlorotU(1.0),

		Epsilon:      1.0,
		EpsilonDecay: 0.995,
		EpsilonMin:   0.01,

		Gamma:          0.995,
		ReplayCapacity: 100_000,
		BatchSize:      64,
		UpdateInterval: 4,
		Tau:            0.001,
	}
}

// Validate checks the configuration for errors, returning the first
// one found
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("policy layers and biases do not match: "+
			"\n\twant(%v) \n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}
	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("policy layers and activations do not match: "+
			"\n\twant(%v) \n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}
	if c.Solver == nil {
		return fmt.Errorf("no solver provided")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("no weight initialization provided")
	}
	if c.Epsilon < 0.0 || c.Epsilon > 1.0 {
		return fmt.Errorf("epsilon must be in [0, 1]: have(%v)", c.Epsilon)
	}
	if c.EpsilonDecay <= 0.0 || c.EpsilonDecay > 1.0 {
		return fmt.Errorf("epsilon decay must be in (0, 1]: have(%v)",
			c.EpsilonDecay)
	}
	if c.EpsilonMin < 0.0 || c.EpsilonMin > c.Epsilon {
		return fmt.Errorf("epsilon floor must be in [0, epsilon]: have(%v)",
			c.EpsilonMin)
	}
	if c.Gamma < 0.0 || c.Gamma > 1.0 {
		return fmt.Errorf("discount must be in [0, 1]: have(%v)", c.Gamma)
	}
	if c.ReplayCapacity < c.BatchSize {
		return fmt.Errorf("replay capacity cannot hold a batch: "+
			"\n\twant(>= %v) \n\thave(%v)", c.BatchSize, c.ReplayCapacity)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive: have(%v)",
			c.BatchSize)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update interval must be positive: have(%v)",
			c.UpdateInterval)
	}
	if c.Tau <= 0.0 || c.Tau > 1.0 {
		return fmt.Errorf("tau must be in (0, 1]: have(%v)", c.Tau)
	}
	return nil
}

// activations converts the named activations of the configuration to
// concrete activation functions
func (c Config) activations() ([]*network.Activation, error) {
	acts := make([]*network.Activation, len(c.Activations))
	for i, name := range c.Activations {
		switch name {
		case "relu":
			acts[i] = network.ReLU()
		case "tanh":
			acts[i] = network.TanH()
		case "identity", "linear":
			acts[i] = network.Identity()
		default:
			return nil, fmt.Errorf("unknown activation %q", name)
		}
	}
	return acts, nil
}
