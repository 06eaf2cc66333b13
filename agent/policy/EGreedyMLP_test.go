package policy

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/network"
	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// threeActionEnv is a minimal environment with two observation
// features and three discrete actions
type threeActionEnv struct{}

func (e *threeActionEnv) Start() mat.Vector {
	return mat.NewVecDense(2, []float64{0.5, -0.5})
}

func (e *threeActionEnv) GetReward(_, _, _ mat.Vector) float64 { return 0.0 }

func (e *threeActionEnv) AtGoal(_ mat.Matrix) bool { return false }

func (e *threeActionEnv) Reset() ts.TimeStep {
	return ts.New(ts.First, 0, 1.0, e.Start(), 0)
}

func (e *threeActionEnv) Step(_ mat.Vector) (ts.TimeStep, bool, error) {
	return ts.New(ts.Mid, 0, 1.0, e.Start(), 1), false, nil
}

func (e *threeActionEnv) ObservationSpec() env.Spec {
	low := mat.NewVecDense(2, []float64{-1, -1})
	high := mat.NewVecDense(2, []float64{1, 1})
	return env.NewSpec(mat.NewVecDense(2, nil), env.Observation, low, high,
		env.Continuous)
}

func (e *threeActionEnv) ActionSpec() env.Spec {
	return env.NewSpec(mat.NewVecDense(1, nil), env.Action,
		mat.NewVecDense(1, nil), mat.NewVecDense(1, []float64{2.0}),
		env.Discrete)
}

func (e *threeActionEnv) RewardSpec() env.Spec {
	zero := mat.NewVecDense(1, nil)
	return env.NewSpec(mat.NewVecDense(1, nil), env.Reward, zero, zero,
		env.Continuous)
}

func (e *threeActionEnv) DiscountSpec() env.Spec {
	return env.NewSpec(mat.NewVecDense(1, nil), env.Discount,
		mat.NewVecDense(1, nil), mat.NewVecDense(1, []float64{1.0}),
		env.Continuous)
}

func newTestPolicy(t *testing.T, epsilon float64,
	seed int64) (*MultiHeadEGreedyMLP, G.VM) {
	t.Helper()

	g := G.NewGraph()
	p, err := NewMultiHeadEGreedyMLP(epsilon, &threeActionEnv{}, 1, g,
		[]int{5}, []bool{true}, G.GlorotU(1.0),
		[]*network.Activation{network.ReLU()}, seed)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}
	return p, G.NewTapeMachine(g)
}

// TestGreedySelectsMaxValuedAction checks that with no exploration
// the policy always selects the action of maximal predicted value
func TestGreedySelectsMaxValuedAction(t *testing.T) {
	p, vm := newTestPolicy(t, 0.0, 14)
	defer vm.Close()

	obs := []float64{0.5, -0.5}
	if err := p.SetInput(obs); err != nil {
		t.Fatalf("could not set input: %v", err)
	}
	if err := vm.RunAll(); err != nil {
		t.Fatalf("could not run policy graph: %v", err)
	}

	action, value := p.SelectAction()
	vm.Reset()

	actionValues := p.Output().Data().([]float64)
	selected := int(action.AtVec(0))
	for a, v := range actionValues {
		if v > actionValues[selected] {
			t.Errorf("action %v has higher value than selected action %v "+
				"\n\twant(%v) \n\thave(%v)", a, selected, v,
				actionValues[selected])
		}
	}
	if value != actionValues[selected] {
		t.Errorf("returned value does not match selected action "+
			"\n\twant(%v) \n\thave(%v)", actionValues[selected], value)
	}
}

// TestExploringSelectsLegalActions checks that full exploration only
// ever selects actions within the environment's action set, and that
// a fixed seed reproduces the same action sequence
func TestExploringSelectsLegalActions(t *testing.T) {
	p1, vm1 := newTestPolicy(t, 1.0, 14)
	defer vm1.Close()
	p2, vm2 := newTestPolicy(t, 1.0, 14)
	defer vm2.Close()

	obs := []float64{0.5, -0.5}
	for i := 0; i < 25; i++ {
		if err := p1.SetInput(obs); err != nil {
			t.Fatalf("could not set input: %v", err)
		}
		if err := vm1.RunAll(); err != nil {
			t.Fatalf("could not run policy graph: %v", err)
		}
		a1, _ := p1.SelectAction()
		vm1.Reset()

		if err := p2.SetInput(obs); err != nil {
			t.Fatalf("could not set input: %v", err)
		}
		if err := vm2.RunAll(); err != nil {
			t.Fatalf("could not run policy graph: %v", err)
		}
		a2, _ := p2.SelectAction()
		vm2.Reset()

		if a1.AtVec(0) < 0 || a1.AtVec(0) > 2 {
			t.Fatalf("selected action outside the action set: %v",
				a1.AtVec(0))
		}
		if a1.AtVec(0) != a2.AtVec(0) {
			t.Fatalf("same seed selected different actions at step %v: "+
				"%v != %v", i, a1.AtVec(0), a2.AtVec(0))
		}
	}
}

// TestSetEpsilon checks the exploration rate accessor roundtrip
func TestSetEpsilon(t *testing.T) {
	p, vm := newTestPolicy(t, 0.5, 14)
	defer vm.Close()

	if ε := p.Epsilon(); ε != 0.5 {
		t.Errorf("wrong epsilon \n\twant(%v) \n\thave(%v)", 0.5, ε)
	}
	p.SetEpsilon(0.25)
	if ε := p.Epsilon(); ε != 0.25 {
		t.Errorf("wrong epsilon after update \n\twant(%v) \n\thave(%v)",
			0.25, ε)
	}
}
