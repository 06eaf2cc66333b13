package network

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
)

// weightValues returns the raw values of a network's first weight
// matrix
func weightValues(t *testing.T, net NeuralNet) []float64 {
	t.Helper()
	data, ok := net.Learnables()[0].Value().Data().([]float64)
	if !ok {
		t.Fatal("weights do not hold []float64 data")
	}
	return data
}

func newLinearNet(t *testing.T, init G.InitWFn) NeuralNet {
	t.Helper()
	net, err := NewMultiHeadMLP(3, 1, 2, G.NewGraph(), []int{}, []bool{},
		init, []*Activation{})
	if err != nil {
		t.Fatalf("could not create network: %v", err)
	}
	return net
}

func TestPolyakMovesWeightsByTau(t *testing.T) {
	const tau = 0.1

	primary := newLinearNet(t, G.ValuesOf(10.0))
	target := newLinearNet(t, G.Zeroes())

	if err := target.Polyak(primary, tau); err != nil {
		t.Fatalf("could not apply soft update: %v", err)
	}

	for i, w := range weightValues(t, target) {
		if math.Abs(w-1.0) > 1e-12 {
			t.Errorf("weight %v after one update \n\twant(1.0)\n\thave(%v)",
				i, w)
		}
	}

	// Primary weights must be untouched by the update
	for i, w := range weightValues(t, primary) {
		if w != 10.0 {
			t.Errorf("primary weight %v mutated by soft update: %v", i, w)
		}
	}
}

func TestPolyakConvergesWithoutOvershoot(t *testing.T) {
	const tau = 0.1

	primary := newLinearNet(t, G.ValuesOf(10.0))
	target := newLinearNet(t, G.Zeroes())

	prev := 0.0
	for k := 0; k < 200; k++ {
		if err := target.Polyak(primary, tau); err != nil {
			t.Fatalf("could not apply soft update %v: %v", k, err)
		}

		w := weightValues(t, target)[0]
		if w > 10.0 {
			t.Fatalf("target weight overshot primary after %v updates: %v",
				k+1, w)
		}
		if w < prev {
			t.Fatalf("target weight moved away from primary after %v "+
				"updates: %v < %v", k+1, w, prev)
		}
		prev = w
	}

	if math.Abs(prev-10.0) > 1e-6 {
		t.Errorf("target weights did not converge to primary: %v", prev)
	}
}

func TestSetCopiesWeightsExactly(t *testing.T) {
	primary := newLinearNet(t, G.GlorotU(1.0))
	target := newLinearNet(t, G.Zeroes())

	if err := target.Set(primary); err != nil {
		t.Fatalf("could not copy weights: %v", err)
	}

	want := weightValues(t, primary)
	have := weightValues(t, target)
	for i := range want {
		if want[i] != have[i] {
			t.Errorf("weight %v differs after copy \n\twant(%v)\n\thave(%v)",
				i, want[i], have[i])
		}
	}
}
