package expreplay

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

const testFeatures int = 4

// transition returns a transition whose reward tags the insertion
// order, so tests can identify which transitions remain in a buffer
func transition(tag int, done bool) timestep.Transition {
	state := make([]float64, testFeatures)
	nextState := make([]float64, testFeatures)
	for i := range state {
		state[i] = float64(tag)
		nextState[i] = float64(tag + 1)
	}

	return timestep.Transition{
		State:     mat.NewVecDense(testFeatures, state),
		Action:    tag % 4,
		Reward:    float64(tag),
		NextState: mat.NewVecDense(testFeatures, nextState),
		Done:      done,
	}
}

func TestAddEvictsOldestPastCapacity(t *testing.T) {
	const capacity, inserts = 5, 12

	buffer, err := New(capacity, testFeatures, 4, 14)
	if err != nil {
		t.Fatalf("could not create buffer: %v", err)
	}

	for tag := 0; tag < inserts; tag++ {
		if err := buffer.Add(transition(tag, false)); err != nil {
			t.Fatalf("could not add transition %v: %v", tag, err)
		}
		if buffer.Capacity() > capacity {
			t.Fatalf("buffer grew past capacity: %v > %v",
				buffer.Capacity(), capacity)
		}
	}

	if buffer.Capacity() != capacity {
		t.Fatalf("wrong capacity \n\twant(%v)\n\thave(%v)", capacity,
			buffer.Capacity())
	}

	// Sampling the entire buffer should return exactly the most
	// recently inserted transitions
	_, _, rewards, _, _, err := buffer.Sample(capacity)
	if err != nil {
		t.Fatalf("could not sample full buffer: %v", err)
	}

	seen := make(map[float64]bool)
	for _, r := range rewards {
		if r < float64(inserts-capacity) {
			t.Errorf("evicted transition %v still in buffer", r)
		}
		seen[r] = true
	}
	if len(seen) != capacity {
		t.Errorf("sampled transitions not distinct \n\twant(%v)\n\thave(%v)",
			capacity, len(seen))
	}
}

func TestSampleInsufficientSamples(t *testing.T) {
	const batchSize = 8

	buffer, err := New(32, testFeatures, 4, 14)
	if err != nil {
		t.Fatalf("could not create buffer: %v", err)
	}

	for tag := 0; tag < batchSize; tag++ {
		_, _, _, _, _, err := buffer.Sample(batchSize)
		if err == nil {
			t.Fatalf("sampled %v transitions from buffer of size %v",
				batchSize, tag)
		}
		if !IsInsufficientSamples(err) {
			t.Fatalf("wrong error from undersized buffer: %v", err)
		}

		if err := buffer.Add(transition(tag, false)); err != nil {
			t.Fatalf("could not add transition %v: %v", tag, err)
		}
	}

	_, actions, rewards, _, _, err := buffer.Sample(batchSize)
	if err != nil {
		t.Fatalf("could not sample full batch: %v", err)
	}
	if len(actions) != batchSize || len(rewards) != batchSize {
		t.Fatalf("wrong batch size \n\twant(%v)\n\thave(%v)", batchSize,
			len(rewards))
	}
}

func TestSampleDistinctWithinBatch(t *testing.T) {
	const capacity, filled, batchSize = 128, 50, 50

	buffer, err := New(capacity, testFeatures, 4, 14)
	if err != nil {
		t.Fatalf("could not create buffer: %v", err)
	}
	for tag := 0; tag < filled; tag++ {
		if err := buffer.Add(transition(tag, false)); err != nil {
			t.Fatalf("could not add transition %v: %v", tag, err)
		}
	}

	// Sampling the whole occupied region forces every index to appear
	// exactly once if sampling is without replacement
	_, _, rewards, _, _, err := buffer.Sample(batchSize)
	if err != nil {
		t.Fatalf("could not sample: %v", err)
	}

	seen := make(map[float64]bool)
	for _, r := range rewards {
		if seen[r] {
			t.Fatalf("transition %v sampled twice in one batch", r)
		}
		seen[r] = true
	}
}

func TestSampleDeterministicGivenSeed(t *testing.T) {
	const capacity, batchSize = 64, 16
	const seed int64 = 42

	first, err := New(capacity, testFeatures, 4, seed)
	if err != nil {
		t.Fatalf("could not create buffer: %v", err)
	}
	second, err := New(capacity, testFeatures, 4, seed)
	if err != nil {
		t.Fatalf("could not create buffer: %v", err)
	}

	for tag := 0; tag < capacity; tag++ {
		if err := first.Add(transition(tag, tag%7 == 0)); err != nil {
			t.Fatalf("could not add transition %v: %v", tag, err)
		}
		if err := second.Add(transition(tag, tag%7 == 0)); err != nil {
			t.Fatalf("could not add transition %v: %v", tag, err)
		}
	}

	for draw := 0; draw < 10; draw++ {
		_, _, firstRewards, _, _, err := first.Sample(batchSize)
		if err != nil {
			t.Fatalf("could not sample: %v", err)
		}
		_, _, secondRewards, _, _, err := second.Sample(batchSize)
		if err != nil {
			t.Fatalf("could not sample: %v", err)
		}

		for i := range firstRewards {
			if firstRewards[i] != secondRewards[i] {
				t.Fatalf("draw %v diverged at %v: %v != %v", draw, i,
					firstRewards[i], secondRewards[i])
			}
		}
	}
}

func TestAddInvalidAction(t *testing.T) {
	buffer, err := New(8, testFeatures, 4, 14)
	if err != nil {
		t.Fatalf("could not create buffer: %v", err)
	}

	bad := transition(0, false)
	bad.Action = 4

	err = buffer.Add(bad)
	if err == nil {
		t.Fatal("added transition with out-of-range action")
	}
	if !IsInvalidAction(err) {
		t.Fatalf("wrong error for invalid action: %v", err)
	}
	if buffer.Capacity() != 0 {
		t.Fatalf("rejected transition was stored")
	}
}
