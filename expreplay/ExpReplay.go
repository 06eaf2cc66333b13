// Package expreplay implements an experience replay buffer: a
// fixed-capacity FIFO store of environmental transitions supporting
// uniform random sampling of mini-batches.
package expreplay

import (
	"fmt"
	"math/rand"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// Buffer is an arena-backed ring buffer of transitions. Transition
// fields are stored in parallel caches indexed by a write cursor taken
// modulo the buffer's capacity, so insertion and eviction are O(1)
// and no memory is reallocated after construction. Once the buffer is
// full, every insertion overwrites the oldest transition.
//
// Buffer is not safe for concurrent use; a single training loop owns
// it for the duration of a run.
type Buffer struct {
	stateCache     []float64
	actionCache    []int
	rewardCache    []float64
	nextStateCache []float64
	doneCache      []bool

	maxCapacity int
	featureSize int
	numActions  int

	next int // write cursor, counts insertions mod maxCapacity
	size int

	rng *rand.Rand
}

// New creates and returns a new Buffer holding at most maxCapacity
// transitions of featureSize state features, with actions drawn from
// a discrete action set of numActions actions. The seed determines
// the sampling order, so runs are reproducible given a fixed seed.
func New(maxCapacity, featureSize, numActions int, seed int64) (*Buffer,
	error) {
	if maxCapacity < 1 {
		return nil, fmt.Errorf("new: maxCapacity must be >= 1")
	}
	if featureSize < 1 {
		return nil, fmt.Errorf("new: featureSize must be >= 1")
	}
	if numActions < 1 {
		return nil, fmt.Errorf("new: numActions must be >= 1")
	}

	return &Buffer{
		stateCache:     make([]float64, maxCapacity*featureSize),
		actionCache:    make([]int, maxCapacity),
		rewardCache:    make([]float64, maxCapacity),
		nextStateCache: make([]float64, maxCapacity*featureSize),
		doneCache:      make([]bool, maxCapacity),

		maxCapacity: maxCapacity,
		featureSize: featureSize,
		numActions:  numActions,

		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Add appends a transition to the buffer, evicting the oldest stored
// transition first if the buffer is full. The transition's data is
// copied; the caller keeps no shared state with the buffer.
func (b *Buffer) Add(t timestep.Transition) error {
	if t.State.Len() != b.featureSize || t.NextState.Len() != b.featureSize {
		return &ExpReplayError{
			Op: "add",
			Err: fmt.Errorf("invalid feature size \n\twant(%v)\n\thave(%v)",
				b.featureSize, t.State.Len()),
		}
	}
	if t.Action < 0 || t.Action >= b.numActions {
		return &ExpReplayError{
			Op:  "add",
			Err: fmt.Errorf("action %v: %w", t.Action, errInvalidAction),
		}
	}

	index := b.next
	stateInd := index * b.featureSize
	for i := 0; i < b.featureSize; i++ {
		b.stateCache[stateInd+i] = t.State.AtVec(i)
		b.nextStateCache[stateInd+i] = t.NextState.AtVec(i)
	}
	b.actionCache[index] = t.Action
	b.rewardCache[index] = t.Reward
	b.doneCache[index] = t.Done

	b.next = (b.next + 1) % b.maxCapacity
	if b.size < b.maxCapacity {
		b.size++
	}

	return nil
}

// Sample draws batchSize transitions from the buffer uniformly at
// random without replacement and returns them as parallel slices of
// states, actions, rewards, next states, and done flags. The state
// slices are flattened in row-major order, one row per sampled
// transition. If the buffer holds fewer than batchSize transitions,
// Sample fails with an error for which IsInsufficientSamples reports
// true.
func (b *Buffer) Sample(batchSize int) ([]float64, []int, []float64,
	[]float64, []bool, error) {
	if batchSize < 1 {
		return nil, nil, nil, nil, nil, &ExpReplayError{
			Op:  "sample",
			Err: fmt.Errorf("batch size must be >= 1 \n\thave(%v)", batchSize),
		}
	}
	if b.size < batchSize {
		return nil, nil, nil, nil, nil, &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
	}

	indices := b.choose(batchSize)

	stateBatch := make([]float64, batchSize*b.featureSize)
	nextStateBatch := make([]float64, batchSize*b.featureSize)
	actionBatch := make([]int, batchSize)
	rewardBatch := make([]float64, batchSize)
	doneBatch := make([]bool, batchSize)

	for i, index := range indices {
		batchStartInd := i * b.featureSize
		expStartInd := index * b.featureSize
		copy(stateBatch[batchStartInd:batchStartInd+b.featureSize],
			b.stateCache[expStartInd:expStartInd+b.featureSize])
		copy(nextStateBatch[batchStartInd:batchStartInd+b.featureSize],
			b.nextStateCache[expStartInd:expStartInd+b.featureSize])

		actionBatch[i] = b.actionCache[index]
		rewardBatch[i] = b.rewardCache[index]
		doneBatch[i] = b.doneCache[index]
	}

	return stateBatch, actionBatch, rewardBatch, nextStateBatch, doneBatch,
		nil
}

// choose selects batchSize distinct indices uniformly from the
// occupied region of the arena using Floyd's sampling algorithm
func (b *Buffer) choose(batchSize int) []int {
	selected := make([]int, 0, batchSize)
	taken := make(map[int]struct{}, batchSize)

	for i := b.size - batchSize; i < b.size; i++ {
		j := b.rng.Intn(i + 1)
		if _, ok := taken[j]; ok {
			j = i
		}
		taken[j] = struct{}{}
		selected = append(selected, j)
	}

	return selected
}

// Capacity returns the current number of transitions in the buffer
func (b *Buffer) Capacity() int {
	return b.size
}

// MaxCapacity returns the maximum number of transitions the buffer
// can hold
func (b *Buffer) MaxCapacity() int {
	return b.maxCapacity
}
