package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/agent/deepq"
	env "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/experiment/tracker"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/solver"
	ts "github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/timestep"
)

// banditEnv is a single-step environment: every episode ends at its
// first step with a fixed reward, so the moving average of episodic
// returns equals that reward from the first episode on
type banditEnv struct {
	starter env.UniformStarter
	reward  float64
}

func newBanditEnv(reward float64, seed uint64) *banditEnv {
	bounds := make([]r1.Interval, 8)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -1.0, Max: 1.0}
	}
	return &banditEnv{
		starter: env.NewUniformStarter(bounds, seed),
		reward:  reward,
	}
}

func (b *banditEnv) Start() mat.Vector { return b.starter.Start() }

func (b *banditEnv) GetReward(_, _, _ mat.Vector) float64 { return b.reward }

func (b *banditEnv) AtGoal(_ mat.Matrix) bool { return true }

func (b *banditEnv) Reset() ts.TimeStep {
	return ts.New(ts.First, 0, 1.0, b.Start(), 0)
}

func (b *banditEnv) Step(_ mat.Vector) (ts.TimeStep, bool, error) {
	step := ts.New(ts.Last, b.reward, 0.0, b.Start(), 1)
	return step, true, nil
}

func (b *banditEnv) ObservationSpec() env.Spec {
	low := mat.NewVecDense(8, []float64{-1, -1, -1, -1, -1, -1, -1, -1})
	high := mat.NewVecDense(8, []float64{1, 1, 1, 1, 1, 1, 1, 1})
	return env.NewSpec(mat.NewVecDense(8, nil), env.Observation, low, high,
		env.Continuous)
}

func (b *banditEnv) ActionSpec() env.Spec {
	return env.NewSpec(mat.NewVecDense(1, nil), env.Action,
		mat.NewVecDense(1, nil), mat.NewVecDense(1, []float64{3.0}),
		env.Discrete)
}

func (b *banditEnv) RewardSpec() env.Spec {
	bound := mat.NewVecDense(1, []float64{b.reward})
	return env.NewSpec(mat.NewVecDense(1, nil), env.Reward, bound, bound,
		env.Continuous)
}

func (b *banditEnv) DiscountSpec() env.Spec {
	return env.NewSpec(mat.NewVecDense(1, nil), env.Discount,
		mat.NewVecDense(1, nil), mat.NewVecDense(1, []float64{1.0}),
		env.Continuous)
}

func newBanditAgent(t *testing.T, e env.Environment) *deepq.DeepQ {
	t.Helper()

	config := deepq.DefaultConfig()
	config.PolicyLayers = []int{8}
	config.Biases = []bool{true}
	config.Activations = []string{"relu"}
	config.BatchSize = 4
	config.ReplayCapacity = 100
	config.Solver = solver.NewDefaultAdam(0.001, 4)

	agent, err := deepq.New(e, config, 14)
	require.NoError(t, err)
	return agent
}

// TestOnlineConvergesAndCheckpoints trains on an environment whose
// episodic return always equals the solve threshold, so the run must
// converge quickly and checkpoint the learned weights
func TestOnlineConvergesAndCheckpoints(t *testing.T) {
	e := newBanditEnv(200.0, 14)
	agent := newBanditAgent(t, e)

	modelPath := filepath.Join(t.TempDir(), "policy.bin")
	config := Config{
		MaxEpisodes:        100,
		MaxStepsPerEpisode: 10,
		SolveThreshold:     200.0,
		ModelPath:          modelPath,
	}

	experiment, err := NewOnline(e, agent, config, zerolog.Nop())
	require.NoError(t, err)

	report, err := experiment.Run()
	require.NoError(t, err)

	assert.True(t, report.Converged)
	assert.LessOrEqual(t, report.Episodes, 100)
	assert.GreaterOrEqual(t, report.MovingAverage, 200.0)

	_, err = os.Stat(modelPath)
	assert.NoError(t, err, "converged run should write a checkpoint")
}

// TestOnlineEpisodeCapWithoutConvergence checks that an unreachable
// solve threshold runs to the episode cap and reports the outcome
// without error
func TestOnlineEpisodeCapWithoutConvergence(t *testing.T) {
	e := newBanditEnv(1.0, 14)
	agent := newBanditAgent(t, e)

	config := Config{
		MaxEpisodes:        5,
		MaxStepsPerEpisode: 10,
		SolveThreshold:     1000.0,
	}

	experiment, err := NewOnline(e, agent, config, zerolog.Nop())
	require.NoError(t, err)

	report, err := experiment.Run()
	require.NoError(t, err)

	assert.False(t, report.Converged)
	assert.Equal(t, 5, report.Episodes)
	assert.InDelta(t, 1.0, report.MovingAverage, 1e-12)
}

// TestOnlineTracksEpisodicReturns checks that a registered Return
// tracker records one return per finished episode and persists them
func TestOnlineTracksEpisodicReturns(t *testing.T) {
	e := newBanditEnv(1.0, 14)
	agent := newBanditAgent(t, e)

	dataPath := filepath.Join(t.TempDir(), "returns.bin")
	config := Config{
		MaxEpisodes:        3,
		MaxStepsPerEpisode: 10,
		SolveThreshold:     1000.0,
	}

	returns := tracker.NewReturn(dataPath)
	experiment, err := NewOnline(e, agent, config, zerolog.Nop(), returns)
	require.NoError(t, err)

	_, err = experiment.Run()
	require.NoError(t, err)
	require.NoError(t, experiment.Save())

	data, err := tracker.LoadData(dataPath)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 1.0, 1.0}, data)
}
