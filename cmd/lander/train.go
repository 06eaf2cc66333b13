package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/agent/deepq"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/environment/chain"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/experiment"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/experiment/tracker"
	"github.com/jnv1i/Deep-Q-Learning-Lunar-Lander/solver"
)

var (
	configPath string
	progress   bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train an agent on the built-in chain environment",
	Long: `Train runs deep Q-learning on the built-in chain environment until
the moving average of episodic returns reaches the solve threshold or
the episode cap is hit. The learned policy network is checkpointed on
convergence, and the per-episode returns are saved for analysis.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"YAML configuration file overriding the defaults")
	trainCmd.Flags().BoolVar(&progress, "progress", false,
		"display a progress bar over episodes")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()

	config, err := LoadTrainingConfig(configPath)
	if err != nil {
		return err
	}

	environment, _, err := chain.NewDefault(config.ChainStates,
		config.ChainCutoff, config.Gamma, uint64(config.Seed))
	if err != nil {
		return fmt.Errorf("could not create environment: %v", err)
	}

	agentConfig := deepq.DefaultConfig()
	agentConfig.PolicyLayers = config.Hidden
	agentConfig.Biases = biases(len(config.Hidden))
	agentConfig.Activations = activations(len(config.Hidden))
	agentConfig.Solver = solver.NewDefaultAdam(config.LearningRate,
		config.BatchSize)
	agentConfig.Epsilon = config.Epsilon
	agentConfig.EpsilonDecay = config.EpsilonDecay
	agentConfig.EpsilonMin = config.EpsilonMin
	agentConfig.Gamma = config.Gamma
	agentConfig.ReplayCapacity = config.MemorySize
	agentConfig.BatchSize = config.BatchSize
	agentConfig.UpdateInterval = config.UpdateInterval
	agentConfig.Tau = config.Tau

	agent, err := deepq.New(environment, agentConfig, config.Seed)
	if err != nil {
		return fmt.Errorf("could not create agent: %v", err)
	}

	experimentConfig := experiment.Config{
		MaxEpisodes:        config.MaxEpisodes,
		MaxStepsPerEpisode: config.MaxStepsPerEpisode,
		SolveThreshold:     config.SolveThreshold,
		ModelPath:          config.ModelPath,
		Progress:           progress,
	}

	run, err := experiment.NewOnline(environment, agent, experimentConfig,
		log, tracker.NewReturn(config.DataPath))
	if err != nil {
		return fmt.Errorf("could not create experiment: %v", err)
	}

	report, err := run.Run()
	if err != nil {
		return fmt.Errorf("training failed: %v", err)
	}
	if err := run.Save(); err != nil {
		return fmt.Errorf("could not save tracked data: %v", err)
	}

	if !report.Converged {
		log.Warn().
			Int("episodes", report.Episodes).
			Float64("movingAverage", report.MovingAverage).
			Msg("episode cap reached without convergence")
	}
	return nil
}

// biases enables a bias unit on every hidden layer
func biases(layers int) []bool {
	b := make([]bool, layers)
	for i := range b {
		b[i] = true
	}
	return b
}

// activations uses ReLU on every hidden layer
func activations(layers int) []string {
	a := make([]string, layers)
	for i := range a {
		a[i] = "relu"
	}
	return a
}
