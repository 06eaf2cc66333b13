package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrainingConfig collects every hyperparameter of a training run. A
// YAML file overrides any subset of the defaults.
type TrainingConfig struct {
	// Agent
	Hidden         []int   `yaml:"hidden"`
	MemorySize     int     `yaml:"memorySize"`
	Gamma          float64 `yaml:"gamma"`
	LearningRate   float64 `yaml:"learningRate"`
	UpdateInterval int     `yaml:"updateInterval"`
	Tau            float64 `yaml:"tau"`
	Epsilon        float64 `yaml:"epsilon"`
	EpsilonDecay   float64 `yaml:"epsilonDecay"`
	EpsilonMin     float64 `yaml:"epsilonMin"`
	BatchSize      int     `yaml:"batchSize"`

	// Experiment
	SolveThreshold     float64 `yaml:"solveThreshold"`
	MaxEpisodes        int     `yaml:"maxEpisodes"`
	MaxStepsPerEpisode int     `yaml:"maxStepsPerEpisode"`
	Seed               int64   `yaml:"seed"`
	ModelPath          string  `yaml:"modelPath"`
	DataPath           string  `yaml:"dataPath"`

	// Built-in chain environment
	ChainStates int `yaml:"chainStates"`
	ChainCutoff int     `yaml:"chainCutoff"`
}

// DefaultTrainingConfig returns the default hyperparameters
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Hidden:         []int{64, 64},
		MemorySize:     100_000,
		Gamma:          0.995,
		LearningRate:   0.001,
		UpdateInterval: 4,
		Tau:            0.001,
		Epsilon:        1.0,
		EpsilonDecay:   0.995,
		EpsilonMin:     0.01,
		BatchSize:      64,

		SolveThreshold:     200.0,
		MaxEpisodes:        2000,
		MaxStepsPerEpisode: 1000,
		Seed:               14,
		ModelPath:          "policy.bin",
		DataPath:           "returns.bin",

		ChainStates: 10,
		ChainCutoff: 50,
	}
}

// LoadTrainingConfig reads a YAML configuration file, applying its
// values over the defaults. An empty path returns the defaults
// unchanged.
func LoadTrainingConfig(path string) (TrainingConfig, error) {
	config := DefaultTrainingConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TrainingConfig{}, fmt.Errorf("could not read "+
			"configuration: %v", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return TrainingConfig{}, fmt.Errorf("could not parse "+
			"configuration: %v", err)
	}
	return config, nil
}
