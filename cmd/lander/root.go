package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lander",
	Short: "Train deep Q-learning agents",
	Long: `lander trains deep Q-learning agents on episodic control tasks.

Training runs online: the agent acts with an epsilon-greedy policy,
stores every transition in an experience replay buffer, and learns on
sampled minibatches with a slowly-tracking target network. A run ends
once the moving average of episodic returns reaches the solve
threshold, or at the episode cap.`,
}

// Execute runs the root command, exiting non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
