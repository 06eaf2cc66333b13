// Command lander trains a deep Q-learning agent from the command
// line.
package main

func main() {
	Execute()
}
