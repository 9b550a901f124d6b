// Package main is the entry point for the pitchmetrics CLI tool, which stores
// football match events and computes team compactness and space control.
package main

import "github.com/pable/go-pitch-metrics/cmd"

func main() {
	cmd.Execute()
}
