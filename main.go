// Package main is the entry point for the learning switch simulator.
package main

import (
	"fmt"
	"os"

	"github.com/stella/learning-switch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
