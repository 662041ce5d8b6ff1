// Package main is the entry point for the eventcrawl application.
package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/eventcrawl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
