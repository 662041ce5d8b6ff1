// Package common wires shared CLI functionality. This file handles
// output formatting for the command line interface.
package common

import (
	"fmt"
	"os"
)

// PrintErrorf prints an error message to stderr with formatting.
func PrintErrorf(format string, args ...any) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", args...)
	if err != nil {
		return
	}
}

// Printf prints a message to stdout with formatting.
func Printf(format string, args ...any) {
	_, err := fmt.Fprintf(os.Stdout, format+"\n", args...)
	if err != nil {
		return
	}
}
