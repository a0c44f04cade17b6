package config

import (
	"fmt"
	"io"
	"os"
)

// Process exit codes shared by the binaries.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted message to stderr and exits with ExitFailure.
func Exitf(format string, args ...any) {
	ExitCodef(ExitFailure, format, args...)
}

// ExitCodef writes a formatted message to stderr and exits with code.
func ExitCodef(code int, format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(code)
}
