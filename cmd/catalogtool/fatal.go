package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// warning prints a warning message to standard error, grounded on
// cmd/error.go's Warning.
func warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// fatal prints err to standard error and exits with a non-zero status,
// grounded on cmd/error.go's Fatal.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
