// Package main provides the gndesc CLI application.
// gndesc serves a local browser for a corpus of plant seed-dispersal
// descriptions.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
