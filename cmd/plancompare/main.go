// Package main is the entry point for the plancompare CLI.
package main

import (
	"os"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
