// Package main is the entry point for the sqlbind CLI.
package main

import (
	"fmt"
	"os"

	"github.com/asaidimu/go-sqlbind/cmd/sqlbind/commands"
)

// Version is set by the build.
var Version = "dev"

func main() {
	if err := commands.NewRootCommand(Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
