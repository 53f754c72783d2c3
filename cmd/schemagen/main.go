// Package main provides the entry point for the schemagen CLI tool.
package main

import (
	"os"

	"github.com/buildforge/schemagen/cmd/schemagen/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling so a Ctrl-C aborts before the
	// artifact is rewritten.
	ctx, cancel := app.Context()
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
