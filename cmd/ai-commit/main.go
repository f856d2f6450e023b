// Package main is the entry point for the ai-commit CLI application.
// ai-commit turns staged changes into a proposed commit message using a
// language model and lets the user accept, edit, or abort the commit.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aicommit/aicommit/internal/cmd"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cmd.Execute(ctx, os.Args[1:], cmd.Dependencies{}, cmd.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	stop()
	os.Exit(code)
}
