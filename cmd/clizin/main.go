// Package main is the entry point for the clizin CLI application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clizin/clizin/internal/cmd"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, version, commit, date)
	cancel()
	os.Exit(code)
}
