// Package main is the entry point for the taskdash CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskdash/internal/cli"
	"taskdash/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.HTTPServiceFactory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
