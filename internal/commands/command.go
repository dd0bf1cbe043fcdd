// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	NeedsAuth() bool

	// NeedsService returns true if the command talks to the server.
	// Every command that NeedsAuth also NeedsService.
	NeedsService() bool

	// RegisterFlags registers command-specific flags. Called once per
	// dispatch, so it must also reset the values left by a previous run.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// svc is nil if NeedsService() returns false.
	// in answers prompts (credentials, confirmations).
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int
}

// base supplies the defaults shared by most commands.
type base struct{}

func (base) Aliases() []string               { return nil }
func (base) NeedsAuth() bool                 { return true }
func (base) NeedsService() bool              { return true }
func (base) RegisterFlags(fs *pflag.FlagSet) {}
