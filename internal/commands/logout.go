package commands

import (
	"context"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logger"
	"taskdash/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct {
	base
}

func (c *LogoutCmd) Name() string     { return "logout" }
func (c *LogoutCmd) Synopsis() string { return "End the session and remove it" }
func (c *LogoutCmd) Usage() string    { return "taskdash logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool  { return false }

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	if !cfg.HasSession() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	// The server side is best effort; the local session goes either way.
	if err := svc.Logout(ctx); err != nil {
		logger.Debug(ctx, "server logout failed", "err", err)
	}

	if err := cfg.RemoveSession(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
