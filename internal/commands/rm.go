package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	base
	yes bool
}

func (c *RmCmd) Name() string     { return "rm" }
func (c *RmCmd) Synopsis() string { return "Delete a task" }
func (c *RmCmd) Usage() string    { return "taskdash rm [common flags] [--yes] <id>" }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	id, code, ok := taskIDArg(args, errOut)
	if !ok {
		return code
	}

	term := NewTerminal(cfg, in, out, errOut)
	var ui dashboard.UI = term
	if c.yes {
		ui = assumeYes{term}
	}

	err := newDashboard(cfg, svc, ui).Handle(ctx, dashboard.Action{Kind: dashboard.ActionDelete, TaskID: id})
	if errors.Is(err, dashboard.ErrCancelled) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "cancelled")
		}
		return exitcode.Success
	}
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		term.Flush()
	}
	return exitcode.Success
}
