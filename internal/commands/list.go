package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&ListCmd{})
	Register(&StatsCmd{})
}

// newDashboard creates a dashboard drawing on ui in cfg's timezone.
func newDashboard(cfg *config.Config, svc service.Service, ui dashboard.UI) *dashboard.Dashboard {
	return dashboard.New(svc, ui, dashboard.WithLocation(cfg.Location))
}

// ListCmd implements the list command.
// Handles both `taskdash` (no args) and `taskdash list`.
type ListCmd struct {
	base
	html bool
}

func (c *ListCmd) Name() string     { return "list" }
func (c *ListCmd) Synopsis() string { return "Show stats and all tasks" }
func (c *ListCmd) Usage() string    { return "taskdash list [common flags] [--html]" }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.html, "html", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	term := NewTerminal(cfg, in, out, errOut)
	loadErr := newDashboard(cfg, svc, term).Load(ctx)

	// Whatever did load is still shown.
	if c.html {
		if err := term.FlushHTML(); err != nil {
			fmt.Fprintf(errOut, "error: failed to render: %v\n", err)
			return exitcode.BackendError
		}
	} else {
		term.Flush()
	}

	if loadErr != nil {
		return report(errOut, loadErr)
	}
	return exitcode.Success
}

// StatsCmd implements the stats command.
type StatsCmd struct {
	base
}

func (c *StatsCmd) Name() string     { return "stats" }
func (c *StatsCmd) Synopsis() string { return "Show task counts" }
func (c *StatsCmd) Usage() string    { return "taskdash stats [common flags]" }

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	d := newDashboard(cfg, svc, NewTerminal(cfg, in, out, errOut))
	if err := d.FetchStats(ctx); err != nil {
		return report(errOut, err)
	}
	stats, _ := d.Stats()
	output.FormatStats(out, stats)
	return exitcode.Success
}
