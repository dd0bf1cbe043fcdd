package commands

import (
	"context"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task marks
// it as to-do again.
type DoneCmd struct {
	base
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task complete, or back to to-do" }
func (c *DoneCmd) Usage() string     { return "taskdash done [common flags] <id>" }

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	id, code, ok := taskIDArg(args, errOut)
	if !ok {
		return code
	}

	term := NewTerminal(cfg, in, out, errOut)
	d := newDashboard(cfg, svc, term)
	if err := d.Handle(ctx, dashboard.Action{Kind: dashboard.ActionComplete, TaskID: id}); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		term.Flush()
	}
	return exitcode.Success
}

// taskIDArg parses the id argument, printing the error if there is one.
func taskIDArg(args []string, errOut io.Writer) (id string, code int, ok bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError, false
	}
	return id, exitcode.Success, true
}
