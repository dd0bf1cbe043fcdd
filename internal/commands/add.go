package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/duedate"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	base
	notes    string
	priority string
	category string
	due      string
	attach   string
}

func (c *AddCmd) Name() string     { return "add" }
func (c *AddCmd) Synopsis() string { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdash add [common flags] [--notes <text>] [--priority low|medium|high] [--category <name>] [--due YYYY-MM-DD] [--attach <file>] <title...>"
}

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.notes, "notes", "n", "", "")
	fs.StringVarP(&c.priority, "priority", "p", service.PriorityMedium, "")
	fs.StringVarP(&c.category, "category", "c", "", "")
	fs.StringVarP(&c.due, "due", "d", "", "")
	fs.StringVarP(&c.attach, "attach", "a", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if !service.ValidPriority(c.priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s (want low, medium or high)\n", c.priority)
		return exitcode.UserError
	}
	if _, err := duedate.ToInstant(c.due, cfg.Location); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	form := &dashboard.AddForm{
		Title:    title,
		Notes:    c.notes,
		Priority: c.priority,
		Category: c.category,
		DueDate:  c.due,
	}
	if c.attach != "" {
		f, err := os.Open(c.attach)
		if err != nil {
			fmt.Fprintf(errOut, "error: cannot open attachment: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		form.Attachment = &service.Attachment{Filename: c.attach, Body: f}
	}

	term := NewTerminal(cfg, in, out, errOut)
	if err := newDashboard(cfg, svc, term).Create(ctx, form); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		term.Flush()
	}
	return exitcode.Success
}
