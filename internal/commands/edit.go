package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/duedate"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given, so
// an explicit empty value can be told apart from an absent flag.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }
func (o *optionalString) Type() string   { return "string" }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// EditCmd implements the edit command: it opens the edit dialog for a task,
// changes the fields given as flags and submits it.
type EditCmd struct {
	base
	title    optionalString
	notes    optionalString
	priority optionalString
	category optionalString
	due      optionalString
	clearDue bool
}

func (c *EditCmd) Name() string     { return "edit" }
func (c *EditCmd) Synopsis() string { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskdash edit [common flags] [--title <text>] [--notes <text>] [--priority low|medium|high] [--category <name>] [--due YYYY-MM-DD | --clear-due] <id>"
}

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.title, c.notes, c.priority, c.category, c.due = optionalString{}, optionalString{}, optionalString{}, optionalString{}, optionalString{}
	fs.VarP(&c.title, "title", "t", "")
	fs.VarP(&c.notes, "notes", "n", "")
	fs.VarP(&c.priority, "priority", "p", "")
	fs.VarP(&c.category, "category", "c", "")
	fs.VarP(&c.due, "due", "d", "")
	fs.BoolVar(&c.clearDue, "clear-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	id, code, ok := taskIDArg(args, errOut)
	if !ok {
		return code
	}
	if msg := c.validate(cfg); msg != "" {
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return exitcode.UserError
	}

	term := NewTerminal(cfg, in, out, errOut)
	d := newDashboard(cfg, svc, term)
	if err := d.FetchTasks(ctx); err != nil {
		return report(errOut, err)
	}
	if err := d.Handle(ctx, dashboard.Action{Kind: dashboard.ActionEdit, TaskID: id}); err != nil {
		return report(errOut, err)
	}

	form := d.EditForm()
	c.apply(form)
	if err := d.SubmitEdit(ctx); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		term.Flush()
	}
	return exitcode.Success
}

// validate returns a message describing invalid flags, or "".
func (c *EditCmd) validate(cfg *config.Config) string {
	if !c.title.set && !c.notes.set && !c.priority.set && !c.category.set && !c.due.set && !c.clearDue {
		return "nothing to change"
	}
	if c.title.set && strings.TrimSpace(c.title.value) == "" {
		return "title required"
	}
	if c.priority.set && !service.ValidPriority(c.priority.value) {
		return fmt.Sprintf("invalid priority: %s (want low, medium or high)", c.priority.value)
	}
	if c.due.set && c.clearDue {
		return "cannot use both --due and --clear-due"
	}
	if c.due.set {
		if _, err := duedate.ToInstant(c.due.value, cfg.Location); err != nil {
			return err.Error()
		}
	}
	return ""
}

func (c *EditCmd) apply(form *dashboard.EditForm) {
	if c.title.set {
		form.Title = c.title.value
	}
	if c.notes.set {
		form.Notes = c.notes.value
	}
	if c.priority.set {
		form.Priority = c.priority.value
	}
	if c.category.set {
		form.Category = c.category.value
	}
	if c.due.set {
		form.DueDate = c.due.value
	}
	if c.clearDue {
		form.DueDate = ""
	}
}
