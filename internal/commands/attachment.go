package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&AttachmentCmd{})
}

// AttachmentCmd implements the attachment command.
type AttachmentCmd struct {
	base
	output string
}

func (c *AttachmentCmd) Name() string     { return "attachment" }
func (c *AttachmentCmd) Synopsis() string { return "Download a task's attachment" }
func (c *AttachmentCmd) Usage() string {
	return "taskdash attachment [common flags] [--output <file>] <id>"
}

func (c *AttachmentCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.output, "output", "o", "", "")
}

func (c *AttachmentCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	id, code, ok := taskIDArg(args, errOut)
	if !ok {
		return code
	}

	d := newDashboard(cfg, svc, NewTerminal(cfg, in, out, errOut))
	if err := d.FetchTasks(ctx); err != nil {
		return report(errOut, err)
	}
	task, found := d.Task(id)
	if !found {
		fmt.Fprintf(errOut, "error: task not found: %s\n", id)
		return exitcode.UserError
	}
	if task.AttachmentFilename == "" {
		fmt.Fprintf(errOut, "error: task %s has no attachment\n", id)
		return exitcode.UserError
	}

	if c.output == "" {
		if err := svc.DownloadAttachment(ctx, task.AttachmentFilename, out); err != nil {
			return report(errOut, err)
		}
		return exitcode.Success
	}

	f, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := svc.DownloadAttachment(ctx, task.AttachmentFilename, f); err != nil {
		f.Close()
		os.Remove(c.output)
		return report(errOut, err)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "saved %s\n", c.output)
	}
	return exitcode.Success
}
