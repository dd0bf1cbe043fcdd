package commands

import (
	"context"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	base
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdash help" }
func (c *HelpCmd) NeedsAuth() bool    { return false }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  taskdash")
	fmt.Fprintln(out, "      Show stats and all tasks (same as list)")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %s\n      %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --server <url>   Task server base URL
  --quiet, -q      Suppress informational output
  --debug          Print debug logs and request metrics to stderr
`
