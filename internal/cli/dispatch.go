// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/backend/httpapi"
	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logger"
	"taskdash/internal/metrics"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch. m instruments outgoing requests.
type ServiceFactory func(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (service.Service, error)

// HTTPServiceFactory talks to cfg.Server with the session stored in the
// config directory.
func HTTPServiceFactory(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (service.Service, error) {
	return httpapi.New(cfg.Server, session.NewStore(cfg.SessionPath()),
		httpapi.WithTransport(m.InstrumentTransport(nil)),
		httpapi.WithTimeout(cfg.Timeout),
	)
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	metrics  *metrics.Metrics
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		metrics:  metrics.New(),
	}
}

// Run parses arguments and dispatches to the appropriate command.
// in answers prompts. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> the dashboard
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], in, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir, server string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&server, "server", "", "")
	fs.BoolVarP(&quiet, "quiet", "q", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if server != "" {
		cfg.Server = server
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	if debug {
		logger.SetOutput(errOut)
		logger.SetLevel(logger.LevelDebug)
		defer logger.SetOutput(os.Stderr)
		defer logger.SetLevel(logger.LevelInfo)
		defer d.dumpMetrics(errOut)
	}
	logger.Debug(ctx, "dispatch", "command", cmd.Name(), "server", cfg.Server, "config", cfg.Dir)

	if cmd.NeedsAuth() && !cfg.HasSession() {
		fmt.Fprintln(errOut, "error: not logged in (run: taskdash login)")
		return exitcode.AuthError
	}

	var svc service.Service
	if cmd.NeedsService() {
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
			return exitcode.UserError
		}
		svc, err = d.factory(ctx, cfg, d.metrics)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}

	return cmd.Run(ctx, cfg, svc, fs.Args(), in, out, errOut)
}

func (d *Dispatcher) dumpMetrics(errOut io.Writer) {
	if err := d.metrics.WriteText(errOut); err != nil {
		logger.Error(context.Background(), err, "failed to write metrics")
	}
}
