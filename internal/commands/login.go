package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"taskdash/internal/auth"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logger"
	"taskdash/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	base
	username string
	password string
}

func (c *LoginCmd) Name() string     { return "login" }
func (c *LoginCmd) Synopsis() string { return "Sign in and show the dashboard" }
func (c *LoginCmd) Usage() string {
	return "taskdash login [common flags] [--username <name>] [--password <password>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "")
	fs.StringVarP(&c.password, "password", "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	term := NewTerminal(cfg, in, out, errOut)
	creds, err := readCredentials(term, c.username, c.password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := auth.New(svc, term).Login(ctx, creds); err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			return exitcode.AuthError
		}
		return exitcode.BackendError
	}

	// The dashboard loads when login lands on it.
	if cfg.Quiet || term.Page() != auth.PathDashboard {
		return exitcode.Success
	}
	if err := newDashboard(cfg, svc, term).Load(ctx); err != nil {
		logger.Debug(ctx, "initial load failed", "err", err)
	}
	term.Flush()
	return exitcode.Success
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	base
	username string
	password string
}

func (c *RegisterCmd) Name() string     { return "register" }
func (c *RegisterCmd) Synopsis() string { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskdash register [common flags] [--username <name>] [--password <password>]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "")
	fs.StringVarP(&c.password, "password", "p", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	term := NewTerminal(cfg, in, out, errOut)
	creds, err := readCredentials(term, c.username, c.password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := auth.New(svc, term).Register(ctx, creds); err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}
	return exitcode.Success
}

// readCredentials prompts for whatever the flags left out.
func readCredentials(term *Terminal, username, password string) (service.Credentials, error) {
	var err error
	if username == "" {
		if username, err = term.Prompt("Username: "); err != nil {
			return service.Credentials{}, errors.New("username required")
		}
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return service.Credentials{}, errors.New("username required")
	}
	if password == "" {
		if password, err = term.PromptPassword("Password: "); err != nil || password == "" {
			return service.Credentials{}, errors.New("password required")
		}
	}
	return service.Credentials{Username: username, Password: password}, nil
}
