// Package auth runs the login and registration forms against the task server.
package auth

import (
	"context"
	"fmt"

	"taskdash/internal/logger"
	"taskdash/internal/service"
)

// Pages the flows navigate to.
const (
	PathDashboard = "/dashboard"
	PathLogin     = "/login-page"
)

// MsgRegistered is shown after a successful registration.
const MsgRegistered = "Registration successful! Please log in."

// UI is what the auth forms need from the front end.
type UI interface {
	// Alert shows a blocking message.
	Alert(msg string)

	// Navigate moves to another page.
	Navigate(path string)
}

// Flow submits the login and register forms. It keeps no state between
// submissions.
type Flow struct {
	svc service.Service
	ui  UI
}

// New creates a Flow.
func New(svc service.Service, ui UI) *Flow {
	return &Flow{svc: svc, ui: ui}
}

// Login signs in and navigates to the dashboard. On failure the server's
// message is shown and the error returned.
func (f *Flow) Login(ctx context.Context, creds service.Credentials) error {
	if err := f.svc.Login(ctx, creds); err != nil {
		f.ui.Alert("Login Failed: " + service.Message(err))
		return fmt.Errorf("login: %w", err)
	}
	logger.Debug(ctx, "logged in", "user", creds.Username)
	f.ui.Navigate(PathDashboard)
	return nil
}

// Register creates an account and navigates to the login page.
func (f *Flow) Register(ctx context.Context, creds service.Credentials) error {
	if err := f.svc.Register(ctx, creds); err != nil {
		f.ui.Alert("Registration Failed: " + service.Message(err))
		return fmt.Errorf("register: %w", err)
	}
	f.ui.Alert(MsgRegistered)
	f.ui.Navigate(PathLogin)
	return nil
}
