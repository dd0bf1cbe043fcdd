// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Service defines the operations the task server offers.
// Commands and flows never build HTTP requests themselves.
type Service interface {
	// Login posts credentials and keeps the resulting session.
	Login(ctx context.Context, creds Credentials) error

	// Register creates a new account.
	Register(ctx context.Context, creds Credentials) error

	// Logout ends the server-side session.
	Logout(ctx context.Context) error

	// Stats returns the aggregate counts for the current user.
	Stats(ctx context.Context) (Stats, error)

	// ListTasks returns every task of the current user in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask uploads a new task, including its attachment if any.
	CreateTask(ctx context.Context, req CreateTaskRequest) error

	// ToggleTask flips the completion flag of a task.
	ToggleTask(ctx context.Context, id int64) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error

	// EditTask replaces the editable fields of a task.
	EditTask(ctx context.Context, id int64, req EditTaskRequest) error

	// DownloadAttachment copies an uploaded file to w.
	DownloadAttachment(ctx context.Context, filename string, w io.Writer) error
}

// Message returns the server-supplied message carried by err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
