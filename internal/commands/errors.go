package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

// report prints err and maps it to an exit code.
func report(errOut io.Writer, err error) int {
	var apiErr *service.APIError
	switch {
	case service.IsUnauthorized(err):
		fmt.Fprintln(errOut, "error: session expired (run: taskdash login)")
		return exitcode.AuthError
	case errors.Is(err, dashboard.ErrUnknownTask), errors.Is(err, dashboard.ErrInvalidTaskID):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		fmt.Fprintf(errOut, "error: %s\n", apiErr.Message)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
