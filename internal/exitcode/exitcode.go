// Package exitcode defines the process exit codes of taskdash.
package exitcode

const (
	// Success indicates the command completed, including a declined confirmation.
	Success = 0

	// UserError covers bad arguments and task ids missing from the task list.
	UserError = 1

	// AuthError covers a missing session, a rejected login and 401 responses.
	AuthError = 2

	// BackendError covers transport failures and other non-2xx responses.
	BackendError = 3
)
