// Package dashboard owns the task cache of a signed-in user and keeps it in
// step with the server.
//
// Every mutation waits for the server, then re-fetches: the cache is always a
// verbatim copy of the last task list the server returned and is replaced
// wholesale, never patched. Read failures leave the previous data on screen
// without telling the user; create and edit failures raise a generic alert;
// toggle and delete failures are silent. All operations still return their
// error so callers can pick an exit status.
//
// A Dashboard is a single-writer object: it is not safe for concurrent use.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskdash/internal/logger"
	"taskdash/internal/service"
)

// User-facing messages.
const (
	MsgAddFailed     = "Error adding task."
	MsgEditFailed    = "Failed to update task."
	MsgConfirmDelete = "Are you sure you want to delete this task?"
)

var (
	// ErrUnknownTask is returned when an action names a task missing from the cache.
	ErrUnknownTask = errors.New("task not found")

	// ErrInvalidTaskID is returned for ids that are not integers.
	ErrInvalidTaskID = errors.New("invalid task id")

	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")

	// ErrModalClosed is returned when an edit is submitted without an open modal.
	ErrModalClosed = errors.New("edit dialog is not open")
)

// UI is the surface the dashboard draws on and asks the user through.
type UI interface {
	// Alert shows a blocking message.
	Alert(msg string)

	// Confirm asks a yes/no question and blocks for the answer.
	Confirm(msg string) bool

	// ShowStats replaces the five stats fields.
	ShowStats(stats service.Stats)

	// ShowTasks redraws the whole task list from tasks.
	ShowTasks(tasks []service.Task)
}

// Dashboard is the task cache plus the actions that change it.
type Dashboard struct {
	svc service.Service
	ui  UI
	loc *time.Location

	tasks    []service.Task
	stats    service.Stats
	hasStats bool

	modal   editModal
	actions map[ActionKind]actionFunc
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLocation sets the timezone due dates are entered in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(d *Dashboard) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// New creates a Dashboard with an empty cache.
func New(svc service.Service, ui UI, opts ...Option) *Dashboard {
	d := &Dashboard{
		svc:   svc,
		ui:    ui,
		loc:   time.Local,
		tasks: []service.Task{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.actions = map[ActionKind]actionFunc{
		ActionEdit:     func(_ context.Context, id string) error { return d.OpenEdit(id) },
		ActionComplete: d.Toggle,
		ActionDelete:   d.Delete,
	}
	return d
}

// Tasks returns a copy of the cached task list.
func (d *Dashboard) Tasks() []service.Task {
	return append([]service.Task{}, d.tasks...)
}

// Stats returns the last fetched stats and whether any fetch succeeded yet.
func (d *Dashboard) Stats() (service.Stats, bool) {
	return d.stats, d.hasStats
}

// Load is the initial page load: stats, then tasks.
func (d *Dashboard) Load(ctx context.Context) error {
	return errors.Join(d.FetchStats(ctx), d.FetchTasks(ctx))
}

// FetchStats refreshes the stats panel. On failure the old values stay shown.
func (d *Dashboard) FetchStats(ctx context.Context) error {
	stats, err := d.svc.Stats(ctx)
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}
	d.stats = stats
	d.hasStats = true
	d.ui.ShowStats(stats)
	return nil
}

// FetchTasks replaces the cache and redraws the list. On failure the cache
// and the screen are left untouched.
func (d *Dashboard) FetchTasks(ctx context.Context) error {
	tasks, err := d.svc.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	d.tasks = tasks
	d.ui.ShowTasks(d.Tasks())
	return nil
}

// refresh re-syncs after a successful mutation. Its failures are not the
// mutation's failures, so they are only logged.
func (d *Dashboard) refresh(ctx context.Context, withStats bool) {
	if err := d.FetchTasks(ctx); err != nil {
		logger.Debug(ctx, "refresh failed", "err", err)
	}
	if !withStats {
		return
	}
	if err := d.FetchStats(ctx); err != nil {
		logger.Debug(ctx, "refresh failed", "err", err)
	}
}
