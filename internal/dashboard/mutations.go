package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"taskdash/internal/duedate"
	"taskdash/internal/service"
)

// AddForm holds the fields of the add-task form.
type AddForm struct {
	Title    string
	Notes    string
	Priority string
	Category string
	// DueDate is a calendar date (YYYY-MM-DD) or empty.
	DueDate    string
	Attachment *service.Attachment
}

// Reset clears every field.
func (f *AddForm) Reset() {
	*f = AddForm{}
}

// Create submits form as a new task. On success the form is reset and tasks
// and stats are re-fetched; on failure the user sees MsgAddFailed and the form
// keeps its values.
func (d *Dashboard) Create(ctx context.Context, form *AddForm) error {
	due, err := duedate.ToInstant(form.DueDate, d.loc)
	if err != nil {
		d.ui.Alert(MsgAddFailed)
		return err
	}

	err = d.svc.CreateTask(ctx, service.CreateTaskRequest{
		Title:      form.Title,
		Notes:      form.Notes,
		Priority:   form.Priority,
		Category:   form.Category,
		DueDate:    due,
		Attachment: form.Attachment,
	})
	if err != nil {
		d.ui.Alert(MsgAddFailed)
		return fmt.Errorf("create task: %w", err)
	}

	form.Reset()
	d.refresh(ctx, true)
	return nil
}

// Toggle flips the completion flag of the task with the given id.
func (d *Dashboard) Toggle(ctx context.Context, id string) error {
	taskID, err := parseTaskID(id)
	if err != nil {
		return err
	}
	if err := d.svc.ToggleTask(ctx, taskID); err != nil {
		return fmt.Errorf("toggle task %d: %w", taskID, err)
	}
	d.refresh(ctx, true)
	return nil
}

// Delete removes a task after the user confirms. Declining sends nothing
// and returns ErrCancelled.
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	if !d.ui.Confirm(MsgConfirmDelete) {
		return ErrCancelled
	}
	taskID, err := parseTaskID(id)
	if err != nil {
		return err
	}
	if err := d.svc.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	d.refresh(ctx, true)
	return nil
}

func parseTaskID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaskID, id)
	}
	return n, nil
}
