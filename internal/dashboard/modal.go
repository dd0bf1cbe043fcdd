package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"taskdash/internal/duedate"
	"taskdash/internal/service"
)

// EditForm holds the fields of the edit dialog.
type EditForm struct {
	TaskID   string
	Title    string
	Notes    string
	Priority string
	Category string
	// DueDate is a calendar date (YYYY-MM-DD); empty clears the due date.
	DueDate string
}

// editModal is closed or open; there is no dirty or saving state.
type editModal struct {
	open bool
	form EditForm
}

// OpenEdit pre-fills the edit dialog from the cached task matching id and
// opens it. An id missing from the cache leaves the dialog as it was.
func (d *Dashboard) OpenEdit(id string) error {
	task, ok := d.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	d.modal = editModal{
		open: true,
		form: EditForm{
			TaskID:   strconv.FormatInt(task.ID, 10),
			Title:    task.Title,
			Notes:    task.Notes,
			Priority: task.Priority,
			Category: task.Category,
			DueDate:  duedate.FormValue(task.DueDate, d.loc),
		},
	}
	return nil
}

// EditOpen reports whether the edit dialog is open.
func (d *Dashboard) EditOpen() bool {
	return d.modal.open
}

// EditForm returns the live dialog fields for the UI to change, or nil when
// the dialog is closed.
func (d *Dashboard) EditForm() *EditForm {
	if !d.modal.open {
		return nil
	}
	return &d.modal.form
}

// SubmitEdit sends the dialog fields. On success the dialog closes and the
// task list (not the stats) is re-fetched. On failure the user sees
// MsgEditFailed and the dialog stays open for another try.
func (d *Dashboard) SubmitEdit(ctx context.Context) error {
	if !d.modal.open {
		return ErrModalClosed
	}
	form := d.modal.form

	taskID, err := parseTaskID(form.TaskID)
	if err != nil {
		d.ui.Alert(MsgEditFailed)
		return err
	}

	req := service.EditTaskRequest{
		Title:    form.Title,
		Notes:    form.Notes,
		Priority: form.Priority,
		Category: form.Category,
	}
	if form.DueDate != "" {
		due, err := duedate.ToInstant(form.DueDate, d.loc)
		if err != nil {
			d.ui.Alert(MsgEditFailed)
			return err
		}
		req.DueDate = &due
	}

	if err := d.svc.EditTask(ctx, taskID, req); err != nil {
		d.ui.Alert(MsgEditFailed)
		return fmt.Errorf("edit task %d: %w", taskID, err)
	}

	d.CloseEdit()
	d.refresh(ctx, false)
	return nil
}

// CloseEdit closes the dialog. The cache is kept and nothing is fetched.
func (d *Dashboard) CloseEdit() {
	d.modal = editModal{}
}

// CancelEdit handles dismissal by escape; it behaves like CloseEdit.
func (d *Dashboard) CancelEdit() {
	d.CloseEdit()
}
