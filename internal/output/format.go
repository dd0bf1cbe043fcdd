// Package output renders the dashboard for the terminal and as HTML cards.
package output

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"taskdash/internal/duedate"
	"taskdash/internal/service"
)

const (
	// Separator is the line between the stats panel and the task list.
	Separator = "------------"

	// EmptyList is shown instead of an empty task list.
	EmptyList = "No tasks yet. Add one above!"

	// NoNotes stands in for missing notes.
	NoNotes = "No notes."

	// detailIndent lines card details up under the title.
	detailIndent = "          "
)

// Options controls the parts of a card that depend on the environment.
type Options struct {
	// Location is the timezone due dates are shown in. Nil means time.Local.
	Location *time.Location

	// DateFormat is the Go layout for due dates. Empty means "1/2/2006".
	DateFormat string

	// BaseURL prefixes attachment links. Empty leaves them relative.
	BaseURL string
}

// AttachmentURL returns the download link of an uploaded file.
func (o Options) AttachmentURL(filename string) string {
	return strings.TrimRight(o.BaseURL, "/") + "/uploads/" + url.PathEscape(filename)
}

// Due renders a task's due date, or "N/A".
func (o Options) Due(task service.Task) string {
	layout := o.DateFormat
	if layout == "" {
		layout = "1/2/2006"
	}
	return duedate.Display(task.DueDate, o.Location, layout)
}

// FormatStats writes the stats panel on one line.
func FormatStats(w io.Writer, s service.Stats) {
	fmt.Fprintf(w, "Total: %d  Completed: %d  High: %d  Medium: %d  Low: %d\n",
		s.Total, s.Completed, s.High, s.Medium, s.Low)
}

// FormatTasks writes every task card, or EmptyList when there are none.
func FormatTasks(w io.Writer, tasks []service.Task, opts Options) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for _, t := range tasks {
		FormatTask(w, t, opts)
	}
}

// FormatTask writes one task card.
// Format: "[x] {ID:>4}  {TITLE}" followed by indented notes, metadata and
// an optional attachment link.
func FormatTask(w io.Writer, task service.Task, opts Options) {
	mark := "[ ]"
	if task.IsComplete {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%s %4d  %s\n", mark, task.ID, normalizeLine(task.Title, "(untitled)"))
	fmt.Fprintf(w, "%s%s\n", detailIndent, normalizeLine(task.Notes, NoNotes))
	fmt.Fprintf(w, "%sPriority: %s  Category: %s  Due: %s\n",
		detailIndent, task.Priority, orNA(task.Category), opts.Due(task))
	if task.AttachmentFilename != "" {
		fmt.Fprintf(w, "%sAttachment: %s\n", detailIndent, opts.AttachmentURL(task.AttachmentFilename))
	}
}

// FormatDashboard writes the stats panel, when known, then the task list.
func FormatDashboard(w io.Writer, stats *service.Stats, tasks []service.Task, opts Options) {
	if stats != nil {
		FormatStats(w, *stats)
		fmt.Fprintln(w, Separator)
	}
	FormatTasks(w, tasks, opts)
}

// normalizeLine keeps a card field on one line.
// Empty values become placeholder; whitespace-only values are kept as they are.
func normalizeLine(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func orNA(s string) string {
	if s == "" {
		return duedate.NotSet
	}
	return s
}
