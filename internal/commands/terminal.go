package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"taskdash/internal/config"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

// Terminal is the line-oriented front end shared by the auth and dashboard
// flows. Alerts and prompts go to errOut; the dashboard is buffered and
// written to out by Flush, so a command prints only the final state.
type Terminal struct {
	in     *bufio.Reader
	ttyFd  int // -1 unless input is an interactive terminal
	out    io.Writer
	errOut io.Writer
	opts   output.Options

	stats    *service.Stats
	tasks    []service.Task
	hasTasks bool
	page     string
}

// NewTerminal creates a Terminal rendering with cfg's date settings.
func NewTerminal(cfg *config.Config, in io.Reader, out, errOut io.Writer) *Terminal {
	if in == nil {
		in = strings.NewReader("")
	}
	ttyFd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		ttyFd = int(f.Fd())
	}
	return &Terminal{
		in:     bufio.NewReader(in),
		ttyFd:  ttyFd,
		out:    out,
		errOut: errOut,
		opts: output.Options{
			Location:   cfg.Location,
			DateFormat: cfg.DateFormat,
			BaseURL:    cfg.Server,
		},
	}
}

// Alert prints msg on its own line.
func (t *Terminal) Alert(msg string) {
	fmt.Fprintln(t.errOut, msg)
}

// Confirm asks msg and reads one line. Only "y" or "yes" confirm.
func (t *Terminal) Confirm(msg string) bool {
	fmt.Fprintf(t.errOut, "%s [y/N] ", msg)
	answer, _ := t.readLine()
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// Prompt asks for a value and reads one line.
func (t *Terminal) Prompt(label string) (string, error) {
	fmt.Fprint(t.errOut, label)
	return t.readLine()
}

// PromptPassword asks for a secret. Input typed at a terminal is not echoed;
// piped input is read as a plain line.
func (t *Terminal) PromptPassword(label string) (string, error) {
	if t.ttyFd < 0 {
		return t.Prompt(label)
	}
	fmt.Fprint(t.errOut, label)
	password, err := term.ReadPassword(t.ttyFd)
	fmt.Fprintln(t.errOut)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ShowStats keeps the latest stats for Flush.
func (t *Terminal) ShowStats(stats service.Stats) {
	t.stats = &stats
}

// ShowTasks keeps the latest task list for Flush.
func (t *Terminal) ShowTasks(tasks []service.Task) {
	t.tasks = tasks
	t.hasTasks = true
}

// Navigate records the page a flow moved to.
func (t *Terminal) Navigate(path string) {
	t.page = path
}

// Page returns the last page navigated to.
func (t *Terminal) Page() string {
	return t.page
}

// Flush writes the buffered dashboard as text. Nothing is written if no
// task list was ever shown.
func (t *Terminal) Flush() {
	if !t.hasTasks {
		return
	}
	output.FormatDashboard(t.out, t.stats, t.tasks, t.opts)
}

// FlushHTML writes the buffered dashboard as HTML cards. Like Flush it
// writes nothing if no task list was ever shown.
func (t *Terminal) FlushHTML() error {
	if !t.hasTasks {
		return nil
	}
	return output.RenderHTML(t.out, t.stats, t.tasks, t.opts)
}

// assumeYes answers every confirmation with yes.
type assumeYes struct {
	*Terminal
}

func (assumeYes) Confirm(string) bool { return true }
