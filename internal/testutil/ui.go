package testutil

import "taskdash/internal/service"

// RecordingUI implements dashboard.UI and auth.UI by recording what it is shown.
type RecordingUI struct {
	// Answer is returned from every Confirm call.
	Answer bool

	Alerts     []string
	Confirms   []string
	StatsShown []service.Stats
	TaskLists  [][]service.Task
	Navigated  []string
}

// Alert records msg.
func (u *RecordingUI) Alert(msg string) {
	u.Alerts = append(u.Alerts, msg)
}

// Confirm records msg and returns Answer.
func (u *RecordingUI) Confirm(msg string) bool {
	u.Confirms = append(u.Confirms, msg)
	return u.Answer
}

// ShowStats records stats.
func (u *RecordingUI) ShowStats(stats service.Stats) {
	u.StatsShown = append(u.StatsShown, stats)
}

// ShowTasks records a copy of tasks.
func (u *RecordingUI) ShowTasks(tasks []service.Task) {
	u.TaskLists = append(u.TaskLists, append([]service.Task{}, tasks...))
}

// Navigate records the target path.
func (u *RecordingUI) Navigate(path string) {
	u.Navigated = append(u.Navigated, path)
}

// LastTasks returns the most recently shown task list, or nil.
func (u *RecordingUI) LastTasks() []service.Task {
	if len(u.TaskLists) == 0 {
		return nil
	}
	return u.TaskLists[len(u.TaskLists)-1]
}
