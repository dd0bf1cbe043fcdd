package dashboard

import (
	"context"
	"strconv"
	"strings"

	"taskdash/internal/service"
)

// ActionKind names the control a task action came from.
type ActionKind string

// Per-task controls on each card.
const (
	ActionEdit     ActionKind = "edit-btn"
	ActionComplete ActionKind = "complete-btn"
	ActionDelete   ActionKind = "delete-btn"
)

// Action is a click on one of a card's controls, tagged with the card's task id.
type Action struct {
	Kind   ActionKind
	TaskID string
}

type actionFunc func(ctx context.Context, id string) error

// Handle routes an action to its handler. Unknown kinds are ignored.
func (d *Dashboard) Handle(ctx context.Context, a Action) error {
	h, ok := d.actions[a.Kind]
	if !ok {
		return nil
	}
	return h(ctx, a.TaskID)
}

// lookup finds a cached task whose numeric id loosely equals id: surrounding
// space is ignored and any numeric spelling matches ("5", "05", "5.0").
func (d *Dashboard) lookup(id string) (service.Task, bool) {
	for _, t := range d.tasks {
		if looseEqual(id, t.ID) {
			return t, true
		}
	}
	return service.Task{}, false
}

func looseEqual(s string, id int64) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return id == 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return f == float64(id)
}

// Task returns the cached task matching id, using the same matching as the
// card actions.
func (d *Dashboard) Task(id string) (service.Task, bool) {
	return d.lookup(id)
}
