package output

import (
	"html/template"
	"io"

	"taskdash/internal/service"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(`
{{- with .Stats}}<section id="stats">
  <span id="stats-total">{{.Total}}</span>
  <span id="stats-completed">{{.Completed}}</span>
  <span id="stats-high">{{.High}}</span>
  <span id="stats-medium">{{.Medium}}</span>
  <span id="stats-low">{{.Low}}</span>
</section>
{{end -}}
<div id="task-list-container">
{{- range .Cards}}
<article{{if .IsComplete}} class="completed-task"{{end}}>
  <header><strong>{{.Title}}</strong></header>
  <p>{{if .Notes}}{{.Notes}}{{else}}<em>No notes.</em>{{end}}</p>
  <footer>
    <div class="grid">
      <div><strong>Priority:</strong> {{.Priority}}</div>
      <div><strong>Category:</strong> {{if .Category}}{{.Category}}{{else}}N/A{{end}}</div>
      <div><strong>Due:</strong> {{.Due}}</div>
    </div>
    {{- if .AttachmentURL}}
    <a href="{{.AttachmentURL}}" target="_blank" role="button" class="secondary outline">View Attachment</a>
    {{- end}}
  </footer>
  <div class="task-actions">
    <button class="edit-btn" data-task-id="{{.ID}}">Edit</button>
    <button class="complete-btn" data-task-id="{{.ID}}">{{if .IsComplete}}Mark as To-Do{{else}}Mark as Complete{{end}}</button>
    <button class="delete-btn contrast" data-task-id="{{.ID}}">Delete</button>
  </div>
</article>
{{- else}}
<p>No tasks yet. Add one above!</p>
{{- end}}
</div>
`))

type card struct {
	service.Task
	Due           string
	AttachmentURL string
}

// RenderHTML writes the stats panel, when known, and one card per task.
// All task text is escaped.
func RenderHTML(w io.Writer, stats *service.Stats, tasks []service.Task, opts Options) error {
	cards := make([]card, 0, len(tasks))
	for _, t := range tasks {
		c := card{Task: t, Due: opts.Due(t)}
		if t.AttachmentFilename != "" {
			c.AttachmentURL = opts.AttachmentURL(t.AttachmentFilename)
		}
		cards = append(cards, c)
	}
	return pageTemplate.Execute(w, struct {
		Stats *service.Stats
		Cards []card
	}{stats, cards})
}
