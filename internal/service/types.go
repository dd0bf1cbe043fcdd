package service

import (
	"fmt"
	"io"
	"net/http"
)

// Priorities offered by the task form.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Priorities lists the valid priority values in form order.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// ValidPriority reports whether p is one of Priorities.
func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// Task is a task as returned by GET /api/tasks.
// Null optional fields decode to the empty string.
type Task struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Notes              string `json:"notes"`
	Priority           string `json:"priority"`
	Category           string `json:"category"`
	DueDate            string `json:"due_date"` // ISO-8601 instant or ""
	IsComplete         bool   `json:"is_complete"`
	AttachmentFilename string `json:"attachment_filename"`
}

// Stats holds the server-computed aggregate counts.
// High, Medium and Low count incomplete tasks only.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
}

// Credentials is the login and registration payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Attachment is a file uploaded with a new task.
type Attachment struct {
	Filename string
	Body     io.Reader
}

// CreateTaskRequest is the multipart body of POST /api/tasks.
// DueDate is already an absolute ISO-8601 instant, or empty.
type CreateTaskRequest struct {
	Title      string
	Notes      string
	Priority   string
	Category   string
	DueDate    string
	Attachment *Attachment
}

// EditTaskRequest is the JSON body of PUT /api/tasks/{id}/edit.
// A nil DueDate is sent as null and clears the due date.
type EditTaskRequest struct {
	Title    string  `json:"title"`
	Notes    string  `json:"notes"`
	Priority string  `json:"priority"`
	Category string  `json:"category"`
	DueDate  *string `json:"due_date"`
}

// APIError is a non-2xx response from the task server.
type APIError struct {
	StatusCode int
	// Message is the server's "message" field, or the status text when absent.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// NewAPIError builds an APIError, falling back to the status text for an empty message.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: message}
}
