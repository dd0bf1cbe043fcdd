// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"

	"taskdash/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It serves a single user and records every call by name.
type FakeService struct {
	mu       sync.Mutex
	tasks    []service.Task
	nextID   int64
	uploads  map[string][]byte
	users    map[string]string
	loggedIn bool
	calls    []string

	// LastCreate and LastEdit capture the most recent request bodies.
	LastCreate service.CreateTaskRequest
	LastEdit   service.EditTaskRequest

	// Error injection for testing
	LoginErr      error
	RegisterErr   error
	LogoutErr     error
	StatsErr      error
	ListTasksErr  error
	CreateTaskErr error
	ToggleTaskErr error
	DeleteTaskErr error
	EditTaskErr   error
	DownloadErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:  1,
		uploads: make(map[string][]byte),
		users:   make(map[string]string),
	}
}

// AddUser registers credentials accepted by Login.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// AddTask stores a task and returns its assigned id.
func (f *FakeService) AddTask(task service.Task) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = f.nextID
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task.ID
}

// AddUpload stores attachment bytes.
func (f *FakeService) AddUpload(filename string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[filename] = data
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task{}, f.tasks...)
}

// Calls returns the names of the methods called so far.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// LoggedIn reports whether Login succeeded since the last Logout.
func (f *FakeService) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *FakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) error {
	f.record("Login")
	if f.LoginErr != nil {
		return f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[creds.Username]; !ok || pw != creds.Password {
		return service.NewAPIError(http.StatusUnauthorized, "Invalid username or password!")
	}
	f.loggedIn = true
	return nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, creds service.Credentials) error {
	f.record("Register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Username]; exists {
		return service.NewAPIError(http.StatusConflict, "Username already exists!")
	}
	f.users[creds.Username] = creds.Password
	return nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	f.record("Logout")
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	return nil
}

// Stats implements service.Service.
func (f *FakeService) Stats(ctx context.Context) (service.Stats, error) {
	f.record("Stats")
	if f.StatsErr != nil {
		return service.Stats{}, f.StatsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var s service.Stats
	for _, t := range f.tasks {
		s.Total++
		if t.IsComplete {
			s.Completed++
			continue
		}
		switch t.Priority {
		case service.PriorityHigh:
			s.High++
		case service.PriorityMedium:
			s.Medium++
		case service.PriorityLow:
			s.Low++
		}
	}
	return s, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, req service.CreateTaskRequest) error {
	f.record("CreateTask")
	f.mu.Lock()
	f.LastCreate = req
	f.mu.Unlock()
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	if req.Title == "" || req.Priority == "" {
		return service.NewAPIError(http.StatusBadRequest, "Title and priority are required!")
	}

	task := service.Task{
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: req.Priority,
		Category: req.Category,
		DueDate:  req.DueDate,
	}
	if req.Attachment != nil {
		data, err := io.ReadAll(req.Attachment.Body)
		if err != nil {
			return err
		}
		task.AttachmentFilename = filepath.Base(req.Attachment.Filename)
		f.AddUpload(task.AttachmentFilename, data)
	}
	f.AddTask(task)
	return nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("ToggleTask %d", id))
	if f.ToggleTaskErr != nil {
		return f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsComplete = !f.tasks[i].IsComplete
			return nil
		}
	}
	return notFound()
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("DeleteTask %d", id))
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound()
}

// EditTask implements service.Service.
func (f *FakeService) EditTask(ctx context.Context, id int64, req service.EditTaskRequest) error {
	f.record(fmt.Sprintf("EditTask %d", id))
	f.mu.Lock()
	f.LastEdit = req
	f.mu.Unlock()
	if f.EditTaskErr != nil {
		return f.EditTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		t := &f.tasks[i]
		t.Title = req.Title
		t.Notes = req.Notes
		t.Priority = req.Priority
		t.Category = req.Category
		t.DueDate = ""
		if req.DueDate != nil {
			t.DueDate = *req.DueDate
		}
		return nil
	}
	return notFound()
}

// DownloadAttachment implements service.Service.
func (f *FakeService) DownloadAttachment(ctx context.Context, filename string, w io.Writer) error {
	f.record("DownloadAttachment " + filename)
	if f.DownloadErr != nil {
		return f.DownloadErr
	}
	f.mu.Lock()
	data, ok := f.uploads[filename]
	f.mu.Unlock()
	if !ok {
		return service.NewAPIError(http.StatusNotFound, "")
	}
	_, err := w.Write(data)
	return err
}

func notFound() error {
	return service.NewAPIError(http.StatusNotFound, "Task not found or permission denied!")
}
