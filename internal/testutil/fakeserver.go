package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskdash/internal/service"
)

// SessionCookie is the cookie name the fake server issues on login.
const SessionCookie = "session"

// maxUpload mirrors the real server's request size limit.
const maxUpload = 10 << 20

// FakeServer is an in-memory task server speaking the same HTTP contract as
// the real one. It records every request it receives.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string // username -> password
	sessions map[string]string // token -> username
	tasks    []*fakeTask
	nextID   int64
	uploads  map[string][]byte
	requests []string
	failures map[string]fakeFailure
}

type fakeTask struct {
	service.Task
	owner string
}

type fakeFailure struct {
	status  int
	message string
}

// NewFakeServer starts a FakeServer that is closed when the test ends.
func NewFakeServer(t testing.TB) *FakeServer {
	t.Helper()
	fs := &FakeServer{
		users:    make(map[string]string),
		sessions: make(map[string]string),
		uploads:  make(map[string][]byte),
		failures: make(map[string]fakeFailure),
		nextID:   1,
	}
	fs.Server = httptest.NewServer(fs.routes())
	t.Cleanup(fs.Close)
	return fs
}

func (fs *FakeServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(fs.record)

	r.Post("/register", fs.handleRegister)
	r.Post("/login", fs.handleLogin)
	r.Get("/logout", fs.handleLogout)
	r.Get("/login-page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>login</body></html>"))
	})

	r.Group(func(r chi.Router) {
		r.Use(fs.requireLogin)
		r.Get("/api/stats", fs.handleStats)
		r.Get("/api/tasks", fs.handleListTasks)
		r.Post("/api/tasks", fs.handleCreateTask)
		r.Put("/api/tasks/{id}", fs.handleToggleTask)
		r.Delete("/api/tasks/{id}", fs.handleDeleteTask)
		r.Put("/api/tasks/{id}/edit", fs.handleEditTask)
		r.Get("/uploads/{filename}", fs.handleUpload)
	})
	return r
}

// AddUser registers an account directly.
func (fs *FakeServer) AddUser(username, password string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.users[username] = password
}

// SeedTask stores a task for owner and returns its id. DueDate is stored as given.
func (fs *FakeServer) SeedTask(owner string, task service.Task) int64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	task.ID = fs.nextID
	fs.nextID++
	fs.tasks = append(fs.tasks, &fakeTask{Task: task, owner: owner})
	return task.ID
}

// SeedUpload stores attachment bytes under filename.
func (fs *FakeServer) SeedUpload(filename string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.uploads[filename] = data
}

// Tasks returns a copy of owner's tasks in id order.
func (fs *FakeServer) Tasks(owner string) []service.Task {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.tasksOf(owner)
}

// Upload returns the stored bytes of an attachment.
func (fs *FakeServer) Upload(filename string) ([]byte, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.uploads[filename]
	return data, ok
}

// Requests returns the "METHOD /path" lines received so far.
func (fs *FakeServer) Requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.requests...)
}

// ResetRequests clears the request log.
func (fs *FakeServer) ResetRequests() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.requests = nil
}

// FailWith makes every request matching method and path answer status with
// a JSON message. An empty message sends a plain-text body instead.
func (fs *FakeServer) FailWith(method, urlPath string, status int, message string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failures[method+" "+urlPath] = fakeFailure{status: status, message: message}
}

// ClearFailures removes every injected failure.
func (fs *FakeServer) ClearFailures() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failures = make(map[string]fakeFailure)
}

func (fs *FakeServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		fs.mu.Lock()
		fs.requests = append(fs.requests, key)
		failure, failing := fs.failures[key]
		fs.mu.Unlock()

		if failing {
			if failure.message == "" {
				http.Error(w, http.StatusText(failure.status), failure.status)
				return
			}
			writeJSON(w, failure.status, map[string]string{"message": failure.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fs *FakeServer) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		fs.mu.Lock()
		user, ok := fs.sessions[c.Value]
		fs.mu.Unlock()
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		r.Header.Set("X-Fake-User", user)
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) string {
	return r.Header.Get("X-Fake-User")
}

func (fs *FakeServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username and password are required!"})
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, exists := fs.users[creds.Username]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already exists!"})
		return
	}
	fs.users[creds.Username] = creds.Password
	writeJSON(w, http.StatusOK, map[string]string{"message": "New user created successfully!"})
}

func (fs *FakeServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	_ = json.NewDecoder(r.Body).Decode(&creds)

	fs.mu.Lock()
	password, ok := fs.users[creds.Username]
	if !ok || password != creds.Password {
		fs.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password!"})
		return
	}
	token := uuid.NewString()
	fs.sessions[token] = creds.Username
	fs.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful!"})
}

func (fs *FakeServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		fs.mu.Lock()
		delete(fs.sessions, c.Value)
		fs.mu.Unlock()
	}
	http.Redirect(w, r, "/login-page", http.StatusFound)
}

func (fs *FakeServer) handleStats(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	tasks := fs.tasksOf(currentUser(r))
	fs.mu.Unlock()

	var stats service.Stats
	for _, t := range tasks {
		stats.Total++
		if t.IsComplete {
			stats.Completed++
			continue
		}
		switch t.Priority {
		case service.PriorityHigh:
			stats.High++
		case service.PriorityMedium:
			stats.Medium++
		case service.PriorityLow:
			stats.Low++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// wireTask encodes empty optional fields as null, like the real server.
type wireTask struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Notes              *string `json:"notes"`
	Priority           string  `json:"priority"`
	Category           *string `json:"category"`
	DueDate            *string `json:"due_date"`
	IsComplete         bool    `json:"is_complete"`
	AttachmentFilename *string `json:"attachment_filename"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (fs *FakeServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	tasks := fs.tasksOf(currentUser(r))
	fs.mu.Unlock()

	out := make([]wireTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, wireTask{
			ID:                 t.ID,
			Title:              t.Title,
			Notes:              nullable(t.Notes),
			Priority:           t.Priority,
			Category:           nullable(t.Category),
			DueDate:            nullable(t.DueDate),
			IsComplete:         t.IsComplete,
			AttachmentFilename: nullable(t.AttachmentFilename),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (fs *FakeServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid form data!"})
		return
	}
	title := r.FormValue("title")
	priority := r.FormValue("priority")
	if title == "" || priority == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title and priority are required!"})
		return
	}

	due, err := naiveUTC(r.FormValue("due_date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid due date!"})
		return
	}

	var filename string
	var data []byte
	if file, header, err := r.FormFile("attachment"); err == nil {
		defer file.Close()
		filename = path.Base(header.Filename)
		if data, err = io.ReadAll(file); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unreadable attachment!"})
			return
		}
	}

	fs.mu.Lock()
	task := &fakeTask{
		Task: service.Task{
			ID:                 fs.nextID,
			Title:              title,
			Notes:              r.FormValue("notes"),
			Priority:           priority,
			Category:           r.FormValue("category"),
			DueDate:            due,
			AttachmentFilename: filename,
		},
		owner: currentUser(r),
	}
	fs.nextID++
	fs.tasks = append(fs.tasks, task)
	if filename != "" {
		fs.uploads[filename] = data
	}
	fs.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Task created successfully!"})
}

func (fs *FakeServer) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	task := fs.ownedTask(r)
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found or permission denied!"})
		return
	}
	task.IsComplete = !task.IsComplete
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task marked as complete!"})
}

func (fs *FakeServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	task := fs.ownedTask(r)
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found or permission denied!"})
		return
	}
	for i, t := range fs.tasks {
		if t == task {
			fs.tasks = append(fs.tasks[:i], fs.tasks[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully!"})
}

// handleEditTask keeps a field when its key is absent and clears the due date
// when due_date is null or empty.
func (fs *FakeServer) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON!"})
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	task := fs.ownedTask(r)
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found or permission denied!"})
		return
	}

	for key, dst := range map[string]*string{
		"title":    &task.Title,
		"notes":    &task.Notes,
		"priority": &task.Priority,
		"category": &task.Category,
	} {
		if raw, ok := body[key]; ok {
			var v *string
			_ = json.Unmarshal(raw, &v)
			if v == nil {
				*dst = ""
			} else {
				*dst = *v
			}
		}
	}

	var due *string
	if raw, ok := body["due_date"]; ok {
		_ = json.Unmarshal(raw, &due)
	}
	task.DueDate = ""
	if due != nil && *due != "" {
		naive, err := naiveUTC(*due)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid due date!"})
			return
		}
		task.DueDate = naive
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task updated successfully!"})
}

func (fs *FakeServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	user := currentUser(r)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	owned := false
	for _, t := range fs.tasks {
		if t.owner == user && t.AttachmentFilename == filename {
			owned = true
			break
		}
	}
	data, ok := fs.uploads[filename]
	if !owned || !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// ownedTask returns the task named by the {id} parameter if the caller owns it.
// fs.mu must be held.
func (fs *FakeServer) ownedTask(r *http.Request) *fakeTask {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil
	}
	user := currentUser(r)
	for _, t := range fs.tasks {
		if t.ID == id && t.owner == user {
			return t
		}
	}
	return nil
}

// tasksOf copies owner's tasks. fs.mu must be held.
func (fs *FakeServer) tasksOf(owner string) []service.Task {
	out := []service.Task{}
	for _, t := range fs.tasks {
		if t.owner == owner {
			out = append(out, t.Task)
		}
	}
	return out
}

// naiveUTC stores an instant the way the real server does: UTC, zone dropped.
func naiveUTC(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format("2006-01-02T15:04:05"), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
