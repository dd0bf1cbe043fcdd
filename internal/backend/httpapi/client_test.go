package httpapi_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/backend/httpapi"
	"taskdash/internal/service"
	"taskdash/internal/session"
	"taskdash/internal/testutil"
)

func newClient(t *testing.T, server string) (*httpapi.Client, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := httpapi.New(server, store)
	require.NoError(t, err)
	return c, store
}

func loggedIn(t *testing.T) (*httpapi.Client, *testutil.FakeServer) {
	t.Helper()
	fs := testutil.NewFakeServer(t)
	fs.AddUser("alice", "secret")
	c, _ := newClient(t, fs.URL)
	require.NoError(t, c.Login(context.Background(), service.Credentials{Username: "alice", Password: "secret"}))
	fs.ResetRequests()
	return c, fs
}

func TestNew_RejectsBadURL(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := httpapi.New("ftp://example.com", store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server url")
}

func TestLogin_PersistsSession(t *testing.T) {
	fs := testutil.NewFakeServer(t)
	fs.AddUser("alice", "secret")
	c, store := newClient(t, fs.URL)

	require.NoError(t, c.Login(context.Background(), service.Credentials{Username: "alice", Password: "secret"}))

	cookies, err := store.Load()
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, testutil.SessionCookie, cookies[0].Name)

	// A second client built from the same store is already authenticated.
	again, err := httpapi.New(fs.URL, store)
	require.NoError(t, err)
	_, err = again.ListTasks(context.Background())
	assert.NoError(t, err)
}

func TestLogin_FailureCarriesServerMessage(t *testing.T) {
	fs := testutil.NewFakeServer(t)
	c, store := newClient(t, fs.URL)

	err := c.Login(context.Background(), service.Credentials{Username: "bob", Password: "nope"})
	require.Error(t, err)

	assert.Equal(t, "Invalid username or password!", service.Message(err))
	assert.True(t, service.IsUnauthorized(err))

	cookies, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestRegister(t *testing.T) {
	fs := testutil.NewFakeServer(t)
	c, _ := newClient(t, fs.URL)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, service.Credentials{Username: "carol", Password: "pw"}))

	err := c.Register(ctx, service.Credentials{Username: "carol", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Username already exists!", service.Message(err))
	assert.Equal(t, []string{"POST /register", "POST /register"}, fs.Requests())
}

func TestUnauthenticatedRequest(t *testing.T) {
	fs := testutil.NewFakeServer(t)
	c, _ := newClient(t, fs.URL)

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, service.IsUnauthorized(err))
	// Plain-text body: the status text stands in for the message.
	assert.Equal(t, "Unauthorized", service.Message(err))
}

func TestListTasks_DecodesNulls(t *testing.T) {
	c, fs := loggedIn(t)
	fs.SeedTask("alice", service.Task{Title: "Buy milk", Priority: "high"})
	fs.SeedTask("alice", service.Task{Title: "File taxes", Priority: "low", Notes: "forms", Category: "home",
		DueDate: "2024-04-15T00:00:00", IsComplete: true, AttachmentFilename: "w2.pdf"})
	fs.SeedTask("bob", service.Task{Title: "not mine", Priority: "low"})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, service.Task{ID: 1, Title: "Buy milk", Priority: "high"}, tasks[0])
	assert.Equal(t, "2024-04-15T00:00:00", tasks[1].DueDate)
	assert.True(t, tasks[1].IsComplete)
	assert.Equal(t, "w2.pdf", tasks[1].AttachmentFilename)
	assert.Equal(t, []string{"GET /api/tasks"}, fs.Requests())
}

func TestListTasks_EmptyIsNonNil(t *testing.T) {
	c, _ := loggedIn(t)

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestStats(t *testing.T) {
	c, fs := loggedIn(t)
	fs.SeedTask("alice", service.Task{Title: "a", Priority: "high"})
	fs.SeedTask("alice", service.Task{Title: "b", Priority: "high", IsComplete: true})
	fs.SeedTask("alice", service.Task{Title: "c", Priority: "low"})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.Stats{Total: 3, Completed: 1, High: 1, Medium: 0, Low: 1}, stats)
}

func TestCreateTask_MultipartWithAttachment(t *testing.T) {
	c, fs := loggedIn(t)

	err := c.CreateTask(context.Background(), service.CreateTaskRequest{
		Title:      "Scan receipts",
		Notes:      "all of them",
		Priority:   "medium",
		Category:   "admin",
		DueDate:    "2024-05-03T04:00:00.000Z",
		Attachment: &service.Attachment{Filename: "/home/alice/receipts.txt", Body: strings.NewReader("lunch 12.50")},
	})
	require.NoError(t, err)

	tasks := fs.Tasks("alice")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Scan receipts", tasks[0].Title)
	assert.Equal(t, "admin", tasks[0].Category)
	assert.Equal(t, "2024-05-03T04:00:00", tasks[0].DueDate)
	assert.Equal(t, "receipts.txt", tasks[0].AttachmentFilename)

	data, ok := fs.Upload("receipts.txt")
	require.True(t, ok)
	assert.Equal(t, "lunch 12.50", string(data))
}

func TestCreateTask_ServerValidation(t *testing.T) {
	c, _ := loggedIn(t)

	err := c.CreateTask(context.Background(), service.CreateTaskRequest{Priority: "low"})
	require.Error(t, err)
	assert.Equal(t, "Title and priority are required!", service.Message(err))
}

func TestToggleDeleteEdit(t *testing.T) {
	c, fs := loggedIn(t)
	ctx := context.Background()
	id := fs.SeedTask("alice", service.Task{Title: "Buy milk", Priority: "high", DueDate: "2024-01-01T00:00:00"})

	require.NoError(t, c.ToggleTask(ctx, id))
	assert.True(t, fs.Tasks("alice")[0].IsComplete)

	require.NoError(t, c.EditTask(ctx, id, service.EditTaskRequest{
		Title: "Buy oat milk", Priority: "low", DueDate: nil,
	}))
	edited := fs.Tasks("alice")[0]
	assert.Equal(t, "Buy oat milk", edited.Title)
	assert.Equal(t, "low", edited.Priority)
	assert.Equal(t, "", edited.DueDate)

	require.NoError(t, c.DeleteTask(ctx, id))
	assert.Empty(t, fs.Tasks("alice"))

	assert.Equal(t, []string{
		"PUT /api/tasks/1",
		"PUT /api/tasks/1/edit",
		"DELETE /api/tasks/1",
	}, fs.Requests())
}

func TestToggle_NotFound(t *testing.T) {
	c, _ := loggedIn(t)

	err := c.ToggleTask(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, "Task not found or permission denied!", service.Message(err))
}

func TestDownloadAttachment(t *testing.T) {
	c, fs := loggedIn(t)
	fs.SeedTask("alice", service.Task{Title: "t", Priority: "low", AttachmentFilename: "plan.txt"})
	fs.SeedUpload("plan.txt", []byte("step one"))

	var buf bytes.Buffer
	require.NoError(t, c.DownloadAttachment(context.Background(), "plan.txt", &buf))
	assert.Equal(t, "step one", buf.String())
	assert.Equal(t, []string{"GET /uploads/plan.txt"}, fs.Requests())
}

func TestLogout(t *testing.T) {
	c, fs := loggedIn(t)

	require.NoError(t, c.Logout(context.Background()))

	_, err := c.ListTasks(context.Background())
	assert.True(t, service.IsUnauthorized(err))
	assert.Equal(t, []string{"GET /logout", "GET /login-page", "GET /api/tasks"}, fs.Requests())
}

func TestRequestIDHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(httpapi.RequestIDHeader)
		_, _ = w.Write([]byte(`{"tasks":[]}`))
	}))
	defer srv.Close()

	c, _ := newClient(t, srv.URL)
	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 36)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := httpapi.New(srv.URL, store, httpapi.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Stats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timed out")
}

func TestEditTask_JSONBody(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, r.Method+" "+r.URL.Path+" "+r.Header.Get("Content-Type")+" "+string(data))
		_, _ = w.Write([]byte(`{"message":"Task updated successfully!"}`))
	}))
	defer srv.Close()

	c, _ := newClient(t, srv.URL)
	due := "2024-07-04T00:00:00.000Z"
	require.NoError(t, c.EditTask(context.Background(), 5, service.EditTaskRequest{Title: "Buy oat milk", Priority: "high", DueDate: &due}))
	require.NoError(t, c.EditTask(context.Background(), 5, service.EditTaskRequest{Title: "Buy oat milk", Priority: "high"}))

	require.Len(t, bodies, 2)
	prefix := "PUT /api/tasks/5/edit application/json "
	assert.JSONEq(t, `{"title":"Buy oat milk","notes":"","priority":"high","category":"","due_date":"2024-07-04T00:00:00.000Z"}`,
		strings.TrimPrefix(bodies[0], prefix))
	assert.JSONEq(t, `{"title":"Buy oat milk","notes":"","priority":"high","category":"","due_date":null}`,
		strings.TrimPrefix(bodies[1], prefix))
	assert.True(t, strings.HasPrefix(bodies[1], prefix), bodies[1])
}

func TestTimeout_SlowDownloadKeepsGoing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 8; i++ {
			_, _ = w.Write([]byte("chunk\n"))
			w.(http.Flusher).Flush()
			time.Sleep(40 * time.Millisecond)
		}
	}))
	defer srv.Close()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := httpapi.New(srv.URL, store, httpapi.WithTimeout(200*time.Millisecond))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.DownloadAttachment(context.Background(), "big.bin", &buf))
	assert.Equal(t, strings.Repeat("chunk\n", 8), buf.String())
}

func TestTimeout_StalledDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("partial"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := httpapi.New(srv.URL, store, httpapi.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	err = c.DownloadAttachment(context.Background(), "big.bin", io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timed out")
}

type slowReader struct {
	chunks int
	delay  time.Duration
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.chunks == 0 {
		return 0, io.EOF
	}
	time.Sleep(r.delay)
	r.chunks--
	return copy(p, "data\n"), nil
}

func TestTimeout_SlowAttachmentUpload(t *testing.T) {
	fs := testutil.NewFakeServer(t)
	fs.AddUser("alice", "secret")
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := httpapi.New(fs.URL, store, httpapi.WithTimeout(100*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), service.Credentials{Username: "alice", Password: "secret"}))

	err = c.CreateTask(context.Background(), service.CreateTaskRequest{
		Title:      "Upload",
		Priority:   "low",
		Attachment: &service.Attachment{Filename: "slow.txt", Body: &slowReader{chunks: 6, delay: 40 * time.Millisecond}},
	})
	require.NoError(t, err)

	data, ok := fs.Upload("slow.txt")
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("data\n", 6), string(data))
}
