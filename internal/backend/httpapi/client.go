// Package httpapi implements service.Service against the task server's HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"taskdash/internal/service"
	"taskdash/internal/session"
)

// DefaultTimeout is the per-request idle timeout when none is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Client implements service.Service over HTTP. The server identifies the user
// by a session cookie kept in the client's jar and persisted by the store.
type Client struct {
	base    *url.URL
	http    *http.Client
	jar     *cookiejar.Jar
	store   *session.Store
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = requestIDTransport{next: rt}
	}
}

// WithTimeout sets how long a request may go without progress. Each chunk of
// request or response body moved restarts the clock, so large attachments are
// bounded by stalls rather than by total transfer time.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the server at rawURL. Cookies are loaded from store
// and written back to it after a successful login.
func New(rawURL string, store *session.Store, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url: %q (want http or https)", rawURL)
	}

	jar, err := store.NewJar(base)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:    base,
		jar:     jar,
		store:   store,
		timeout: DefaultTimeout,
		http: &http.Client{
			Jar:       jar,
			Transport: requestIDTransport{next: http.DefaultTransport},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) error {
	if err := c.sendJSON(ctx, http.MethodPost, "/login", creds); err != nil {
		return err
	}
	if err := c.store.Save(c.jar.Cookies(c.base)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, creds service.Credentials) error {
	return c.sendJSON(ctx, http.MethodPost, "/register", creds)
}

// Logout implements service.Service.
func (c *Client) Logout(ctx context.Context) error {
	return c.roundTrip(ctx, http.MethodGet, "/logout", "", nil, nil)
}

// Stats implements service.Service.
func (c *Client) Stats(ctx context.Context) (service.Stats, error) {
	var stats service.Stats
	err := c.roundTrip(ctx, http.MethodGet, "/api/stats", "", nil, decodeInto(&stats))
	return stats, err
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var body struct {
		Tasks []service.Task `json:"tasks"`
	}
	if err := c.roundTrip(ctx, http.MethodGet, "/api/tasks", "", nil, decodeInto(&body)); err != nil {
		return nil, err
	}
	if body.Tasks == nil {
		body.Tasks = []service.Task{}
	}
	return body.Tasks, nil
}

// CreateTask implements service.Service. The body is multipart so an
// attachment travels with the text fields.
func (c *Client) CreateTask(ctx context.Context, req service.CreateTaskRequest) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", req.Title},
		{"notes", req.Notes},
		{"priority", req.Priority},
		{"category", req.Category},
		{"due_date", req.DueDate},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return err
		}
	}

	if a := req.Attachment; a != nil {
		part, err := mw.CreateFormFile("attachment", filepath.Base(a.Filename))
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, a.Body); err != nil {
			return fmt.Errorf("failed to read attachment: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return c.roundTrip(ctx, http.MethodPost, "/api/tasks", mw.FormDataContentType(), &buf, nil)
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, id int64) error {
	return c.roundTrip(ctx, http.MethodPut, taskPath(id), "", nil, nil)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.roundTrip(ctx, http.MethodDelete, taskPath(id), "", nil, nil)
}

// EditTask implements service.Service.
func (c *Client) EditTask(ctx context.Context, id int64, req service.EditTaskRequest) error {
	return c.sendJSON(ctx, http.MethodPut, taskPath(id)+"/edit", req)
}

// DownloadAttachment implements service.Service.
func (c *Client) DownloadAttachment(ctx context.Context, filename string, w io.Writer) error {
	return c.roundTrip(ctx, http.MethodGet, "/uploads/"+filename, "", nil, func(resp *http.Response) error {
		_, err := io.Copy(w, resp.Body)
		return err
	})
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, method, path, "application/json", bytes.NewReader(data), nil)
}

// roundTrip sends one request and hands a 2xx response to handle.
// Non-2xx responses become *service.APIError.
func (c *Client) roundTrip(ctx context.Context, method, path, contentType string, body io.Reader, handle func(*http.Response) error) error {
	ctx, wd := newWatchdog(ctx, c.timeout)
	defer wd.stop()

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return err
	}
	if req.Body != nil && req.Body != http.NoBody {
		req.Body = progressBody{ReadCloser: req.Body, wd: wd}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return wd.wrap(err)
	}
	defer resp.Body.Close()
	wd.kick()
	resp.Body = progressBody{ReadCloser: resp.Body, wd: wd}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if handle == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := handle(resp); err != nil {
		return wd.wrap(err)
	}
	return nil
}

func decodeInto(v any) func(*http.Response) error {
	return func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("invalid response from %s: %w", resp.Request.URL.Path, err)
		}
		return nil
	}
}

// decodeAPIError extracts the server's "message" field, if the body has one.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &body)
	return service.NewAPIError(resp.StatusCode, body.Message)
}

// watchdog cancels a request once it has made no progress for d.
type watchdog struct {
	d      time.Duration
	timer  *time.Timer
	cancel context.CancelFunc
	fired  atomic.Bool
}

func newWatchdog(ctx context.Context, d time.Duration) (context.Context, *watchdog) {
	ctx, cancel := context.WithCancel(ctx)
	wd := &watchdog{d: d, cancel: cancel}
	wd.timer = time.AfterFunc(d, func() {
		wd.fired.Store(true)
		cancel()
	})
	return ctx, wd
}

func (wd *watchdog) kick() {
	if !wd.fired.Load() {
		wd.timer.Reset(wd.d)
	}
}

func (wd *watchdog) stop() {
	wd.timer.Stop()
	wd.cancel()
}

// wrap gives transport failures a readable prefix while keeping the cause.
func (wd *watchdog) wrap(err error) error {
	if wd.fired.Load() {
		return fmt.Errorf("request timed out after %s without progress: %w", wd.d, context.DeadlineExceeded)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

// progressBody restarts the watchdog whenever bytes move.
type progressBody struct {
	io.ReadCloser
	wd *watchdog
}

func (b progressBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if n > 0 {
		b.wd.kick()
	}
	return n, err
}
