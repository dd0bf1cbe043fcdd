package auth_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/auth"
	"taskdash/internal/backend/httpapi"
	"taskdash/internal/service"
	"taskdash/internal/session"
	"taskdash/internal/testutil"
)

func TestLogin_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	ui := &testutil.RecordingUI{}

	err := auth.New(svc, ui).Login(context.Background(), service.Credentials{Username: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.True(t, svc.LoggedIn())
	assert.Empty(t, ui.Alerts)
	assert.Equal(t, []string{auth.PathDashboard}, ui.Navigated)
}

func TestLogin_FailureShowsServerMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	ui := &testutil.RecordingUI{}

	err := auth.New(svc, ui).Login(context.Background(), service.Credentials{Username: "alice", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, service.IsUnauthorized(err))
	assert.Equal(t, []string{"Login Failed: Invalid username or password!"}, ui.Alerts)
	assert.Empty(t, ui.Navigated)
	assert.Equal(t, []string{"Login"}, svc.Calls(), "nothing is retried")
}

func TestLogin_TransportErrorMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = errors.New("connection refused")
	ui := &testutil.RecordingUI{}

	require.Error(t, auth.New(svc, ui).Login(context.Background(), service.Credentials{}))
	assert.Equal(t, []string{"Login Failed: connection refused"}, ui.Alerts)
}

func TestRegister_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	ui := &testutil.RecordingUI{}

	err := auth.New(svc, ui).Register(context.Background(), service.Credentials{Username: "bob", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, []string{auth.MsgRegistered}, ui.Alerts)
	assert.Equal(t, []string{auth.PathLogin}, ui.Navigated)
	assert.False(t, svc.LoggedIn())
}

func TestRegister_Duplicate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("bob", "pw")
	ui := &testutil.RecordingUI{}

	err := auth.New(svc, ui).Register(context.Background(), service.Credentials{Username: "bob", Password: "pw"})

	require.Error(t, err)
	assert.Equal(t, []string{"Registration Failed: Username already exists!"}, ui.Alerts)
	assert.Empty(t, ui.Navigated)
}

func TestRegisterThenLogin_OverHTTP(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client, err := httpapi.New(srv.URL, session.NewStore(filepath.Join(t.TempDir(), "session.json")))
	require.NoError(t, err)
	ui := &testutil.RecordingUI{}
	flow := auth.New(client, ui)
	ctx := context.Background()
	creds := service.Credentials{Username: "dana", Password: "pw"}

	require.NoError(t, flow.Register(ctx, creds))
	require.NoError(t, flow.Login(ctx, creds))

	assert.Equal(t, []string{"POST /register", "POST /login"}, srv.Requests())
	assert.Equal(t, []string{auth.PathLogin, auth.PathDashboard}, ui.Navigated)

	_, err = client.ListTasks(ctx)
	assert.NoError(t, err)
}
