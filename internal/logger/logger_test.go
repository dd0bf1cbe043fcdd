package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	ctx := context.Background()

	t.Run("Error with error", func(t *testing.T) {
		buf.Reset()
		Error(ctx, errors.New("connection refused"), "fetch tasks")
		if !strings.Contains(buf.String(), "[ERROR] fetch tasks: connection refused") {
			t.Errorf("unexpected Error line: %s", buf.String())
		}
	})

	t.Run("Error without error", func(t *testing.T) {
		buf.Reset()
		Error(ctx, nil, "fetch tasks")
		if !strings.Contains(buf.String(), "[ERROR] fetch tasks") {
			t.Errorf("unexpected Error line: %s", buf.String())
		}
	})

	t.Run("Debug with level", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelDebug)
		defer SetLevel(LevelInfo)

		Debug(ctx, "request")
		if !strings.Contains(buf.String(), "[DEBUG] request") {
			t.Errorf("unexpected Debug line: %s", buf.String())
		}
	})

	t.Run("Debug without level", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelInfo)

		Debug(ctx, "dropped")
		if buf.String() != "" {
			t.Errorf("debug line written at LevelInfo: %s", buf.String())
		}
	})
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(LevelDebug)
	defer SetLevel(LevelInfo)

	Debug(context.Background(), "request", "method", "GET", "status", 200, "dangling")
	out := buf.String()
	for _, want := range []string{"[DEBUG] request", "method=GET", "status=200", "dangling=(missing)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
