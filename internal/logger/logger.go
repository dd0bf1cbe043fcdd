// Package logger is a small leveled wrapper around the standard log package.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	// LevelInfo is the default: debug lines are dropped.
	LevelInfo
	LevelError
)

var (
	mu    sync.RWMutex
	level = LevelInfo
	std   = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

// Debug logs a debug message with optional key/value fields.
func Debug(ctx context.Context, msg string, kv ...any) {
	write(LevelDebug, "[DEBUG] "+msg, kv)
}

// Error logs msg followed by err, if any.
func Error(ctx context.Context, err error, msg string, kv ...any) {
	line := "[ERROR] " + msg
	if err != nil {
		line += ": " + err.Error()
	}
	write(LevelError, line, kv)
}

func write(l Level, line string, kv []any) {
	if !Enabled(l) {
		return
	}
	if len(kv) > 0 {
		line += " " + fields(kv)
	}
	mu.RLock()
	defer mu.RUnlock()
	std.Print(line)
}

// fields renders key/value pairs as key=value; a dangling key gets "(missing)".
func fields(kv []any) string {
	parts := make([]string, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			parts = append(parts, fmt.Sprintf("%v=(missing)", kv[i]))
			break
		}
		parts = append(parts, fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
	}
	return strings.Join(parts, " ")
}
