package commands

import (
	"testing"
)

func TestParseTaskID_Numeric(t *testing.T) {
	id, err := ParseTaskID([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "5" {
		t.Errorf("expected id 5, got %q", id)
	}
}

func TestParseTaskID_TrimsSpace(t *testing.T) {
	id, err := ParseTaskID([]string{" 12 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "12" {
		t.Errorf("expected id 12, got %q", id)
	}
}

func TestParseTaskID_Missing(t *testing.T) {
	for _, args := range [][]string{nil, {""}, {"  "}} {
		_, err := ParseTaskID(args)
		if err != ErrTaskIDRequired {
			t.Errorf("%q: expected ErrTaskIDRequired, got %v", args, err)
		}
	}
}

func TestParseTaskID_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a1"}, "invalid task id: a1"},
		{[]string{"-3"}, "invalid task id: -3"},
		{[]string{"1.5"}, "invalid task id: 1.5"},
		{[]string{"1", "2"}, "unexpected argument: 2"},
	}
	for _, tt := range tests {
		_, err := ParseTaskID(tt.args)
		if err == nil {
			t.Errorf("%q: expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.args, tt.want, err.Error())
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := map[string]bool{
		"":    false,
		"0":   true,
		"123": true,
		"12a": false,
		"١٢":  false,
	}
	for in, want := range tests {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
