package commands

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID returns the task id argument of done, rm, edit and attachment.
// The id is the number shown on the task card; it must be all digits and
// exactly one id is accepted.
func ParseTaskID(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrTaskIDRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", ErrTaskIDRequired
	}
	if !isAllDigits(id) {
		return "", fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}

// isAllDigits returns true if s is non-empty and contains only ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
