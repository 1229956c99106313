package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cvtrack/internal/common"
)

// Status is the pipeline state of an application.
type Status string

const (
	StatusUnknown    Status = "Unknown"
	StatusInProcess  Status = "In Process"
	StatusFollowedUp Status = "Followed Up"
	StatusRejected   Status = "Rejected"
)

var statuses = []Status{StatusUnknown, StatusInProcess, StatusFollowedUp, StatusRejected}

// Statuses lists every valid status in pipeline order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus matches s against the known statuses, ignoring case and
// surrounding whitespace. An empty string parses as StatusUnknown.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusUnknown, nil
	}
	for _, v := range statuses {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidStatus, s)
}
