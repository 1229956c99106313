package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrNotFound, ErrRenameConflict, ErrInvalidField, ErrInvalidStatus, ErrEmptyCompany, ErrInvalidDate} {
		wrapped := fmt.Errorf("op failed: %w", sentinel)
		if !errors.Is(wrapped, sentinel) {
			t.Fatalf("errors.Is(%v, %v) = false", wrapped, sentinel)
		}
	}
}

func TestSentinels_AreDistinct(t *testing.T) {
	if errors.Is(ErrNotFound, ErrRenameConflict) {
		t.Fatalf("ErrNotFound must not match ErrRenameConflict")
	}
}
