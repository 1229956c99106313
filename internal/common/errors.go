// Package common defines sentinel errors shared by the store, repositories and
// CLI layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Store-level errors.
	ErrRenameConflict = errors.New("rename conflict: target id is already in use")
	ErrInvalidField   = errors.New("field cannot be edited")
	ErrInvalidStatus  = errors.New("invalid status")

	// Input validation errors raised by callers of the store.
	ErrEmptyCompany = errors.New("company must not be empty")
	ErrInvalidDate  = errors.New("date must be in DD-MM-YY format")
)
