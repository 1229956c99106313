package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cvtrack/internal/common"
)

// Field names a record attribute that may be edited in place. Identity fields
// (id, date, company) are not Fields; they change only through a rename.
type Field string

const (
	FieldCountry    Field = "country"
	FieldStatus     Field = "status"
	FieldRoleTitle  Field = "role_title"
	FieldFolderName Field = "folder_name"
)

var fieldAliases = map[string]Field{
	"country":     FieldCountry,
	"status":      FieldStatus,
	"role_title":  FieldRoleTitle,
	"roletitle":   FieldRoleTitle,
	"role":        FieldRoleTitle,
	"folder_name": FieldFolderName,
	"foldername":  FieldFolderName,
	"folder":      FieldFolderName,
}

// ParseField resolves a user supplied field name.
func ParseField(s string) (Field, error) {
	if f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidField, s)
}
