// Package apperr defines the error taxonomy shared by every command.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotesDirMissing = errors.New("notes directory not found")
	ErrIndexOutOfRange = errors.New("note index out of range")
	ErrNotConfigured   = errors.New("not configured")
	ErrParse           = errors.New("parse error")
)

// NotConfigured reports a missing setting together with a hint on how to
// provide it. The result matches ErrNotConfigured via errors.Is.
func NotConfigured(setting, hint string) error {
	return fmt.Errorf("%w: no %s set; %s", ErrNotConfigured, setting, hint)
}
