package skills

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInUse         = errors.New("in use")
	ErrAssigned      = errors.New("already assigned")
)

// ConflictError reports a delete blocked by assignments that still reference the record.
type ConflictError struct {
	Entity     string
	Name       string
	References int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q is assigned to %d employees; remove from %d employees first", e.Entity, e.Name, e.References, e.References)
}

func (e *ConflictError) Unwrap() error {
	return ErrInUse
}
