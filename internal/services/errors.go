package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/diewo77/go-vertrieb/validation"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrLocked         = errors.New("record is locked")
	ErrInvalid        = errors.New("invalid input")
	ErrMissingKuerzel = errors.New("user has no kuerzel")
	ErrBadCredentials = errors.New("invalid email or password")
)

// ValidationError carries per-field messages. It matches ErrInvalid.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}
