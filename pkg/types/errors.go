package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrOrderExists      = errors.New("order id already recorded")
	ErrDraftNotFound    = errors.New("draft not found")
	ErrDraftLocked      = errors.New("draft is locked by another submission")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrAlreadySubmitted = errors.New("draft already submitted")
	ErrReadOnlyField    = errors.New("field is read-only")
	ErrUnknownField     = errors.New("unknown section/field combination")
	ErrCategoryRequired = errors.New("section requires an equipment category")
)

// ValidationError lists every field path that failed validation, keyed by
// path with a user facing message.
type ValidationError struct {
	Fields map[string]string
	order  []string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(path, message string) {
	if _, ok := e.Fields[path]; !ok {
		e.order = append(e.order, path)
	}
	e.Fields[path] = message
}

func (e *ValidationError) Has(path string) bool {
	_, ok := e.Fields[path]
	return ok
}

// Paths returns the failing field paths in the order they were added.
func (e *ValidationError) Paths() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.order, ", "))
}

// PersistenceError wraps a failure of the storage boundary. The draft that
// produced it is still intact and can be submitted again.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
