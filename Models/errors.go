package Models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ValidationError carries a field-to-message map so handlers can return
// field-keyed errors for forms.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, field+": "+message)
	}
	return strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// SchedulingConflictError names the party already holding the slot.
type SchedulingConflictError struct {
	PartyName string
	DateTime  time.Time
	TimeOfDay string
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("%s already has an appointment on %s at %s",
		e.PartyName, e.DateTime.Format("2006-01-02"), e.TimeOfDay)
}

// DataIntegrityError marks an invariant violation, surfaced as a 500 and
// never retried.
type DataIntegrityError struct {
	Detail string
}

func (e *DataIntegrityError) Error() string {
	return "data integrity violation: " + e.Detail
}

func IsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	ok := errors.As(err, &target)
	return target, ok
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsSchedulingConflictError(err error) bool {
	var target *SchedulingConflictError
	return errors.As(err, &target)
}

func IsDataIntegrityError(err error) bool {
	var target *DataIntegrityError
	return errors.As(err, &target)
}
