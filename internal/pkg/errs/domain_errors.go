package errs

import (
	"fmt"

	cr "github.com/cockroachdb/errors"
)

// Error classes shared by every layer. Concrete errors are marked with one of
// these so callers can branch on the class with Is.
var (
	ErrValidation            = cr.New("validation error")
	ErrBusinessRuleViolation = cr.New("business rule violation")
	ErrConflict              = cr.New("conflict")
	ErrNotFound              = cr.New("not found")
)

// ValidationError reports malformed input together with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Rule creates a business rule violation. Intended for package level sentinels.
func Rule(msg string) error {
	return cr.Mark(cr.NewWithDepth(1, msg), ErrBusinessRuleViolation)
}

func Conflict(msg string) error {
	return cr.Mark(cr.NewWithDepth(1, msg), ErrConflict)
}

func NotFound(msg string) error {
	return cr.Mark(cr.NewWithDepth(1, msg), ErrNotFound)
}

func IsValidation(err error) bool {
	return Is(err, ErrValidation)
}

func IsBusinessRule(err error) bool {
	return Is(err, ErrBusinessRuleViolation)
}

func IsConflict(err error) bool {
	return Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if cr.As(err, &v) {
		return v, true
	}
	return nil, false
}
