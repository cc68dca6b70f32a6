package models

import (
	"errors"
	"fmt"
)

var (
	// ErrActivityNotFound is returned when an activity id does not resolve,
	// or resolves to an activity owned by someone else on creator-scoped reads.
	ErrActivityNotFound = errors.New("activity not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrUserNotFound     = errors.New("user not found")
	// ErrNoAnalytics means the activity exists but has nothing to report.
	ErrNoAnalytics = errors.New("no analytics data found")

	ErrInvalidAnswerType  = errors.New("answer type must be either correct or wrong")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUnauthenticated    = errors.New("unauthorized access")
	ErrInvalidCredentials = errors.New("incorrect user credentials")
	// ErrForbidden is returned when an authenticated user touches an activity
	// they did not create.
	ErrForbidden = errors.New("you are not allowed to modify this activity")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
