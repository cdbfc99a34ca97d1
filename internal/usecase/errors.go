package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRateLimited           = errors.New("rate limit exceeded")
	ErrMalformedRecord       = errors.New("malformed record")
)

// MalformedRecordError describes one row that could not be normalized.
type MalformedRecordError struct {
	MatchID int64
	Field   string
	Err     error
}

func (e *MalformedRecordError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: match=%d field=%s", ErrMalformedRecord, e.MatchID, e.Field)
	}
	return fmt.Sprintf("%s: match=%d field=%s: %v", ErrMalformedRecord, e.MatchID, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedRecord}
	}
	return []error{ErrMalformedRecord, e.Err}
}
