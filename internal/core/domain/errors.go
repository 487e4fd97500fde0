// Package domain defines the core value types of microbench.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes follow the MB-<AREA>-<NNNN> format.
type DomainError struct {
	Code    string // Error code (e.g., "MB-STOR-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Detailf is WithDetails with a format string.
func (e *DomainError) Detailf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// ExitCode maps err to a process exit status in the sysexits(3) style: 64
// for a bad label or configuration, 65 for malformed data, 66 for a missing
// result, 74 for an unusable store and 1 for anything else. A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var de *DomainError
	if !errors.As(err, &de) {
		return 1
	}
	switch de.Code {
	case ErrInvalidLabel.Code, ErrInvalidConfig.Code:
		return 64
	case ErrMalformedData.Code:
		return 65
	case ErrNoResult.Code:
		return 66
	case ErrStorageUnavailable.Code:
		return 74
	}
	return 1
}

var (
	// ErrInvalidLabel indicates a label that cannot be used as a directory name.
	ErrInvalidLabel = NewDomainError("MB-LABL-4000", "invalid label")

	// ErrInvalidConfig indicates a benchmark configuration outside its valid range.
	ErrInvalidConfig = NewDomainError("MB-CONF-4000", "invalid configuration")

	// ErrNoResult indicates that no persisted result exists for a label.
	ErrNoResult = NewDomainError("MB-STOR-4040", "no persisted result")

	// ErrStorageUnavailable indicates that the result store cannot be used.
	ErrStorageUnavailable = NewDomainError("MB-STOR-5000", "result storage unavailable")

	// ErrMalformedData indicates persisted data that failed to decode.
	ErrMalformedData = NewDomainError("MB-DATA-4220", "malformed persisted data")
)
