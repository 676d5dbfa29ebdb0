package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotClaimable  = errors.New("job is not claimable")
	ErrNotCancelable = errors.New("job is not cancelable")
)

// ErrorKind classifies a generation failure so the runner can decide between
// retry, terminal failure and dead-letter routing.
type ErrorKind string

const (
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindTransient     ErrorKind = "transient"
	ErrorKindValidation    ErrorKind = "validation"
	ErrorKindInternal      ErrorKind = "internal"
)

// ConfigurationError reports a dictionary or lookup inconsistency. It is
// fatal and never retried: re-running the pipeline can not fix bad
// configuration.
type ConfigurationError struct {
	msg string
}

// NewConfigurationError formats a new configuration error.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string { return e.msg }

// ValidationError reports a malformed opportunity input. It is surfaced to
// the caller and fails the job without consuming a retry.
type ValidationError struct {
	msg string
}

// NewValidationError formats a new validation error.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// TransientError wraps a failure of an external dependency that is expected
// to succeed on retry.
type TransientError struct {
	msg string
	err error
}

// NewTransientError wraps err as retryable.
func NewTransientError(msg string, err error) *TransientError {
	return &TransientError{msg: msg, err: err}
}

func (e *TransientError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *TransientError) Unwrap() error { return e.err }

// Classify maps an error onto its retry-routing kind. Unknown errors are
// treated as internal and retried like transient ones.
func Classify(err error) ErrorKind {
	var cfg *ConfigurationError
	if errors.As(err, &cfg) {
		return ErrorKindConfiguration
	}
	var val *ValidationError
	if errors.As(err, &val) {
		return ErrorKindValidation
	}
	var tr *TransientError
	if errors.As(err, &tr) {
		return ErrorKindTransient
	}
	return ErrorKindInternal
}

// Retryable reports whether the runner may re-attempt after err.
func Retryable(err error) bool {
	switch Classify(err) {
	case ErrorKindConfiguration, ErrorKindValidation:
		return false
	default:
		return true
	}
}
