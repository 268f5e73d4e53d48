package inference

import (
	"errors"
	"fmt"
)

// unavailableError signals that the service is not Ready (map to 503).
type unavailableError struct {
	state  State
	reason string
}

func (e unavailableError) Error() string {
	if e.reason == "" {
		return fmt.Sprintf("model not available (state %s)", e.state)
	}
	return fmt.Sprintf("model not available (state %s): %s", e.state, e.reason)
}

// IsServiceUnavailable reports whether err means no model is loaded.
func IsServiceUnavailable(err error) bool {
	var e unavailableError
	return errors.As(err, &e)
}

// validationError names the offending input field (map to 400).
type validationError struct {
	field string
	msg   string
}

func (e validationError) Error() string { return e.field + " " + e.msg }

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	var e validationError
	return errors.As(err, &e)
}

// ValidationField returns the field a validation error refers to.
func ValidationField(err error) (string, bool) {
	var e validationError
	if errors.As(err, &e) {
		return e.field, true
	}
	return "", false
}

// inferenceError wraps a failure raised by the classifier itself (map to 500).
type inferenceError struct{ err error }

func (e inferenceError) Error() string { return "inference failed: " + e.err.Error() }

func (e inferenceError) Unwrap() error { return e.err }

// IsInference reports whether err came from running the classifier.
func IsInference(err error) bool {
	var e inferenceError
	return errors.As(err, &e)
}

// ErrServiceUnavailable constructs an unavailable error outside Predict.
func ErrServiceUnavailable(reason string) error {
	return unavailableError{state: StateUnloaded, reason: reason}
}

// ErrValidation constructs a validation error for field.
func ErrValidation(field, msg string) error { return validationError{field: field, msg: msg} }

// ErrInference wraps err as an inference failure.
func ErrInference(err error) error { return inferenceError{err: err} }
