package types

import (
	"errors"
	"fmt"
)

// ValidationError marks a structurally invalid inbound record. The
// record is routed to the failure topic and committed.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// ComputeError marks a scoring failure over a record that passed
// validation. Like a validation error, it fails only the one record.
type ComputeError struct {
	Stage   string
	Message string
}

func NewComputeError(stage, message string) *ComputeError {
	return &ComputeError{Stage: stage, Message: message}
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute failed in %s: %s", e.Stage, e.Message)
}

func IsComputeError(err error) bool {
	var target *ComputeError
	return errors.As(err, &target)
}

// TransportError marks a broker-level failure. Unlike the per-record
// errors it escapes the processing loop and triggers a reconnect.
type TransportError struct {
	Op  string
	Err error
}

func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
