// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for orchestration failures
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrDispatchFailed   = errors.New("dispatch failed")
	ErrAgentTimeout     = errors.New("agent timed out")
	ErrUnbalancedModes  = errors.New("unbalanced CLI modes")
	ErrMultilineCommand = errors.New("command spans more than one line")
)

// ValidationError represents one or more validation failures
type ValidationError struct {
	Field  string
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Message returns the operator-facing text without the "validation failed" prefix.
func (e *ValidationError) Message() string {
	return strings.Join(e.Errors, "; ")
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// NewFieldError creates a validation error for a single named field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Errors: []string{message}}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}

// DispatchError represents a failed agent invocation
type DispatchError struct {
	Agent    string
	ExitCode int    // -1 when the agent never produced an exit status
	Output   string // tail of the agent's combined output, may be empty
	Err      error
}

func (e *DispatchError) Error() string {
	msg := e.Agent + " agent"
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else {
		msg += " failed"
	}
	if e.Output != "" {
		msg += " (" + e.Output + ")"
	}
	return msg
}

// Unwrap exposes both ErrDispatchFailed and the underlying cause to errors.Is.
func (e *DispatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDispatchFailed}
	}
	return []error{ErrDispatchFailed, e.Err}
}

// NewDispatchError creates a dispatch error with no exit status
func NewDispatchError(agent string, err error) *DispatchError {
	return &DispatchError{Agent: agent, ExitCode: -1, Err: err}
}
