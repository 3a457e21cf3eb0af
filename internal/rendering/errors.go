// Package rendering assembles the HTML pages and fragments of the generated site.
package rendering

import (
	"errors"
	"fmt"
)

// ErrStackUnderflow is returned when a tag is closed with no tag open.
var ErrStackUnderflow = errors.New("markup stack underflow")

// StackUnderflowError reports where in the buffer an unmatched close happened.
type StackUnderflowError struct {
	Offset int
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("close at offset %d: %v", e.Offset, ErrStackUnderflow)
}

func (e *StackUnderflowError) Unwrap() error {
	return ErrStackUnderflow
}

// TemplateError represents an error parsing or executing a page template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
