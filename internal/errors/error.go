package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryHydration Category = "hydration"
	CategoryProtocol  Category = "protocol"
	CategoryTemplate  Category = "template"
	CategoryConfig    Category = "config"
	CategoryUpload    Category = "upload"
)

// FilamentError is a structured error with a stable code, category, and
// fix suggestion.
type FilamentError struct {
	// Code is a unique error identifier (e.g., "F001").
	Code string

	// Category is the error type (runtime, hydration, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually instance-specific.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FilamentError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FilamentError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds an instance-specific explanation.
func (e *FilamentError) WithDetail(d string) *FilamentError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion, overriding the registered one.
func (e *FilamentError) WithSuggestion(s string) *FilamentError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *FilamentError) Wrap(err error) *FilamentError {
	e.Wrapped = err
	return e
}

// New creates a FilamentError from a registered error code.
func New(code string) *FilamentError {
	template, ok := registry[code]
	if !ok {
		return &FilamentError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FilamentError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a FilamentError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *FilamentError {
	return &FilamentError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under a registered code. Returns nil
// when err is nil.
func FromError(err error, code string) *FilamentError {
	if err == nil {
		return nil
	}
	return New(code).Wrap(err)
}
