package errors

import (
	"fmt"
)

// PkgdexError is the structured error type for pkgdex.
// It provides context for error handling, logging, and user presentation.
type PkgdexError struct {
	// Code is the unique error code (e.g., "ERR_401_EMPTY_QUERY").
	Code string

	// Message is the human-readable error message. User-visible errors
	// always include the offending term or spec fragment.
	Message string

	// Category is the error category (Config, Catalog, Usage, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *PkgdexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PkgdexError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with PkgdexError.
func (e *PkgdexError) Is(target error) bool {
	if t, ok := target.(*PkgdexError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *PkgdexError) WithDetail(key, value string) *PkgdexError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *PkgdexError) WithSuggestion(suggestion string) *PkgdexError {
	e.Suggestion = suggestion
	return e
}

// New creates a new PkgdexError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *PkgdexError {
	return &PkgdexError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a PkgdexError from an existing error.
// The error's message becomes the PkgdexError message.
func Wrap(code string, err error) *PkgdexError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// UsageError creates a caller-mistake error. Usage errors fail fast and
// never trigger a catalog lookup.
func UsageError(code string, message string) *PkgdexError {
	return New(code, message, nil)
}

// CatalogError creates a catalog-access error. Catalog errors are
// surfaced verbatim to the caller; no retry is performed by this core.
func CatalogError(message string, cause error) *PkgdexError {
	return New(ErrCodeCatalogUnavailable, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *PkgdexError {
	return New(ErrCodeInternal, message, cause)
}

// IsUsage checks if an error is a usage (caller mistake) error.
func IsUsage(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*PkgdexError); ok {
		return pe.Category == CategoryUsage
	}
	return false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*PkgdexError); ok {
		return pe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a PkgdexError.
// Returns empty string if not a PkgdexError.
func GetCode(err error) string {
	if pe, ok := err.(*PkgdexError); ok {
		return pe.Code
	}
	return ""
}

// GetCategory extracts the category from a PkgdexError.
// Returns empty string if not a PkgdexError.
func GetCategory(err error) Category {
	if pe, ok := err.(*PkgdexError); ok {
		return pe.Category
	}
	return ""
}
