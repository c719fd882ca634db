// Package errors provides structured error handling for pkgdex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Catalog/IO errors
//   - 4XX: Usage errors (caller mistakes, fail fast, no catalog access)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryCatalog indicates catalog and disk I/O errors.
	CategoryCatalog Category = "CATALOG"
	// CategoryUsage indicates caller mistakes in the query or arguments.
	CategoryUsage Category = "USAGE"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates an unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed.
	SeverityError Severity = "ERROR"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_102_CONFIG_INVALID"

	// Catalog errors (200-299)
	ErrCodeCatalogUnavailable = "ERR_201_CATALOG_UNAVAILABLE"
	ErrCodeCatalogCorrupt     = "ERR_202_CATALOG_CORRUPT"
	ErrCodeCatalogLocked      = "ERR_203_CATALOG_LOCKED"

	// Usage errors (400-499)
	ErrCodeEmptyQuery         = "ERR_401_EMPTY_QUERY"
	ErrCodeAmbiguousRedirect  = "ERR_402_AMBIGUOUS_REDIRECT"
	ErrCodeInvalidVersionSpec = "ERR_403_INVALID_VERSION_SPEC"
	ErrCodeInvalidInput       = "ERR_404_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts the category from an error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "401" from "ERR_401_EMPTY_QUERY".
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryCatalog
	case '4':
		return CategoryUsage
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on the error code.
func severityFromCode(code string) Severity {
	if code == ErrCodeCatalogCorrupt {
		return SeverityFatal
	}
	return SeverityError
}
