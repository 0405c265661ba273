package errors

import (
	"errors"
	"fmt"
	"strings"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainValidationError indicates malformed input, including a rejected import
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"

	// DomainBusinessRuleError indicates a business rule violation
	DomainBusinessRuleError DomainErrorType = "BUSINESS_RULE_ERROR"

	// DomainNotFoundError indicates a resource was not found
	DomainNotFoundError DomainErrorType = "NOT_FOUND"

	// DomainInternalError indicates a failure that is not the caller's fault
	DomainInternalError DomainErrorType = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type    DomainErrorType        `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// Is matches on type and code so that fresh instances compare equal to the
// sentinels declared below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error type to an HTTP status code
func (e *DomainError) StatusCode() int {
	switch e.Type {
	case DomainValidationError:
		return 400
	case DomainNotFoundError:
		return 404
	case DomainBusinessRuleError:
		return 422
	default:
		return 500
	}
}

// Sentinels. Never attach details to these directly: use the constructors,
// which return a fresh copy that still satisfies errors.Is.
var (
	ErrEngineNotFound = NewDomainError(
		DomainNotFoundError,
		"ENGINE_NOT_FOUND",
		"The requested engine does not exist",
	)

	ErrVersionNotFound = NewDomainError(
		DomainNotFoundError,
		"VERSION_NOT_FOUND",
		"The requested version does not exist",
	)

	ErrEngineNameRequired = NewDomainError(
		DomainValidationError,
		"ENGINE_NAME_REQUIRED",
		"Engine name cannot be empty",
	)

	ErrEngineNameTooLong = NewDomainError(
		DomainValidationError,
		"ENGINE_NAME_TOO_LONG",
		"Engine name exceeds maximum length",
	)

	ErrValidityOrderViolation = NewDomainError(
		DomainBusinessRuleError,
		"VALIDITY_ORDER_VIOLATION",
		"Validity date must be later than the previous version's effective date",
	)

	ErrInvalidValidityDate = NewDomainError(
		DomainValidationError,
		"INVALID_VALIDITY_DATE",
		"Validity date must be a calendar date in YYYY-MM-DD format",
	)

	ErrInvalidSaveMode = NewDomainError(
		DomainValidationError,
		"INVALID_SAVE_MODE",
		"Save mode must be either track or overwrite",
	)

	ErrSelfLink = NewDomainError(
		DomainBusinessRuleError,
		"SELF_LINK",
		"An entry cannot link to the engine that owns it",
	)

	ErrSectionNotLinkable = NewDomainError(
		DomainValidationError,
		"SECTION_NOT_LINKABLE",
		"Only statistical and external engine entries can link to engines",
	)

	ErrNoPreviousVersion = NewDomainError(
		DomainBusinessRuleError,
		"NO_PREVIOUS_VERSION",
		"The initial version has no previous version to compare with",
	)

	ErrInvalidRequest = NewDomainError(
		DomainValidationError,
		"INVALID_REQUEST",
		"The request could not be understood",
	)

	ErrConfirmationRequired = NewDomainError(
		DomainValidationError,
		"CONFIRMATION_REQUIRED",
		"This operation cannot be undone and must be confirmed",
	)

	ErrInvalidCatalog = NewDomainError(
		DomainValidationError,
		"INVALID_CATALOG",
		"Imported catalog does not have the expected structure",
	)
)

// NewEngineNotFound reports an unknown engine id
func NewEngineNotFound(engineID string) *DomainError {
	return clone(ErrEngineNotFound).
		WithDetail("engine_id", engineID)
}

// NewVersionNotFound reports an unknown version id within an engine
func NewVersionNotFound(engineID, versionID string) *DomainError {
	return clone(ErrVersionNotFound).
		WithDetail("engine_id", engineID).
		WithDetail("version_id", versionID)
}

// NewValidityOrderViolation reports a validity date that does not strictly
// follow the previous version's effective date.
func NewValidityOrderViolation(requested, previous string) *DomainError {
	err := clone(ErrValidityOrderViolation).
		WithDetail("validity_date", requested).
		WithDetail("previous_effective_date", previous)
	err.Message = fmt.Sprintf("Validity date %s must be later than the previous version's effective date %s", requested, previous)
	return err
}

// NewInvalidValidityDate reports an unparseable validity date
func NewInvalidValidityDate(value string, cause error) *DomainError {
	return clone(ErrInvalidValidityDate).
		WithDetail("value", value).
		WithCause(cause)
}

// NewEngineNameTooLong reports a name longer than the configured maximum
func NewEngineNameTooLong(maxLength int) *DomainError {
	return clone(ErrEngineNameTooLong).
		WithDetail("max_length", maxLength)
}

// NewInvalidSaveMode reports an unknown save mode
func NewInvalidSaveMode(mode string) *DomainError {
	return clone(ErrInvalidSaveMode).
		WithDetail("mode", mode)
}

// NewSelfLink reports an entry pointing at its own engine
func NewSelfLink(engineID, section, entryName string) *DomainError {
	err := clone(ErrSelfLink).
		WithDetail("engine_id", engineID).
		WithDetail("section", section).
		WithDetail("entry", entryName)
	err.Message = fmt.Sprintf("Entry %q in %s cannot link to its own engine", entryName, section)
	return err
}

// NewSectionNotLinkable reports a link request on a plain collection
func NewSectionNotLinkable(section string) *DomainError {
	return clone(ErrSectionNotLinkable).
		WithDetail("section", section)
}

// NewNoPreviousVersion reports a comparison requested against the initial version
func NewNoPreviousVersion(engineID, versionID string) *DomainError {
	return clone(ErrNoPreviousVersion).
		WithDetail("engine_id", engineID).
		WithDetail("version_id", versionID)
}

// NewInvalidCatalog reports a structural problem in an imported catalog.
// path locates the offending element, record is the element itself.
func NewInvalidCatalog(path, reason string, record interface{}) *DomainError {
	err := clone(ErrInvalidCatalog).
		WithDetail("path", path).
		WithDetail("reason", reason)
	if record != nil {
		err.WithDetail("record", record)
	}
	err.Message = fmt.Sprintf("Import rejected at %s: %s", path, reason)
	return err
}

// NewInvalidRequest reports a malformed request body or parameter
func NewInvalidRequest(message string, cause error) *DomainError {
	err := clone(ErrInvalidRequest)
	err.Message = message
	if cause != nil {
		err.WithCause(cause)
	}
	return err
}

// NewConfirmationRequired reports an irreversible operation requested
// without explicit confirmation
func NewConfirmationRequired(operation string) *DomainError {
	return clone(ErrConfirmationRequired).
		WithDetail("operation", operation)
}

func clone(sentinel *DomainError) *DomainError {
	return NewDomainError(sentinel.Type, sentinel.Code, sentinel.Message)
}

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*DomainError, 0),
	}
}

// Add adds a validation error
func (v *ValidationErrors) Add(field string, message string) {
	err := NewDomainError(DomainValidationError, "FIELD_VALIDATION_ERROR", message).
		WithDetail("field", field)
	v.Errors = append(v.Errors, err)
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
}

// Is lets errors.Is see through the collection to its members
func (v *ValidationErrors) Is(target error) bool {
	for _, err := range v.Errors {
		if err.Is(target) {
			return true
		}
	}
	return false
}

// ToMap converts validation errors to a map for JSON serialization
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)

	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}

	return result
}

// AsDomainError extracts a DomainError from an error chain. A ValidationErrors
// collection yields its first member.
func AsDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) && validationErrs.HasErrors() {
		return validationErrs.Errors[0]
	}
	return nil
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	d := AsDomainError(err)
	return d != nil && d.Type == DomainNotFoundError
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	d := AsDomainError(err)
	return d != nil && d.Type == DomainValidationError
}
