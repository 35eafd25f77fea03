package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrValidationFailed     = errors.New("validation failed")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-level failures so a caller can correct every
// bad field in one round trip. It is rejected before any write happens.
type ValidationErrors struct {
	Fields []FieldError
}

func (v *ValidationErrors) Error() string {
	if len(v.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(parts, "; "))
}

func (v *ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// Add appends a field failure and returns the receiver for chaining.
func (v *ValidationErrors) Add(field, message string) *ValidationErrors {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
	return v
}

// Empty reports whether no failures were collected.
func (v *ValidationErrors) Empty() bool {
	return len(v.Fields) == 0
}

// ErrOrNil returns the collected error, or nil when nothing failed.
func (v *ValidationErrors) ErrOrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}
