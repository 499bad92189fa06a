package apperror

import "errors"

type Code string

const (
	CodeValidation   Code = "validation"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeForbidden    Code = "forbidden"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal"
)

// Error is an application failure the presentation layer knows how to report.
// Fields carries per-field messages for validation failures.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// New returns an error with code and a message safe to show users.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Validation builds a validation error for a single field.
func Validation(field, message string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// ValidationFields builds a validation error from several field messages.
func ValidationFields(fields map[string]string) *Error {
	message := "the given data was invalid"
	if len(fields) == 1 {
		for _, m := range fields {
			message = m
		}
	}
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

// NotFound reports a missing or out of scope record.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Conflict reports a request the current state does not allow.
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// GetCode returns the code of err. Errors from outside the package are CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

// FieldErrors returns the field messages of a validation error, or nil.
func FieldErrors(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
