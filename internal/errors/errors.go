package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure. Handlers map kinds to HTTP status codes
// instead of matching on message text.
type Kind string

const (
	// KindValidation means the input was malformed or missing fields.
	KindValidation Kind = "VALIDATION_FAILED"
	// KindNotFound means a referenced listing, deal or user is absent.
	KindNotFound Kind = "NOT_FOUND"
	// KindForbidden means the actor lacks the relationship the operation requires.
	KindForbidden Kind = "FORBIDDEN"
	// KindInvalidState means the target is not in a state permitting the transition.
	KindInvalidState Kind = "INVALID_STATE"
	// KindConflict means the operation would duplicate an existing record.
	KindConflict Kind = "CONFLICT"
	// KindUnauthenticated means no valid identity was supplied.
	KindUnauthenticated Kind = "UNAUTHENTICATED"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error with a machine-readable kind and a human message.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds a validation error with per-field details.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound builds a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden builds an authorization error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// InvalidState builds a state-transition error.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Conflict builds a duplicate-record error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthenticated builds a missing-identity error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// As unwraps err into *Error if it carries one.
func As(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	if domainErr, ok := As(err); ok {
		return domainErr.Kind == kind
	}
	return false
}

// MapToHTTP maps a domain error to an HTTP status code and machine code.
// Unrecognized errors map to 500 without leaking internals.
func MapToHTTP(err error) (status int, code string, message string) {
	domainErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
	switch domainErr.Kind {
	case KindValidation:
		return http.StatusBadRequest, string(KindValidation), domainErr.Message
	case KindNotFound:
		return http.StatusNotFound, string(KindNotFound), domainErr.Message
	case KindForbidden:
		return http.StatusForbidden, string(KindForbidden), domainErr.Message
	case KindInvalidState:
		return http.StatusConflict, string(KindInvalidState), domainErr.Message
	case KindConflict:
		return http.StatusConflict, string(KindConflict), domainErr.Message
	case KindUnauthenticated:
		return http.StatusUnauthorized, string(KindUnauthenticated), domainErr.Message
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
