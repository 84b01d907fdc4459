package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"invalid state", InvalidState("too late"), http.StatusConflict, "INVALID_STATE"},
		{"conflict", Conflict("duplicate"), http.StatusConflict, "CONFLICT"},
		{"unauthenticated", Unauthenticated("who?"), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := MapToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, code)
		})
	}
}

func TestMapToHTTP_DoesNotLeakInternals(t *testing.T) {
	_, _, message := MapToHTTP(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, "internal server error", message)
}

func TestIsKind_Wrapped(t *testing.T) {
	err := fmt.Errorf("accept deal: %w", InvalidState("only pending deals can be accepted"))

	assert.True(t, IsKind(err, KindInvalidState))
	assert.False(t, IsKind(err, KindForbidden))

	domainErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "only pending deals can be accepted", domainErr.Message)
}

func TestValidation_Fields(t *testing.T) {
	err := Validation("validation failed",
		FieldError{Field: "title", Message: "title is required"},
		FieldError{Field: "price", Message: "price must be a valid decimal"},
	)

	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "validation failed", err.Error())
}
