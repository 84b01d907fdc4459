package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "dealhub/internal/errors"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Count   *int                   `json:"count,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondList(c echo.Context, message string, data interface{}, count int) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Count:   &count,
	})
}

// respondError maps a domain error kind to its HTTP status. Validation errors
// carry their per-field details into the envelope.
func respondError(c echo.Context, err error) error {
	status, _, message := apperrors.MapToHTTP(err)
	resp := Response{
		Success: false,
		Message: message,
	}
	if domainErr, ok := apperrors.As(err); ok {
		resp.Errors = domainErr.Fields
	}
	return c.JSON(status, resp)
}

// validationError converts validator failures into a domain validation error
// with one entry per invalid field.
func validationError(err error) *apperrors.Error {
	var fieldErrors []apperrors.FieldError
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrs {
			fieldErrors = append(fieldErrors, apperrors.FieldError{
				Field:   fieldErr.Field(),
				Message: "failed on the '" + fieldErr.Tag() + "' rule",
			})
		}
	}
	return apperrors.Validation("validation failed", fieldErrors...)
}

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("invalid id")
	}
	return uint(id), nil
}
