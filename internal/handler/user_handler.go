package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "dealhub/internal/errors"
	"dealhub/internal/middleware"
	"dealhub/internal/service"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=100"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)

	users, err := h.userService.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, "Users retrieved successfully!", users, len(users))
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	user, err := h.userService.GetUser(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User retrieved successfully!", user)
}

// UpdateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Updates"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, validationError(err))
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, service.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User updated successfully!", user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	if err := h.userService.DeleteUser(c.Request().Context(), id, actor); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User deleted successfully!", nil)
}
