package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/service"
)

// UserHandler serves the caller's own account.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetMe godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}
