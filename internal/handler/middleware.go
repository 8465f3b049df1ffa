package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/errors"
)

// RoleChecker answers whether a user holds a role.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uint, roleName string) (bool, error)
}

// RequireRole only lets callers holding role through. It must run after the
// JWT middleware. Roles are read from the database on every request so a
// revoked role takes effect immediately.
func RequireRole(checker RoleChecker, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := currentClaims(c)
			if err != nil {
				return err
			}
			ok, err := checker.HasRole(c.Request().Context(), claims.UserID, role)
			if err != nil {
				return fail(err)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient privileges",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
