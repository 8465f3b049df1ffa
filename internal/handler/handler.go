// Package handler holds the echo HTTP handlers.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/auth"
	"academy/internal/errors"
)

// ContextKeyUser is where the JWT middleware stores the caller's claims.
const ContextKeyUser = "user"

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a service error into an echo error carrying ErrorResponse.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}
	return nil
}

// currentClaims returns the authenticated caller or a 401 error.
func currentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get(ContextKeyUser).(*auth.Claims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing or invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	return claims, nil
}
