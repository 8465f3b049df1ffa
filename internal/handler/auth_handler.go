package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/errors"
	"academy/internal/model"
	"academy/internal/service"
)

// forgotPasswordMessage is returned whether or not the email is registered.
const forgotPasswordMessage = "if the address belongs to an account, a recovery email is on its way"

// AuthHandler handles authentication and account recovery endpoints.
type AuthHandler struct {
	authService         service.AuthService
	recoveryService     service.RecoveryService
	confirmationService service.ConfirmationService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	authService service.AuthService,
	recoveryService service.RecoveryService,
	confirmationService service.ConfirmationService,
) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		recoveryService:     recoveryService,
		confirmationService: confirmationService,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts password recovery.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest redeems a recovery token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ConfirmEmailRequest redeems a confirmation token.
type ConfirmEmailRequest struct {
	Token string `json:"token" query:"token" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user,omitempty"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	accessToken, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		User:        user,
	})
}

// ForgotPassword godoc
// @Summary Request a password recovery email
// @Description Always answers 202 so callers cannot tell which addresses are registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 202 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.recoveryService.ForgottenPassword(c.Request().Context(), req.Email); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusAccepted, MessageResponse{Message: forgotPasswordMessage})
}

// ResetPassword godoc
// @Summary Set a new password with a recovery token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := h.recoveryService.UpdatePassword(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(errors.ErrTokenInvalid)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Tags auth
// @Produce json
// @Param token query string true "Confirmation token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/confirm-email [get]
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	var req ConfirmEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := h.confirmationService.ConfirmEmail(c.Request().Context(), req.Token)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(errors.ErrTokenInvalid)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "email confirmed"})
}
