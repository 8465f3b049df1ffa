package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked is returned when too many failed logins locked the account.
	ErrAccountLocked = errors.New("account is locked")
	// ErrInvalidPassword is returned when a new password is outside the accepted length.
	ErrInvalidPassword = errors.New("password must be between 6 and 72 bytes")
	// ErrTokenInvalid is returned when a recovery or confirmation token is unknown, expired or already used.
	ErrTokenInvalid = errors.New("token is invalid or expired")
	// ErrCourseTitleExists is returned when a course title or its owner role already exists.
	ErrCourseTitleExists = errors.New("course title already exists")
	// ErrCourseTitleNotFound is returned when a course title is not found.
	ErrCourseTitleNotFound = errors.New("course title not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountLocked):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_LOCKED")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TOKEN_INVALID")
	case errors.Is(err, ErrCourseTitleExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "COURSE_TITLE_EXISTS")
	case errors.Is(err, ErrCourseTitleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COURSE_TITLE_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
