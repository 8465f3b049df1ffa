package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"academy/internal/auth"
	"academy/internal/errors"
	"academy/internal/handler"
	"academy/internal/model"
)

// Handlers bundles everything Register mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Course  *handler.CourseHandler
	Metrics http.Handler

	// AuthRate throttles the public auth endpoints per client IP. Zero disables it.
	AuthRate  rate.Limit
	AuthBurst int
}

// Register wires routes and middleware.
func Register(e *echo.Echo, jwtService *auth.JWTService, roles handler.RoleChecker, h Handlers) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Links in outgoing emails land here.
	e.GET("/user/confirm-email", h.Auth.ConfirmEmail)

	api := e.Group("/api")

	// Public routes
	public := api.Group("/auth")
	if h.AuthRate > 0 {
		public.Use(authRateLimiter(h.AuthRate, h.AuthBurst))
	}
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/forgot-password", h.Auth.ForgotPassword)
	public.POST("/reset-password", h.Auth.ResetPassword)
	public.GET("/confirm-email", h.Auth.ConfirmEmail)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextKeyUser,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHORIZED",
			})
		},
	}))

	secured.GET("/me", h.User.GetMe)

	secured.POST("/courses/activate", h.Course.Activate)
	secured.GET("/courses/:title/pages/:page", h.Course.ViewPage)
	secured.POST("/courses/:title/pages/:page/advance", h.Course.Advance)

	admin := secured.Group("/admin", handler.RequireRole(roles, model.RoleAdmin))
	admin.POST("/courses", h.Course.CreateCourse)
	admin.PUT("/courses/:id", h.Course.RenameCourse)
	admin.DELETE("/courses/:id", h.Course.DeleteCourse)
	admin.POST("/courses/:id/pages", h.Course.AddPage)
	admin.POST("/courses/:id/codes", h.Course.IssueCode)
}

func authRateLimiter(r rate.Limit, burst int) echo.MiddlewareFunc {
	if burst < 1 {
		burst = 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      r,
		Burst:     burst,
		ExpiresIn: 10 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "unable to identify client",
				Code:  "FORBIDDEN",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
