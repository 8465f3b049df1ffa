package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"academy/docs"
	"academy/internal/auth"
	"academy/internal/cache"
	"academy/internal/config"
	"academy/internal/db"
	"academy/internal/handler"
	"academy/internal/logger"
	"academy/internal/mail"
	"academy/internal/metrics"
	"academy/internal/repository"
	"academy/internal/router"
	"academy/internal/service"
	"academy/internal/worker/sweep"
)

// @title Academy API
// @version 1.0
// @description Course publishing site: accounts, password recovery, email confirmation and course access.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Error("database init", "error", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Error("reset database", "error", err)
			os.Exit(1)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unavailable, course title cache disabled until it recovers", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	repos := repository.NewManager(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sender := mail.NewLogSender(cfg.MailFrom, log)
	renderer := mail.NewRenderer()

	tokenService := service.NewTokenService(repos.Tokens(), cfg.TokenValidity, recorder, log)
	guard := service.NewBruteForceGuard(repos, cfg.MaxFailedLogins, recorder, log)
	recoveryService := service.NewRecoveryService(repos, tokenService, sender, renderer, cfg.BaseURL, recorder, log)
	confirmationService := service.NewConfirmationService(repos, tokenService, sender, renderer, cfg.BaseURL, recorder, log)
	authService := service.NewAuthService(service.NewIdentityStore(repos), guard, recoveryService, confirmationService, jwtService, log)
	courseService := service.NewCourseAccessService(repos, cacheClient, recorder, log)
	userService := service.NewUserService(repos.Users())

	if cfg.TokenSweepInterval > 0 {
		go sweep.NewJob(tokenService, log).Start(ctx, cfg.TokenSweepInterval)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	router.Register(e, jwtService, courseService, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, recoveryService, confirmationService),
		User:    handler.NewUserHandler(userService),
		Course:  handler.NewCourseHandler(courseService),
		Metrics: metrics.Handler(reg),

		AuthRate:  rate.Limit(float64(cfg.AuthRatePerMinute) / 60),
		AuthBurst: cfg.AuthBurst,
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	log.Info("server stopped")
}

// swaggerURL builds the docs URL, honouring a SWAGGER_HOST with or without scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
