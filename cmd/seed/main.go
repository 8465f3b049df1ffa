package main

import (
	"context"
	"os"

	"academy/internal/config"
	"academy/internal/db"
	"academy/internal/logger"
	"academy/internal/repository"
	"academy/internal/seed"
)

func main() {
	cfg := config.Load()
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)
	log.Info("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(repository.NewManager(gormDB), log)

	if err := seeder.Roles(ctx); err != nil {
		log.Error("seed roles", "error", err)
		os.Exit(1)
	}
	log.Info("static roles ready")

	if cfg.AdminEmail == "" {
		log.Info("ADMIN_EMAIL not set, skipping administrator")
		return
	}
	if _, err := seeder.Admin(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("seed administrator", "error", err)
		os.Exit(1)
	}
	log.Info("seed completed")
}
