package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"it-inventory/internal/core/config"
	"it-inventory/internal/core/database"
	"it-inventory/internal/core/logger"
	"it-inventory/internal/repo"
	"it-inventory/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	defer database.Close(db)

	if err := repo.Migrate(db); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	err = seed.Run(ctx, repo.NewUserRepo(db), repo.NewCatalogRepo(db), seed.Admin{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}, log)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed done")
}
