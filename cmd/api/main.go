package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"it-inventory/internal/core/auth"
	"it-inventory/internal/core/cache"
	"it-inventory/internal/core/config"
	"it-inventory/internal/core/database"
	"it-inventory/internal/core/llm"
	"it-inventory/internal/core/logger"
	"it-inventory/internal/core/server"
	"it-inventory/internal/repo"
	"it-inventory/internal/service"
	"it-inventory/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer database.Close(db)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis 只在限流需要共享计数时连接
	var rc *cache.Cache
	if cfg.RateLimit.Store == "redis" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rc.Close()
		pctx, pcancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(pctx); err != nil {
			log.Warn("redis unreachable, rate limiter will fail open", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		pcancel()
	}

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenTTLHours)*time.Hour,
	)

	recorder := service.NewAuditRecorder(repo.NewAuditRepo(db), log)

	r := router.NewAPIEngine(router.Deps{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  rc,
		Tokens: tokens,
		LLM:    newGenerator(cfg, log),
		Audit:  recorder,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("inventory api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("inventory api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭：先停 HTTP，再等审计写完
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := recorder.Close(ctx); err != nil {
		log.Warn("audit drain incomplete", zap.Error(err))
	}
	log.Info("inventory api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	return logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Service:     cfg.App.Name,
		Env:         cfg.App.Env,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// newGenerator 没有 API key 时聊天只返回兜底文案
func newGenerator(cfg *config.Config, l *zap.Logger) service.Generator {
	if cfg.Gemini.APIKey == "" {
		l.Warn("gemini api key not set, chat will answer with fallback text")
		return llm.Unavailable{}
	}
	g, err := llm.NewGemini(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model,
		time.Duration(cfg.Gemini.TimeoutSec)*time.Second)
	if err != nil {
		l.Error("gemini client init failed", zap.Error(err))
		return llm.Unavailable{}
	}
	return g
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
