package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vidstream/accounts/internal/adapters/auth"
	handler "github.com/vidstream/accounts/internal/adapters/handler/http"
	repo "github.com/vidstream/accounts/internal/adapters/repository/postgres"
	"github.com/vidstream/accounts/internal/config"
	"github.com/vidstream/accounts/internal/core/services"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewUserRepository(db)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	codec := auth.NewJWTCodec(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	sessionSvc := services.NewSessionService(userRepo, hasher, codec)
	userSvc := services.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(sessionSvc, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userHandler := handler.NewUserHandler(userSvc)
	guard := handler.NewAuthGuard(codec, userSvc)
	limiter := handler.NewClientRateLimiter(cfg.LoginRatePerMinute)
	health := handler.NewHealthHandler(db)

	router := handler.NewHandler(authHandler, userHandler, guard, limiter, health)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
