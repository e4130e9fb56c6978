package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/glovo-marketplace/internal/config"
	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/handler"
	"github.com/iliyamo/glovo-marketplace/internal/logger"
	"github.com/iliyamo/glovo-marketplace/internal/middleware"
	"github.com/iliyamo/glovo-marketplace/internal/queue"
	"github.com/iliyamo/glovo-marketplace/internal/repository"
	"github.com/iliyamo/glovo-marketplace/internal/router"
	"github.com/iliyamo/glovo-marketplace/internal/service"
	"github.com/iliyamo/glovo-marketplace/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBMigrate {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			log.Fatal("schema migration failed", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: response cache disabled, login limiter runs in-process")
	} else {
		defer rdb.Close()
	}

	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	resources := router.NewResources(db)
	if cfg.RabbitMQURL != "" {
		resources.Order.OnWrite = service.NewOrderPublisher(cfg.RabbitMQURL, log).OrderHook()
		go func() {
			if err := queue.StartOrderConsumer(ctx, cfg.RabbitMQURL, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("order consumer stopped", zap.Error(err))
			}
		}()
	} else {
		log.Info("RABBITMQ_URL not set: order events disabled")
	}

	go service.NewTokenSweeper(tokens, cfg.CleanupEvery, log).Run(ctx)

	e := router.New(router.Deps{
		Logger:       log,
		DB:           db,
		Issuer:       issuer,
		Auth:         handler.NewAuthHandler(users, tokens, issuer, cfg.BcryptCost),
		Social:       handler.NewSocialHandler(cfg.OAuth, cfg.IsProduction()),
		Resources:    resources,
		LoginLimiter: middleware.NewTokenBucket("login", config.LoadLoginRateLimitConfig(), rdb),
		Cache:        middleware.NewResponseCache(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
