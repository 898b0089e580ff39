package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stars_raffle_bot/internal/api"
	"stars_raffle_bot/internal/bot"
	"stars_raffle_bot/internal/middleware"
	"stars_raffle_bot/internal/repository"
	"stars_raffle_bot/internal/service"
	"stars_raffle_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	ledgerService := service.NewLedgerService(repo)
	raffleService := service.NewRaffleService(repo)

	b, err := bot.New(cfg.Telegram.BotToken, ledgerService, raffleService, cfg.Telegram.AdminIDs)
	if err != nil {
		zapLogger.Fatal("Failed to initialize bot", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	auth := middleware.NewAuthorization(cfg.Server.AdminToken)

	a := router.Group("/api/v1")
	api.NewRaffleRoutes(a, ledgerService, raffleService, auth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		zapLogger.Info("Starting admin api", zap.String("addr", addr))
		if err := router.Run(addr); err != nil {
			zapLogger.Fatal("Failed to start admin api", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Fatal("Bot stopped", zap.Error(err))
	}

	zapLogger.Info("Shutting down")
}
