package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"karma-bot/internal/bot"
	"karma-bot/internal/config"
	"karma-bot/internal/logger"
	"karma-bot/internal/repository"
	"karma-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLog.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		zapLog.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				zapLog.Error("close database", zap.Error(err))
				return
			}
			zapLog.Info("database closed")
		}()
	}

	userRepo := repository.NewUserRepository(db)

	voteSvc := service.NewVoteService(userRepo, service.NewRatingService(), zapLog)
	currencySvc := service.NewCurrencyService(cfg.CurrencyFeedURL, cfg.CurrencyCodes, zapLog)
	statusSvc := service.NewStatusService(cfg.StatusPageURL, zapLog)

	telegramBot, err := bot.New(cfg.TelegramToken, cfg.BotDebug, userRepo, voteSvc, currencySvc, statusSvc, zapLog)
	if err != nil {
		zapLog.Fatal("create bot", zap.Error(err))
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.CurrencyRefreshEvery, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := currencySvc.Refresh(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			zapLog.Error("refresh currency rates", zap.Error(err))
		}
	}); err != nil {
		zapLog.Fatal("schedule currency refresh", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	zapLog.Info("karma bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLog.Fatal("bot stopped with error", zap.Error(err))
	}
	zapLog.Info("shutdown complete")
}
