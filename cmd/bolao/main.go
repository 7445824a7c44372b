package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/bolao/internal/bot"
	"github.com/omarshaarawi/bolao/internal/config"
	"github.com/omarshaarawi/bolao/internal/repository"
	"github.com/omarshaarawi/bolao/internal/repository/file"
	"github.com/omarshaarawi/bolao/internal/repository/memory"
	"github.com/omarshaarawi/bolao/internal/repository/redis"
	"github.com/omarshaarawi/bolao/internal/repository/sqlite"
	"github.com/omarshaarawi/bolao/internal/scheduler"
	"github.com/omarshaarawi/bolao/internal/service"
	"github.com/omarshaarawi/bolao/internal/session"
	"github.com/omarshaarawi/bolao/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := openRepository(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("Error closing store", "error", err)
		}
	}()

	poolStore := store.NewStore(kv, cfg.Store.KeyPrefix)
	poolService, err := service.NewPoolService(ctx, poolStore, session.PlaintextGate{})
	if err != nil {
		return err
	}
	handler := bot.NewHandler(poolService)

	if cfg.TelegramBot.Enabled() {
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, handler)
		if err != nil {
			return err
		}

		sched, err := scheduler.NewScheduler(poolService, cfg.Schedule.RankingCron, cfg.Schedule.Timezone, telegramBot.SendMessage)
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			err := sched.Stop()
			if err != nil {
				slog.Error("Error stopping scheduler", "error", err)
			}
		}()

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	}

	slog.Info("Pool ready", "backend", cfg.Store.Backend)
	if err := bot.NewConsole(os.Stdin, os.Stdout, handler).Start(ctx); err != nil {
		return err
	}

	slog.Info("Shutting down gracefully...")
	return nil
}

func openRepository(cfg config.Store) (repository.KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewRepository(), nil
	case config.BackendFile:
		return file.NewRepository(cfg.DataDir)
	case config.BackendSQLite:
		return sqlite.NewRepository(cfg.SQLitePath)
	case config.BackendRedis:
		return redis.NewRepository(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
