// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"telegram-calorie-diary/internal/config"
	"telegram-calorie-diary/internal/domain/ports/adapter"
	"telegram-calorie-diary/internal/domain/ports/repository"
	pg "telegram-calorie-diary/internal/infra/db/postgres"
	"telegram-calorie-diary/internal/infra/logging"
	"telegram-calorie-diary/internal/infra/metrics"
	red "telegram-calorie-diary/internal/infra/redis"
	"telegram-calorie-diary/internal/infra/registry"
	"telegram-calorie-diary/internal/infra/sched"
	"telegram-calorie-diary/internal/infra/store"
	tele "telegram-calorie-diary/internal/infra/telegram"
	"telegram-calorie-diary/internal/infra/web"
	"telegram-calorie-diary/internal/infra/worker"
	"telegram-calorie-diary/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (noop transport, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.Register()

	// ---- Ledger store ----
	var ledgers repository.LedgerRepository
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Storage.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		repo := pg.NewPostgresLedgerRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("postgres: %v", err)
		}
		ledgers = repo
	default:
		ledgers, err = store.NewFileLedgerRepository(cfg.Storage.Dir)
		if err != nil {
			log.Fatalf("ledger store: %v", err)
		}
	}

	// ---- Reminder registry ----
	var reg repository.ReminderRegistry
	if cfg.Registry.Driver == "redis" {
		cli, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer cli.Close()
		reg = red.NewRegistry(cli)
	} else {
		reg = registry.NewMemory()
	}

	// ---- Use cases, executor, worker pool ----
	diaryUC := usecase.NewDiaryUseCase(ledgers, reg, logger)
	if err := diaryUC.RebuildRegistry(ctx); err != nil {
		log.Fatalf("registry rebuild: %v", err)
	}
	exec := usecase.NewExecutor(diaryUC, logger)
	pool := worker.NewPool(cfg.Bot.Workers, cfg.Bot.QueueCapacity, exec, logger)
	pool.Start(ctx)

	// ---- Transport ----
	var sender adapter.MessageSender
	if cfg.Runtime.Dev || cfg.Bot.Token == "" {
		sender = tele.NewNoopBot(logger)
		logger.Warn().Msg("running without telegram transport")
	} else {
		bot, err := tele.NewRealBot(&cfg.Bot, pool, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		sender = bot
		go func() {
			if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Reminder scheduler ----
	rem := sched.NewReminderWorker(reg, pool, sender, logger)
	go func() { _ = rem.Run(ctx) }()

	// ---- Ops server ----
	ops := web.NewServer(cfg.Ops.Port, logger)
	go func() {
		if err := ops.Start(); err != nil {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = ops.Shutdown(context.Background())
	pool.Wait()
}
