package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/booking"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("service stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.NewDb(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database); err != nil {
		return err
	}
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD is empty, admin user not seeded")
	} else if err := db.SeedAdmin(ctx, database, cfg.AdminUsername, cfg.AdminPassword, log); err != nil {
		return err
	}

	outboxRepo := postgresql.NewOutboxTaskRepo()
	engine, err := booking.NewEngine(booking.Deps{
		DB:         database,
		Clients:    postgresql.NewClientRepo(),
		Items:      postgresql.NewItemRepo(),
		Variants:   postgresql.NewVariantRepo(),
		Orders:     postgresql.NewOrderRepo(),
		Payments:   postgresql.NewPaymentRepo(),
		Outbox:     outboxRepo,
		Logger:     log,
		AuditTopic: cfg.KafkaAuditTopic,
	})
	if err != nil {
		return err
	}

	var producer kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewKafkaProducer(cfg.KafkaBrokers, log)
	} else {
		producer = kafka.NewConsoleProducer(log)
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxAttempts:  cfg.OutboxMaxAttempts,
	}, log)

	srv := server.New(engine, postgresql.NewUserRepo(database), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(cfg.HTTPPort)
	})
	g.Go(func() error {
		return publisher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		err := srv.Shutdown(shutdownCtx)
		publisher.Shutdown(shutdownCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("service gracefully stopped")
	return nil
}
