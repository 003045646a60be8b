package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	appconfig "github.com/sanavida/clinic-booking-platform/internal/config"
	"github.com/sanavida/clinic-booking-platform/internal/events"
	"github.com/sanavida/clinic-booking-platform/internal/notify"
	"github.com/sanavida/clinic-booking-platform/internal/observability/metrics"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel).WithComponent("outbox-worker")
	logger.Info("starting notification outbox worker",
		"env", cfg.Env,
		"batch_size", cfg.OutboxBatchSize,
		"poll_interval", cfg.OutboxPollInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else {
		logger.Warn("sendgrid not configured, using stub sender")
		sender = notify.NewStubEmailSender(logger)
	}

	bookingMetrics := metrics.NewBookingMetrics(nil)
	dispatcher := notify.NewDispatcher(sender, notify.NewContactStore(pool), bookingMetrics, logger)

	deliverer := events.NewDeliverer(events.NewOutboxStore(pool), dispatcher, logger).
		WithBatchSize(int32(cfg.OutboxBatchSize)).
		WithInterval(cfg.OutboxPollInterval)

	deliverer.Start(ctx)

	logger.Info("outbox worker stopped")
}
