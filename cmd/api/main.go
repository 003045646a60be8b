package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sanavida/clinic-booking-platform/internal/api/router"
	"github.com/sanavida/clinic-booking-platform/internal/appointments"
	"github.com/sanavida/clinic-booking-platform/internal/auth"
	appconfig "github.com/sanavida/clinic-booking-platform/internal/config"
	"github.com/sanavida/clinic-booking-platform/internal/events"
	"github.com/sanavida/clinic-booking-platform/internal/observability/metrics"
	"github.com/sanavida/clinic-booking-platform/internal/postal"
	"github.com/sanavida/clinic-booking-platform/internal/slots"
	"github.com/sanavida/clinic-booking-platform/internal/video"
	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

func main() {
	// Load .env for local development; the file is absent in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

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

	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Slot holds are optional: without Redis the booking flow still works,
	// patients just lose the form-filling grace period.
	var holds *slots.HoldStore
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, slot holds disabled", "error", err, "addr", cfg.RedisAddr)
	} else {
		holds = slots.NewHoldStore(redisClient, cfg.SlotHoldTTL)
	}

	slotsRepo := slots.NewRepository(pool)
	apptRepo := appointments.NewRepository(pool)
	outboxStore := events.NewOutboxStore(pool)
	authRepo := auth.NewRepository(pool)

	apptService := appointments.NewService(apptRepo, slotsRepo, outboxStore, bookingMetrics, logger)
	authService := auth.NewService(authRepo, cfg.SessionJWTSecret, cfg.SessionTTL, logger)

	videoClient := video.NewClient(video.Config{
		BaseURL: cfg.VideoAPIBaseURL,
		APIKey:  cfg.VideoAPIKey,
	}, logger)
	var tokenIssuer *video.TokenIssuer
	if cfg.VideoAPISecret != "" {
		tokenIssuer = video.NewTokenIssuer(cfg.VideoAPIKey, cfg.VideoAPISecret, cfg.VideoTokenTTL)
	}
	videoService := video.NewService(apptRepo, roomCreatorOrNil(videoClient), tokenIssuer, cfg.MeetingLinkDomain, bookingMetrics, logger)

	postalClient := postal.NewClient(postal.Config{
		BaseURL: cfg.PostalAPIBaseURL,
		Timeout: cfg.PostalAPITimeout,
	}, bookingMetrics, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		AuthHandler:         auth.NewHandler(authService, logger),
		VideoHandler:        video.NewHandler(videoService, logger),
		SlotsHandler:        slots.NewHandler(slotsRepo, holderOrNil(holds), logger),
		PostalHandler:       postal.NewHandler(postalClient, logger),
		MetricsHandler:      promhttp.Handler(),
		SessionJWTSecret:    cfg.SessionJWTSecret,
		LoginRateLimit:      cfg.LoginRateLimit,
		LoginRateBurst:      cfg.LoginRateBurst,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// A nil *Client stored in a non-nil interface would dodge the service's
// nil check, so convert explicitly.
func roomCreatorOrNil(c *video.Client) video.RoomCreator {
	if c == nil {
		return nil
	}
	return c
}

func holderOrNil(h *slots.HoldStore) slots.Holder {
	if h == nil {
		return nil
	}
	return h
}
