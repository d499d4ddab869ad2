package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seatswap/internal/config"
	"seatswap/internal/domain/notification"
	"seatswap/internal/infra/email"
	"seatswap/internal/infra/queue"
	"seatswap/internal/infra/ratelimit"
	"seatswap/internal/infra/realtime"
	"seatswap/internal/infra/store"
	"seatswap/internal/router"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the notification.Enqueuer interface.
type queueEnqueuer struct {
	client   *asynq.Client
	maxRetry int
}

func (q *queueEnqueuer) EnqueueDispatch(notificationID string, processAt time.Time) error {
	return queue.EnqueueDispatch(q.client, notificationID, processAt, q.maxRetry)
}

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase Store (notifications, preferences, user directory)
	supaStore, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize supabase store", "error", err)
		os.Exit(1)
	}
	slog.Info("supabase store initialized")

	// Resend Mailer
	mailer := email.NewResendMailer(
		cfg.Email.APIKey,
		cfg.Email.FromAddress,
		cfg.Email.FromName,
	)

	// Realtime Emitter (in-app channel, Redis pub/sub)
	emitter := realtime.NewRedisEmitter(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer emitter.Close()
	slog.Info("realtime emitter initialized", "redis", cfg.Redis.Address)

	// Asynq Client (for deferred dispatch)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()

	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// Per-user notification cap (optional)
	var limiter notification.RecipientRateLimiter
	if cfg.Notifications.MaxPerUserPerHour > 0 {
		redisLimiter := ratelimit.NewRedisRecipientLimiter(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Notifications.MaxPerUserPerHour,
		)
		defer redisLimiter.Close()
		limiter = redisLimiter
		slog.Info("per-user notification cap enabled", "max_per_hour", cfg.Notifications.MaxPerUserPerHour)
	}

	// Dispatcher. Push and SMS transports are not wired; the dispatcher
	// logs those sends and moves on.
	dispatcher := notification.NewDispatcher(
		supaStore,
		supaStore,
		mailer,
		emitter,
		nil, // push
		nil, // sms
		time.Duration(cfg.Notifications.ChannelTimeoutSec)*time.Second,
	)

	// Service
	notificationService := notification.NewService(supaStore, supaStore, dispatcher, enqueuer, limiter)

	// Handler
	notificationHandler := notification.NewHandler(notificationService)

	// Router
	r := router.New(cfg, notificationHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
