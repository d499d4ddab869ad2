package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seatswap/internal/config"
	"seatswap/internal/domain/notification"
	"seatswap/internal/infra/email"
	"seatswap/internal/infra/queue"
	"seatswap/internal/infra/realtime"
	"seatswap/internal/infra/store"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the notification.Enqueuer interface.
// Used by the reaper to re-enqueue overdue notifications.
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

	slog.Info("worker configuration loaded")

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase Store
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

	// Realtime Emitter
	emitter := realtime.NewRedisEmitter(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer emitter.Close()

	// Dispatcher
	dispatcher := notification.NewDispatcher(
		supaStore,
		supaStore,
		mailer,
		emitter,
		nil, // push
		nil, // sms
		time.Duration(cfg.Notifications.ChannelTimeoutSec)*time.Second,
	)

	// Deferred-dispatch worker
	notifWorker := notification.NewWorker(supaStore, supaStore, dispatcher)

	// Asynq Client (for reaper re-enqueuing)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()

	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskTypeDispatch, func(ctx context.Context, task *asynq.Task) error {
		payload, err := notification.ParseDispatchPayload(task.Payload())
		if err != nil {
			return err
		}
		return notifWorker.ProcessDispatch(ctx, payload.NotificationID)
	})

	// Start the asynq worker in a goroutine
	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// ==========================================
	// Overdue-Dispatch Reaper
	// ==========================================

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()

	reaper := notification.NewReaper(supaStore, enqueuer, notification.ReaperConfig{
		Interval:  time.Duration(cfg.Reaper.IntervalSec) * time.Second,
		Grace:     time.Duration(cfg.Reaper.GraceSec) * time.Second,
		BatchSize: cfg.Reaper.BatchSize,
	})

	go reaper.Run(reaperCtx)

	// ==========================================
	// Graceful Shutdown
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	reaperCancel() // Stop the reaper first
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
