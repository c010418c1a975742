package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/config"
	"github.com/talentfit/talentfit/internal/database"
	"github.com/talentfit/talentfit/internal/logger"
	"github.com/talentfit/talentfit/internal/tasks"
	"github.com/talentfit/talentfit/internal/workers"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	log.Info().Str("version", version).Msg("Starting TalentFit Asynq worker")

	db, err := database.Open(cfg.Database.URL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	// Initialize Asynq client (used by the cleanup scheduler)
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})
	defer asynqClient.Close()

	asynqServer := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr: cfg.Redis.Address,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueCritical: 6,
				tasks.QueueDefault:  3,
				tasks.QueueLow:      1,
			},
			Logger: &asynqLogger{log: log},
		},
	)

	// The worker only cleans codes, it never sends them, so it needs no mailer or file store
	accountsService := accounts.NewService(db, nil, nil, nil, accounts.Options{
		VerificationCodeTTL: cfg.Auth.VerificationCodeTTL,
	}, log)
	sender := workers.NewSender(cfg.Mail, log)

	// Register task handlers
	mux := asynq.NewServeMux()

	mux.HandleFunc(tasks.TypeVerificationEmail, func(ctx context.Context, t *asynq.Task) error {
		return workers.HandleVerificationEmail(ctx, t, sender, log)
	})
	mux.HandleFunc(tasks.TypeVerificationCleanup, func(ctx context.Context, t *asynq.Task) error {
		return workers.HandleVerificationCleanup(ctx, t, accountsService, log)
	})

	scheduler, err := workers.StartCleanupScheduler(asynqClient, cfg.Worker.CleanupSchedule, log)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Worker.CleanupSchedule).Msg("Invalid cleanup schedule")
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Starting Asynq worker server...")
		if err := asynqServer.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Asynq worker server failed")
		}
	}()

	<-sigChan
	log.Info().Msg("Received shutdown signal, shutting down gracefully...")

	<-scheduler.Stop().Done()

	log.Info().Msg("Stopping Asynq worker - waiting for tasks to finish...")
	asynqServer.Shutdown()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("Worker shutdown complete")
}

// asynqLogger is a wrapper to make zerolog compatible with Asynq's logger interface
type asynqLogger struct {
	log zerolog.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.log.Debug().Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.log.Info().Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.log.Warn().Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.log.Error().Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.log.Fatal().Msg(fmt.Sprint(args...))
}
